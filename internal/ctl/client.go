package ctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

const apiPrefix = "/api/v1"

// Client is a thin wrapper over the hub HTTP API for the command line.
type Client struct {
	base string
	http *http.Client
}

// NewClient targets a hub at base, e.g. "http://localhost:8080".
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}
}

// EntityRef is one row of an entity or relation listing.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Href string `json:"href"`
}

// Entity is the detail document of a single entity. It mirrors the hub's
// entity envelope; only the fields relevant to the entity's kind are set.
type Entity struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Architecture    string   `json:"architecture,omitempty"`
	AreaIDs         []string `json:"areaIds,omitempty"`
	ComponentIDs    []string `json:"componentIds,omitempty"`
	HostComponentID string   `json:"hostComponentId,omitempty"`
	BulkCategories  []string `json:"bulkDataCategories,omitempty"`
}

// DataEntry is one resolved data value with its winning category.
type DataEntry struct {
	ID       string      `json:"id"`
	Category string      `json:"category"`
	Value    model.Value `json:"data"`
}

// FileInfo is one bulk artifact listing row.
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// FaultQuery carries the optional fault filters.
type FaultQuery struct {
	Status   string
	Severity *int
	Scope    string
}

func (c *Client) ListEntities(ctx context.Context, collection string) ([]EntityRef, error) {
	var out []EntityRef
	err := c.getItems(ctx, fmt.Sprintf("%s/%s", apiPrefix, collection), nil, &out)
	return out, err
}

func (c *Client) GetEntity(ctx context.Context, collection, id string) (*Entity, error) {
	var out Entity
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/%s", apiPrefix, collection, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListData(ctx context.Context, collection, id string) ([]DataEntry, error) {
	var out []DataEntry
	err := c.getItems(ctx, fmt.Sprintf("%s/%s/%s/data", apiPrefix, collection, id), nil, &out)
	return out, err
}

func (c *Client) GetData(ctx context.Context, collection, id, dataID string) (model.Value, error) {
	var out struct {
		ID   string      `json:"id"`
		Data model.Value `json:"data"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("%s/%s/%s/data/%s", apiPrefix, collection, id, dataID), nil, &out)
	return out.Data, err
}

func (c *Client) ListFaults(ctx context.Context, collection, id string, q FaultQuery) ([]model.Fault, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Severity != nil {
		query.Set("severity", strconv.Itoa(*q.Severity))
	}
	if q.Scope != "" {
		query.Set("scope", q.Scope)
	}

	var out []model.Fault
	err := c.getItems(ctx, fmt.Sprintf("%s/%s/%s/faults", apiPrefix, collection, id), query, &out)
	return out, err
}

func (c *Client) ListBulkCategories(ctx context.Context, collection, id string) ([]string, error) {
	var out []string
	err := c.getItems(ctx, fmt.Sprintf("%s/%s/%s/bulk-data", apiPrefix, collection, id), nil, &out)
	return out, err
}

func (c *Client) ListBulkFiles(ctx context.Context, collection, id, category string) ([]FileInfo, error) {
	var out []FileInfo
	err := c.getItems(ctx, fmt.Sprintf("%s/%s/%s/bulk-data/%s", apiPrefix, collection, id, category), nil, &out)
	return out, err
}

// DownloadBulkFile streams one artifact to w and returns the byte count.
func (c *Client) DownloadBulkFile(ctx context.Context, w io.Writer, collection, id, category, name string) (int64, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/%s/%s/bulk-data/%s/%s", apiPrefix, collection, id, category, name), nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(w, resp.Body)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// getItems unwraps the {"items": [...]} listing envelope.
func (c *Client) getItems(ctx context.Context, path string, query url.Values, out any) error {
	var envelope struct {
		Items json.RawMessage `json:"items"`
	}
	if err := c.getJSON(ctx, path, query, &envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Items, out)
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error.Code == "" {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return fmt.Errorf("%s: %s", body.Error.Code, body.Error.Message)
}
