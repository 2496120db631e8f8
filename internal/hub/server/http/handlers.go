package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	"github.com/autoscope-io/autoscope/internal/hub/core/service"
	"github.com/autoscope-io/autoscope/internal/pkg/metrics"
	"github.com/autoscope-io/autoscope/pkg/log"
)

type handler struct {
	svc *service.Service
}

// refDoc is one entity listing row, with its resource href.
type refDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Href string `json:"href"`
}

func refsOf(collection model.Collection, refs []service.EntityRef) []refDoc {
	out := make([]refDoc, 0, len(refs))
	for _, ref := range refs {
		out = append(out, refDoc{
			ID:   ref.ID,
			Name: ref.Name,
			Href: fmt.Sprintf("%s/%s/%s", APIPrefix, collection, ref.ID),
		})
	}
	return out
}

func (h *handler) listEntities(w http.ResponseWriter, r *http.Request) {
	collection := model.Collection(mux.Vars(r)["collection"])
	// Unknown collections yield an empty listing, not an error.
	writeItems(w, refsOf(collection, h.svc.ListEntities(collection)))
}

func (h *handler) getEntity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	env, err := h.svc.GetEntity(model.Collection(vars["collection"]), vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *handler) componentsInArea(w http.ResponseWriter, r *http.Request) {
	refs, err := h.svc.ComponentsInArea(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, refsOf(model.CollectionComponents, refs))
}

func (h *handler) appsOnComponent(w http.ResponseWriter, r *http.Request) {
	refs, err := h.svc.AppsOnComponent(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, refsOf(model.CollectionApps, refs))
}

func (h *handler) listData(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entries, err := h.svc.ListData(model.Collection(vars["collection"]), vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, entries)
}

func (h *handler) getData(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	value, err := h.svc.GetData(model.Collection(vars["collection"]), vars["id"], vars["dataID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":   vars["dataID"],
		"data": value,
	})
}

func (h *handler) getFaults(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	q := r.URL.Query()

	filter := model.FaultFilter{
		Status: model.AggregatedStatus(q.Get("status")),
		Scope:  q.Get("scope"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeBadRequest(w, fmt.Sprintf("invalid status filter %q", filter.Status))
		return
	}
	if raw := q.Get("severity"); raw != "" {
		sev, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, fmt.Sprintf("invalid severity filter %q", raw))
			return
		}
		filter.Severity = &sev
	}

	faults, err := h.svc.GetFaults(model.Collection(vars["collection"]), vars["id"], filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, faults)
}

func (h *handler) listBulkCategories(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	categories, err := h.svc.ListBulkCategories(model.Collection(vars["collection"]), vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, categories)
}

func (h *handler) listBulkFiles(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	files, err := h.svc.ListBulkFiles(model.Collection(vars["collection"]), vars["id"], vars["category"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, files)
}

func (h *handler) getBulkFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	file, err := h.svc.OpenBulkFile(model.Collection(vars["collection"]), vars["id"], vars["category"], vars["path"])
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Reader.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Last-Modified", file.ModTime.UTC().Format(http.TimeFormat))

	// Stream verbatim, stopping promptly if the caller goes away; the
	// deferred Close releases the handle either way.
	n, err := copyContext(r.Context(), w, file.Reader)
	metrics.BulkBytesServed.Add(float64(n))
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("Bulk file stream aborted", "file", file.Name, "err", err)
	}
}

func (h *handler) executeOperation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var body map[string]any
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeBadRequest(w, "malformed request body")
			return
		}
	}

	status, err := h.svc.ExecuteOperation(r.Context(), model.Collection(vars["collection"]), vars["id"], vars["opID"], body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, status)
}

func (h *handler) getExecution(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.GetExecution(mux.Vars(r)["execID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// copyContext copies src to dst in bounded chunks, checking for caller
// cancellation between chunks so large artifact streams stop promptly on
// disconnect.
func copyContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				return written, nil
			}
			return written, rerr
		}
	}
}
