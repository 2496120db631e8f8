package service

import (
	"fmt"
	"sort"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

// DataEntry is one row of a data listing, tagged with its source category.
type DataEntry struct {
	ID       string             `json:"id"`
	Category model.DataCategory `json:"category"`
	Value    model.Value        `json:"data"`
}

// GetData resolves a data key against an entity's categories in the fixed
// priority order identData, currentData, sysInfo. The first match wins, so a
// key present in both identData and currentData resolves to the identData
// value. This precedence is a policy decision and must not change.
func (s *Service) GetData(collection model.Collection, id, dataID string) (model.Value, error) {
	e, err := s.resolve(collection, id)
	if err != nil {
		return model.Value{}, err
	}

	for _, cat := range model.CategoryPriority {
		if v, ok := e.Data.Category(cat)[dataID]; ok {
			return v, nil
		}
	}

	return model.Value{}, fmt.Errorf("entity %q key %q: %w", id, dataID, model.ErrDataNotFound)
}

// ListData enumerates every key of every data category in priority order,
// tagging each entry with its source category. Within one category entries
// are sorted lexicographically by key, giving the listing a documented
// stable order. A key shadowed by a higher-priority category still appears
// under its own category; discovery shows the full picture.
func (s *Service) ListData(collection model.Collection, id string) ([]DataEntry, error) {
	e, err := s.resolve(collection, id)
	if err != nil {
		return nil, err
	}

	var out []DataEntry
	for _, cat := range model.CategoryPriority {
		values := e.Data.Category(cat)
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, DataEntry{ID: k, Category: cat, Value: values[k]})
		}
	}
	if out == nil {
		out = []DataEntry{}
	}
	return out, nil
}
