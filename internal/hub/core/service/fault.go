package service

import (
	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

// GetFaults returns the entity's fault sequence, in ingest order, narrowed
// by the filter. An entity without faults (or with no matches) yields an
// empty slice with success; only a missing entity is an error. Areas and
// functions own no faults, so they always yield an empty slice.
func (s *Service) GetFaults(collection model.Collection, id string, filter model.FaultFilter) ([]model.Fault, error) {
	e, err := s.resolve(collection, id)
	if err != nil {
		return nil, err
	}

	out := make([]model.Fault, 0, len(e.Faults))
	for _, f := range e.Faults {
		if filter.Matches(f) {
			out = append(out, f)
		}
	}
	return out, nil
}
