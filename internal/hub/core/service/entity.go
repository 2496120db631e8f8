package service

import (
	"fmt"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

// EntityRef is one row of an entity listing.
type EntityRef struct {
	ID   string
	Name string
}

// entityView is the uniform resolver-facing projection of any entity. Areas
// and functions carry no architecture, data or bulk categories; resolvers
// treat those as empty rather than special-casing the entity kind.
type entityView struct {
	ID             string
	Name           string
	Architecture   string
	Data           model.DataSet
	BulkCategories []string
	Faults         []model.Fault
}

// resolve locates an entity by (collection, id) and returns its projection.
// Apps inherit the architecture of their host component.
func (s *Service) resolve(collection model.Collection, id string) (entityView, error) {
	switch collection {
	case model.CollectionAreas:
		a, err := s.store.GetArea(id)
		if err != nil {
			return entityView{}, err
		}
		return entityView{ID: a.ID, Name: a.Name}, nil

	case model.CollectionComponents:
		c, err := s.store.GetComponent(id)
		if err != nil {
			return entityView{}, err
		}
		return entityView{
			ID:             c.ID,
			Name:           c.Name,
			Architecture:   c.Architecture,
			Data:           c.Data,
			BulkCategories: c.BulkCategories,
			Faults:         c.Faults,
		}, nil

	case model.CollectionApps:
		a, err := s.store.GetApp(id)
		if err != nil {
			return entityView{}, err
		}
		host, err := s.store.GetComponent(a.HostComponentID)
		if err != nil {
			// Load-time validation guarantees the host exists.
			return entityView{}, err
		}
		return entityView{
			ID:             a.ID,
			Name:           a.Name,
			Architecture:   host.Architecture,
			Data:           a.Data,
			BulkCategories: a.BulkCategories,
			Faults:         a.Faults,
		}, nil

	case model.CollectionFunctions:
		f, err := s.store.GetFunction(id)
		if err != nil {
			return entityView{}, err
		}
		return entityView{ID: f.ID, Name: f.Name}, nil

	default:
		return entityView{}, fmt.Errorf("collection %q: %w", collection, model.ErrNotFound)
	}
}

// ListEntities lists a collection in seed order. An unknown collection is
// not an error; it yields an empty listing.
func (s *Service) ListEntities(collection model.Collection) []EntityRef {
	switch collection {
	case model.CollectionAreas:
		areas := s.store.Areas()
		out := make([]EntityRef, 0, len(areas))
		for _, a := range areas {
			out = append(out, EntityRef{ID: a.ID, Name: a.Name})
		}
		return out
	case model.CollectionComponents:
		comps := s.store.Components()
		out := make([]EntityRef, 0, len(comps))
		for _, c := range comps {
			out = append(out, EntityRef{ID: c.ID, Name: c.Name})
		}
		return out
	case model.CollectionApps:
		apps := s.store.Apps()
		out := make([]EntityRef, 0, len(apps))
		for _, a := range apps {
			out = append(out, EntityRef{ID: a.ID, Name: a.Name})
		}
		return out
	case model.CollectionFunctions:
		fns := s.store.Functions()
		out := make([]EntityRef, 0, len(fns))
		for _, f := range fns {
			out = append(out, EntityRef{ID: f.ID, Name: f.Name})
		}
		return out
	default:
		return []EntityRef{}
	}
}

// GetEntity returns the envelope for a single entity: its ref plus the
// relation ids relevant to its kind.
func (s *Service) GetEntity(collection model.Collection, id string) (EntityEnvelope, error) {
	switch collection {
	case model.CollectionAreas:
		a, err := s.store.GetArea(id)
		if err != nil {
			return EntityEnvelope{}, err
		}
		return EntityEnvelope{ID: a.ID, Name: a.Name, ComponentIDs: a.MemberComponentIDs}, nil
	case model.CollectionComponents:
		c, err := s.store.GetComponent(id)
		if err != nil {
			return EntityEnvelope{}, err
		}
		return EntityEnvelope{
			ID:             c.ID,
			Name:           c.Name,
			Architecture:   c.Architecture,
			AreaIDs:        c.AreaIDs,
			BulkCategories: c.BulkCategories,
		}, nil
	case model.CollectionApps:
		a, err := s.store.GetApp(id)
		if err != nil {
			return EntityEnvelope{}, err
		}
		return EntityEnvelope{
			ID:              a.ID,
			Name:            a.Name,
			HostComponentID: a.HostComponentID,
			BulkCategories:  a.BulkCategories,
		}, nil
	case model.CollectionFunctions:
		f, err := s.store.GetFunction(id)
		if err != nil {
			return EntityEnvelope{}, err
		}
		return EntityEnvelope{ID: f.ID, Name: f.Name, ComponentIDs: f.ParticipantComponentIDs}, nil
	default:
		return EntityEnvelope{}, fmt.Errorf("collection %q: %w", collection, model.ErrNotFound)
	}
}

// EntityEnvelope is the single-entity response shape. Only the fields
// relevant to the entity's kind are populated.
type EntityEnvelope struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Architecture    string   `json:"architecture,omitempty"`
	AreaIDs         []string `json:"areaIds,omitempty"`
	ComponentIDs    []string `json:"componentIds,omitempty"`
	HostComponentID string   `json:"hostComponentId,omitempty"`
	BulkCategories  []string `json:"bulkDataCategories,omitempty"`
}

// ComponentsInArea lists an area's member components as refs.
func (s *Service) ComponentsInArea(areaID string) ([]EntityRef, error) {
	comps, err := s.store.ComponentsInArea(areaID)
	if err != nil {
		return nil, err
	}
	out := make([]EntityRef, 0, len(comps))
	for _, c := range comps {
		out = append(out, EntityRef{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// AppsOnComponent lists the apps hosted on a component as refs.
func (s *Service) AppsOnComponent(componentID string) ([]EntityRef, error) {
	apps, err := s.store.AppsOnComponent(componentID)
	if err != nil {
		return nil, err
	}
	out := make([]EntityRef, 0, len(apps))
	for _, a := range apps {
		out = append(out, EntityRef{ID: a.ID, Name: a.Name})
	}
	return out, nil
}
