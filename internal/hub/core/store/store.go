// Package store holds the in-memory entity graph: areas, components, apps
// and functions with their membership relations.
//
// The graph is built once by the seed loader and is read-only afterwards,
// except for the narrow mutation surface (SetCurrentData, AppendFault) used
// by the live-data ingest plane. Mutable state is guarded per entity; every
// read returns a consistent snapshot, never a view into shared maps.
package store

import (
	"fmt"
	"sync"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

type componentEntry struct {
	mu sync.RWMutex
	c  model.Component
}

type appEntry struct {
	mu sync.RWMutex
	a  model.App
}

// Store is the in-memory entity graph. Listing order is the insertion order
// of the underlying seed document and is stable across calls.
type Store struct {
	areas     map[string]model.Area
	areaOrder []string

	components     map[string]*componentEntry
	componentOrder []string

	apps     map[string]*appEntry
	appOrder []string

	functions     map[string]model.Function
	functionOrder []string
}

// New returns an empty store. Entities are added by the seed loader during
// startup; the loader validates referential integrity before the store is
// put into service.
func New() *Store {
	return &Store{
		areas:      make(map[string]model.Area),
		components: make(map[string]*componentEntry),
		apps:       make(map[string]*appEntry),
		functions:  make(map[string]model.Function),
	}
}

// --- Population (seed loader only) ---

// AddArea inserts an area. Duplicate ids are rejected.
func (s *Store) AddArea(a model.Area) error {
	if a.ID == "" {
		return fmt.Errorf("area id must not be empty")
	}
	if _, exists := s.areas[a.ID]; exists {
		return fmt.Errorf("duplicate area id %q", a.ID)
	}
	s.areas[a.ID] = a
	s.areaOrder = append(s.areaOrder, a.ID)
	return nil
}

// AddComponent inserts a component. Duplicate ids are rejected.
func (s *Store) AddComponent(c model.Component) error {
	if c.ID == "" {
		return fmt.Errorf("component id must not be empty")
	}
	if _, exists := s.components[c.ID]; exists {
		return fmt.Errorf("duplicate component id %q", c.ID)
	}
	s.components[c.ID] = &componentEntry{c: c}
	s.componentOrder = append(s.componentOrder, c.ID)
	return nil
}

// AddApp inserts an app. Duplicate ids are rejected.
func (s *Store) AddApp(a model.App) error {
	if a.ID == "" {
		return fmt.Errorf("app id must not be empty")
	}
	if _, exists := s.apps[a.ID]; exists {
		return fmt.Errorf("duplicate app id %q", a.ID)
	}
	s.apps[a.ID] = &appEntry{a: a}
	s.appOrder = append(s.appOrder, a.ID)
	return nil
}

// AddFunction inserts a function. Duplicate ids are rejected.
func (s *Store) AddFunction(f model.Function) error {
	if f.ID == "" {
		return fmt.Errorf("function id must not be empty")
	}
	if _, exists := s.functions[f.ID]; exists {
		return fmt.Errorf("duplicate function id %q", f.ID)
	}
	s.functions[f.ID] = f
	s.functionOrder = append(s.functionOrder, f.ID)
	return nil
}

// --- Lookups ---

// GetArea returns the area with the given id.
func (s *Store) GetArea(id string) (model.Area, error) {
	a, ok := s.areas[id]
	if !ok {
		return model.Area{}, fmt.Errorf("area %q: %w", id, model.ErrNotFound)
	}
	return a, nil
}

// GetComponent returns a consistent snapshot of the component with the given
// id.
func (s *Store) GetComponent(id string) (model.Component, error) {
	e, ok := s.components[id]
	if !ok {
		return model.Component{}, fmt.Errorf("component %q: %w", id, model.ErrNotFound)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.c.Clone(), nil
}

// GetApp returns a consistent snapshot of the app with the given id.
func (s *Store) GetApp(id string) (model.App, error) {
	e, ok := s.apps[id]
	if !ok {
		return model.App{}, fmt.Errorf("app %q: %w", id, model.ErrNotFound)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.a.Clone(), nil
}

// GetFunction returns the function with the given id.
func (s *Store) GetFunction(id string) (model.Function, error) {
	f, ok := s.functions[id]
	if !ok {
		return model.Function{}, fmt.Errorf("function %q: %w", id, model.ErrNotFound)
	}
	return f, nil
}

// --- Listings (seed order) ---

// Areas lists all areas in seed order.
func (s *Store) Areas() []model.Area {
	out := make([]model.Area, 0, len(s.areaOrder))
	for _, id := range s.areaOrder {
		out = append(out, s.areas[id])
	}
	return out
}

// Components lists snapshots of all components in seed order.
func (s *Store) Components() []model.Component {
	out := make([]model.Component, 0, len(s.componentOrder))
	for _, id := range s.componentOrder {
		c, _ := s.GetComponent(id)
		out = append(out, c)
	}
	return out
}

// Apps lists snapshots of all apps in seed order.
func (s *Store) Apps() []model.App {
	out := make([]model.App, 0, len(s.appOrder))
	for _, id := range s.appOrder {
		a, _ := s.GetApp(id)
		out = append(out, a)
	}
	return out
}

// Functions lists all functions in seed order.
func (s *Store) Functions() []model.Function {
	out := make([]model.Function, 0, len(s.functionOrder))
	for _, id := range s.functionOrder {
		out = append(out, s.functions[id])
	}
	return out
}

// --- Relations ---

// ComponentsInArea lists the member components of an area, in the area's
// member order. A component belonging to several areas appears once per
// containing area; membership is owned by the area, not the component.
func (s *Store) ComponentsInArea(areaID string) ([]model.Component, error) {
	a, err := s.GetArea(areaID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Component, 0, len(a.MemberComponentIDs))
	for _, cid := range a.MemberComponentIDs {
		c, err := s.GetComponent(cid)
		if err != nil {
			// Load-time validation guarantees members exist.
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// AppsOnComponent lists the apps hosted on a component, in seed order.
func (s *Store) AppsOnComponent(componentID string) ([]model.App, error) {
	if _, ok := s.components[componentID]; !ok {
		return nil, fmt.Errorf("component %q: %w", componentID, model.ErrNotFound)
	}
	var out []model.App
	for _, id := range s.appOrder {
		a, _ := s.GetApp(id)
		if a.HostComponentID == componentID {
			out = append(out, a)
		}
	}
	return out, nil
}

// AreasForComponent lists the areas a component belongs to, in seed order of
// the areas.
func (s *Store) AreasForComponent(componentID string) ([]model.Area, error) {
	c, err := s.GetComponent(componentID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Area, 0, len(c.AreaIDs))
	for _, aid := range c.AreaIDs {
		a, err := s.GetArea(aid)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// --- Mutation surface (ingest plane only) ---

// SetCurrentData updates one key in the currentData category of a component
// or app. The only validation is that the target entity exists.
func (s *Store) SetCurrentData(entityID, key string, value model.Value) error {
	if !value.IsValid() {
		return fmt.Errorf("invalid value for key %q", key)
	}

	if e, ok := s.components[entityID]; ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.c.Data.Current == nil {
			e.c.Data.Current = make(map[string]model.Value)
		}
		e.c.Data.Current[key] = value
		return nil
	}

	if e, ok := s.apps[entityID]; ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.a.Data.Current == nil {
			e.a.Data.Current = make(map[string]model.Value)
		}
		e.a.Data.Current[key] = value
		return nil
	}

	return fmt.Errorf("entity %q: %w", entityID, model.ErrNotFound)
}

// AppendFault appends a fault record to a component or app. The owner id is
// stamped when the source left it empty.
func (s *Store) AppendFault(entityID string, fault model.Fault) error {
	if fault.OwnerEntityID == "" {
		fault.OwnerEntityID = entityID
	}

	if e, ok := s.components[entityID]; ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.c.Faults = append(e.c.Faults, fault)
		return nil
	}

	if e, ok := s.apps[entityID]; ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.a.Faults = append(e.a.Faults, fault)
		return nil
	}

	return fmt.Errorf("entity %q: %w", entityID, model.ErrNotFound)
}
