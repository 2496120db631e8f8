// Package service implements the resolver engine: entity listing, data
// resolution, bulk-data access, fault filtering and operation executions.
//
// The package is transport-agnostic. All failures are returned as wrapped
// sentinel errors from the model package; the HTTP layer maps them to status
// codes.
package service

import (
	"sync"

	billy "github.com/go-git/go-billy/v5"

	"github.com/autoscope-io/autoscope/internal/hub/core/arch"
	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	"github.com/autoscope-io/autoscope/internal/hub/core/store"
	"github.com/autoscope-io/autoscope/internal/hub/storage"
)

// Service is the resolver engine. It owns no transport concerns; the entity
// store, architecture registry, bulk filesystem and artifact archive are
// injected once at startup.
type Service struct {
	store   *store.Store
	arch    *arch.Registry
	fs      billy.Filesystem
	archive storage.Provider

	execMu sync.RWMutex
	execs  map[string]*execution
}

// New creates the resolver engine. fs is the bulk-data base filesystem
// (osfs in production, memfs in tests). archive may be nil; snapshot-upload
// executions then fail with a clear reason instead of the hub refusing to
// start.
func New(st *store.Store, reg *arch.Registry, fs billy.Filesystem, archive storage.Provider) *Service {
	return &Service{
		store:   st,
		arch:    reg,
		fs:      fs,
		archive: archive,
		execs:   make(map[string]*execution),
	}
}

// Store exposes the underlying entity store for read-only consumers.
func (s *Service) Store() *store.Store { return s.store }

// SetCurrentData is the ingest-plane entry point for live value updates.
func (s *Service) SetCurrentData(entityID, key string, value model.Value) error {
	return s.store.SetCurrentData(entityID, key, value)
}

// AppendFault is the ingest-plane entry point for fault events.
func (s *Service) AppendFault(entityID string, fault model.Fault) error {
	return s.store.AppendFault(entityID, fault)
}
