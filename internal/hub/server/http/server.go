package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/autoscope-io/autoscope/internal/hub/core/service"
	"github.com/autoscope-io/autoscope/internal/pkg/metrics"
	"github.com/autoscope-io/autoscope/pkg/log"
	"github.com/autoscope-io/autoscope/pkg/options"
)

// APIPrefix is the base path of the resource API.
const APIPrefix = "/api/v1"

// Server is the HTTP resource API: a thin adapter mapping routes onto the
// resolver engine. The engine itself never imports net/http.
type Server struct {
	server  *http.Server
	options *options.HttpOptions
}

// NewServer builds the router and wires it to the engine.
func NewServer(opts *options.HttpOptions, svc *service.Service) *Server {
	return &Server{
		server: &http.Server{
			Addr:    opts.Addr,
			Handler: NewRouter(svc),
		},
		options: opts,
	}
}

// NewRouter constructs the full route table. Split out from NewServer so
// tests can drive it through httptest without binding a socket.
func NewRouter(svc *service.Service) http.Handler {
	h := &handler{svc: svc}

	r := mux.NewRouter()

	// Liveness / readiness probes and metrics share the API server.
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	api := r.PathPrefix(APIPrefix).Subrouter()

	// Relation routes are registered before the generic collection routes so
	// the literal segments win the match.
	api.HandleFunc("/areas/{id}/components", instrument("components_in_area", h.componentsInArea)).Methods(http.MethodGet)
	api.HandleFunc("/components/{id}/apps", instrument("apps_on_component", h.appsOnComponent)).Methods(http.MethodGet)

	api.HandleFunc("/{collection}", instrument("list_entities", h.listEntities)).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}", instrument("get_entity", h.getEntity)).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}/data", instrument("list_data", h.listData)).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}/data/{dataID}", instrument("get_data", h.getData)).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}/faults", instrument("get_faults", h.getFaults)).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}/bulk-data", instrument("list_bulk_categories", h.listBulkCategories)).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}/bulk-data/{category}", instrument("list_bulk_files", h.listBulkFiles)).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}/bulk-data/{category}/{path:.+}", instrument("get_bulk_file", h.getBulkFile)).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}/operations/{opID}/executions", instrument("execute_operation", h.executeOperation)).Methods(http.MethodPost)
	api.HandleFunc("/{collection}/{id}/operations/{opID}/executions/{execID}", instrument("get_execution", h.getExecution)).Methods(http.MethodGet)

	return r
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
