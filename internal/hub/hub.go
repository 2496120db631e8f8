package hub

import (
	"context"
	"time"

	"github.com/autoscope-io/autoscope/internal/hub/server"
	"github.com/autoscope-io/autoscope/internal/hub/storage"
	"github.com/autoscope-io/autoscope/pkg/log"
)

// Hub is the assembled resource server: the protocol servers plus the
// optional artifact archive.
type Hub struct {
	manager *server.Manager
	archive storage.Provider
}

// Run starts all servers and blocks until the context is cancelled or a
// server fails.
func (h *Hub) Run(ctx context.Context) error {
	if h.archive != nil {
		// A missing bucket degrades snapshot uploads, it does not block the
		// resource API.
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := h.archive.EnsureBucket(checkCtx); err != nil {
			log.Warn("Artifact archive unavailable, snapshot uploads will fail", "err", err)
		}
		cancel()
	}

	err := h.manager.Start(ctx)
	log.Info("ascope-hub stopped")
	return err
}
