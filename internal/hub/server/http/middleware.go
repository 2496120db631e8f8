package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/autoscope-io/autoscope/internal/pkg/metrics"
	"github.com/autoscope-io/autoscope/pkg/log"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request logging and per-operation
// metrics.
func instrument(operation string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		elapsed := time.Since(start)
		metrics.RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
		metrics.RequestsTotal.WithLabelValues(operation, outcomeOf(rec.status)).Inc()

		log.Debug("Handled resource request",
			"operation", operation,
			"method", r.Method,
			"path", r.URL.Path,
			"status", strconv.Itoa(rec.status),
			"duration", elapsed,
		)
	}
}

func outcomeOf(status int) string {
	switch {
	case status < 400:
		return "ok"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusNotFound:
		return "not_found"
	case status < 500:
		return "bad_request"
	default:
		return "internal"
	}
}
