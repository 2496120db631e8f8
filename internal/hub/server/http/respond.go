package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	"github.com/autoscope-io/autoscope/pkg/log"
)

// errorBody is the stable failure envelope. The code field is keyed by the
// resolver taxonomy so clients can branch without parsing messages.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type itemsBody[T any] struct {
	Items []T `json:"items"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err, "Failed to encode response")
	}
}

func writeItems[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, itemsBody[T]{Items: items})
}

// writeError maps a resolver failure onto its stable status code and error
// code. Anything outside the taxonomy is an internal error; the detail goes
// to the log, not the client.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error(err, "Internal error while handling resource request")
		msg = "internal error"
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrDataNotFound):
		return http.StatusNotFound, "data_not_found"
	case errors.Is(err, model.ErrFileNotFound):
		return http.StatusNotFound, "file_not_found"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrCategoryNotAllowed):
		return http.StatusForbidden, "category_not_allowed"
	case errors.Is(err, model.ErrPathTraversalDenied):
		return http.StatusForbidden, "path_traversal_denied"
	case errors.Is(err, model.ErrUnknownArchitecture):
		// Past load-time validation this is a configuration regression.
		return http.StatusInternalServerError, "unknown_architecture"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{Code: "bad_request", Message: msg}})
}
