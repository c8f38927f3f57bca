package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobhub-engine/internal/orchestrator"
	"jobhub-engine/internal/store"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
		// RunID names the run a conflict is about.
		RunID string `json:"run_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newAPIError(r *http.Request, code, message string) APIError {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	return e
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, newAPIError(r, code, message))
}

// writeStartError maps a failed Orchestrator.Start to a response. activeID
// is the run holding the slot, if any.
func writeStartError(w http.ResponseWriter, r *http.Request, err error, activeID string) {
	switch {
	case errors.Is(err, orchestrator.ErrRunInProgress):
		e := newAPIError(r, "already_running", err.Error())
		e.Error.RunID = activeID
		WriteJSON(w, http.StatusConflict, e)
	case errors.Is(err, orchestrator.ErrInvalidSubmission):
		WriteError(w, r, http.StatusBadRequest, "invalid_submission", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "start_failed", err.Error())
	}
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such run")
		return
	}
	WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
}
