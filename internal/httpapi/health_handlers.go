package httpapi

import (
	"net/http"

	"jobhub-engine/internal/events"
	"jobhub-engine/internal/orchestrator"
)

type HealthHandler struct {
	Orch  *orchestrator.Orchestrator
	Store JobReader
	Hub   *events.Hub
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"ok":      true,
		"running": h.Orch.Active() != nil,
	}
	if h.Hub != nil {
		body["subscribers"] = h.Hub.Subscribers()
	}
	if h.Store != nil {
		n, err := h.Store.CountJobs(r.Context())
		if err != nil {
			body["ok"] = false
			body["store_error"] = err.Error()
			WriteJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		body["jobs"] = n
	}
	WriteJSON(w, http.StatusOK, body)
}
