package httpapi

import (
	"net/http"

	"jobhub-engine/internal/store"
)

type JobsHandler struct {
	Store JobReader
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "no_store", "persistence is disabled")
		return
	}
	q := r.URL.Query()
	jobs, err := h.Store.ListJobs(r.Context(), store.ListJobsOpts{
		Sort:     q.Get("sort"),
		Window:   q.Get("window"),
		Source:   q.Get("source"),
		MinScore: queryInt(r, "min_score", 0),
		Limit:    queryInt(r, "limit", 500),
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []store.Job{}
	}
	WriteJSON(w, http.StatusOK, jobs)
}
