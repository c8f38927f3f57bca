package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"

	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/orchestrator"
	"jobhub-engine/internal/store"
)

type ScrapeHandler struct {
	Orch   *orchestrator.Orchestrator
	Store  JobReader
	CfgVal *atomic.Value // config.Config
}

// runRequest is the POST /scrape/run body. Omitted fields fall back to the
// run section of the config.
type runRequest struct {
	Locations []string `json:"locations"`
	Sources   []string `json:"sources"`
	Pages     *int     `json:"pages"`
	Queries   []string `json:"queries"`
}

type runStatus struct {
	domain.ScrapeRun
	Running bool `json:"running"`
	Jobs    int  `json:"jobs"`
}

func statusOf(run *orchestrator.Run, withRecords bool) runStatus {
	snap := run.Snapshot()
	st := runStatus{ScrapeRun: snap, Running: !snap.Status.Terminal(), Jobs: len(snap.JobRecords)}
	if !withRecords {
		st.JobRecords = nil
	}
	return st
}

func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}

	cfg := currentConfig(h.CfgVal)
	sub := domain.Submission{
		Locations: req.Locations,
		Sources:   req.Sources,
		Pages:     cfg.Run.Pages,
		Queries:   req.Queries,
	}
	if len(sub.Locations) == 0 {
		sub.Locations = cfg.Run.Locations
	}
	if req.Pages != nil {
		sub.Pages = *req.Pages
	}

	run, err := h.Orch.Start(r.Context(), sub)
	if err != nil {
		var activeID string
		if active := h.Orch.Active(); active != nil {
			activeID = active.ID()
		}
		writeStartError(w, r, err, activeID)
		return
	}
	WriteJSON(w, http.StatusAccepted, statusOf(run, false))
}

// Status reports the run named by run_id, else the latest run. Records are
// included with records=1 once the run is terminal.
func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("run_id")
	withRecords := r.URL.Query().Get("records") == "1"

	var run *orchestrator.Run
	if id != "" {
		run, _ = h.Orch.Get(id)
	} else {
		run = h.Orch.Latest()
	}
	if run != nil {
		WriteJSON(w, http.StatusOK, statusOf(run, withRecords))
		return
	}

	if h.Store == nil {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such run")
		return
	}
	past, err := h.pastRun(r, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, runStatus{ScrapeRun: past})
}

// pastRun loads run id from the store, or the most recent run when id is "".
func (h ScrapeHandler) pastRun(r *http.Request, id string) (domain.ScrapeRun, error) {
	if id != "" {
		return h.Store.GetRun(r.Context(), id)
	}
	runs, err := h.Store.ListRuns(r.Context(), 1)
	if err != nil {
		return domain.ScrapeRun{}, err
	}
	if len(runs) == 0 {
		return domain.ScrapeRun{}, store.ErrNotFound
	}
	return runs[0], nil
}

func (h ScrapeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	run := h.Orch.Active()
	if run == nil {
		WriteError(w, r, http.StatusConflict, "not_running", "no scrape run is in progress")
		return
	}
	run.Cancel()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "run_id": run.ID()})
}

func (h ScrapeHandler) Runs(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		WriteJSON(w, http.StatusOK, []domain.ScrapeRun{})
		return
	}
	runs, err := h.Store.ListRuns(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if runs == nil {
		runs = []domain.ScrapeRun{}
	}
	WriteJSON(w, http.StatusOK, runs)
}
