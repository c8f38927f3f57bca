package orchestrator

import (
	"context"
	"slices"
	"sync"

	"jobhub-engine/internal/domain"
)

// Run is one scrape run. Its state is only mutated by the orchestrator;
// callers read it through Snapshot.
type Run struct {
	mu     sync.Mutex
	state  domain.ScrapeRun
	cancel context.CancelCauseFunc
	done   chan struct{}
}

func newRun(state domain.ScrapeRun, cancel context.CancelCauseFunc) *Run {
	return &Run{state: state, cancel: cancel, done: make(chan struct{})}
}

func (r *Run) ID() string { return r.state.RunID }

// Snapshot returns a copy of the run. While the run is going it carries the
// partial source stats and no records.
func (r *Run) Snapshot() domain.ScrapeRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	s.SourceStats = slices.Clone(r.state.SourceStats)
	s.JobRecords = slices.Clone(r.state.JobRecords)
	return s
}

func (r *Run) Status() domain.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Status
}

// Cancel stops the run cooperatively: nothing new is fetched, requests on
// the wire finish. It is a no-op once the run is terminal.
func (r *Run) Cancel() { r.cancel(errCancelled) }

// Done is closed once the run is terminal and persisted.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run ends. If ctx ends first the run is cancelled
// and Wait still returns its final state.
func (r *Run) Wait(ctx context.Context) domain.ScrapeRun {
	select {
	case <-r.done:
	case <-ctx.Done():
		r.Cancel()
		<-r.done
	}
	return r.Snapshot()
}

func (r *Run) update(fn func(*domain.ScrapeRun)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.state)
}

func (r *Run) updateSource(i int, fn func(*domain.SourceStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.state.SourceStats[i])
}

func (r *Run) sourceStats(i int) domain.SourceStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.SourceStats[i]
}
