package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"jobhub-engine/internal/dedup"
	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/events"
	"jobhub-engine/internal/normalize"
	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/types"
)

var (
	ErrRunInProgress     = errors.New("a scrape run is already in progress")
	ErrInvalidSubmission = errors.New("invalid submission")

	errCancelled  = errors.New("run cancelled")
	errRunTimeout = errors.New("run timeout")
)

// DefaultQuery is searched when neither the submission nor the options name
// any query.
const DefaultQuery = "product manager"

const keepRuns = 20

// Catalog resolves requested source names and builds one adapter per
// source per run.
type Catalog interface {
	Resolve(requested []string) ([]string, []error)
	Build(name string, opts ...board.Option) (types.Adapter, error)
}

// JobStore is the persistence collaborator. StoreJobs must be idempotent by
// fingerprint.
type JobStore interface {
	StoreJobs(ctx context.Context, runID string, jobs []domain.JobRecord) ([]domain.StoredID, error)
	RecordRun(ctx context.Context, run domain.ScrapeRun) error
}

type Options struct {
	Catalog    Catalog
	Normalizer *normalize.Normalizer
	// Store is optional; without it runs are kept in memory only.
	Store      JobStore
	Sink       events.Sink
	PoolSize   int
	RunTimeout time.Duration
	// Queries are searched when a submission names none.
	Queries []string
	// StoreTimeout bounds persistence after a run.
	StoreTimeout time.Duration
}

// Orchestrator drives scrape runs. At most one run is active at a time.
type Orchestrator struct {
	opts     Options
	validate *validator.Validate
	newID    func() string

	mu     sync.Mutex
	active *Run
	runs   map[string]*Run
	order  []string
}

func New(opts Options) *Orchestrator {
	if opts.Sink == nil {
		opts.Sink = events.Discard{}
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = 3
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 2 * time.Minute
	}
	if opts.Normalizer == nil {
		opts.Normalizer = normalize.New(nil, nil)
	}
	return &Orchestrator{
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newID:    func() string { return uuid.New().String() },
		runs:     map[string]*Run{},
	}
}

// Start validates sub and launches a run in the background. It fails with
// ErrRunInProgress while another run is active. Unknown source names do not
// fail Start; they are listed in the run's ConfigErrors.
func (o *Orchestrator) Start(ctx context.Context, sub domain.Submission) (*Run, error) {
	if err := o.validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	locations := uniq(sub.Locations)
	if len(locations) == 0 {
		return nil, fmt.Errorf("%w: no locations", ErrInvalidSubmission)
	}
	queries := uniq(sub.Queries)
	if len(queries) == 0 {
		queries = uniq(o.opts.Queries)
	}
	if len(queries) == 0 {
		queries = []string{DefaultQuery}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		return nil, ErrRunInProgress
	}

	sources, cfgErrs := o.opts.Catalog.Resolve(sub.Sources)
	state := domain.ScrapeRun{
		RunID:              o.newID(),
		RequestedSources:   sources,
		RequestedLocations: locations,
		Queries:            queries,
		PageBudget:         sub.Pages,
		Status:             domain.RunPending,
		StartedAt:          time.Now().UTC(),
	}
	for _, err := range cfgErrs {
		state.ConfigErrors = append(state.ConfigErrors, err.Error())
	}
	for _, s := range sources {
		state.SourceStats = append(state.SourceStats, domain.SourceStats{Source: s})
	}

	// the run outlives the caller's request
	runCtx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))
	run := newRun(state, cancel)
	o.active = run
	o.remember(run)

	go o.execute(runCtx, run)
	return run, nil
}

// Execute runs sub to completion. Cancelling ctx cancels the run; the
// result is still returned.
func (o *Orchestrator) Execute(ctx context.Context, sub domain.Submission) (domain.ScrapeRun, error) {
	run, err := o.Start(ctx, sub)
	if err != nil {
		return domain.ScrapeRun{}, err
	}
	return run.Wait(ctx), nil
}

// Active returns the running run, if any.
func (o *Orchestrator) Active() *Run {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

func (o *Orchestrator) Get(id string) (*Run, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	r, ok := o.runs[id]
	return r, ok
}

// Latest returns the most recently started run.
func (o *Orchestrator) Latest() *Run {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.order) == 0 {
		return nil
	}
	return o.runs[o.order[len(o.order)-1]]
}

func (o *Orchestrator) remember(r *Run) {
	o.runs[r.ID()] = r
	o.order = append(o.order, r.ID())
	for len(o.order) > keepRuns {
		delete(o.runs, o.order[0])
		o.order = o.order[1:]
	}
}

func (o *Orchestrator) release(r *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == r {
		o.active = nil
	}
}

func (o *Orchestrator) execute(ctx context.Context, run *Run) {
	defer close(run.done)
	defer o.release(run)

	if o.opts.RunTimeout > 0 {
		t := time.AfterFunc(o.opts.RunTimeout, func() { run.cancel(errRunTimeout) })
		defer t.Stop()
	}

	var (
		sources   []string
		locations []string
		queries   []string
		pages     int
	)
	run.update(func(s *domain.ScrapeRun) {
		s.Status = domain.RunRunning
		sources, locations, queries, pages = s.RequestedSources, s.RequestedLocations, s.Queries, s.PageBudget
		for _, e := range s.ConfigErrors {
			o.opts.Sink.Emit(s.RunID, events.ConfigReject, events.Fields{"error": e})
		}
	})
	o.opts.Sink.Emit(run.ID(), events.RunStarted, events.Fields{
		"sources": sources, "locations": locations, "queries": queries, "pages": pages,
	})
	log.Info().Str("run", run.ID()).Strs("sources", sources).Strs("locations", locations).Int("pages", pages).Msg("scrape run started")

	results := make([][]domain.JobRecord, len(sources))
	var g errgroup.Group
	g.SetLimit(o.opts.PoolSize)
	for i, name := range sources {
		g.Go(func() error {
			results[i] = o.scrapeSource(ctx, run, i, name, locations, queries, pages)
			return nil // best-effort: a failed source never cancels siblings
		})
	}
	_ = g.Wait()

	var all []domain.JobRecord
	for _, recs := range results {
		all = append(all, recs...)
	}
	merged := dedup.Merge(all)

	status, reason := o.verdict(ctx, run, len(sources), len(merged))
	run.update(func(s *domain.ScrapeRun) {
		s.JobRecords = merged
		s.Duplicates = len(all) - len(merged)
		s.Status = status
		s.Error = reason
	})

	o.persist(ctx, run, merged)

	run.update(func(s *domain.ScrapeRun) { s.EndedAt = time.Now().UTC() })
	final := run.Snapshot()
	if o.opts.Store != nil {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.StoreTimeout)
		if err := o.opts.Store.RecordRun(sctx, final); err != nil {
			log.Error().Err(err).Str("run", final.RunID).Msg("record run")
		}
		cancel()
	}

	o.opts.Sink.Emit(final.RunID, events.RunFinished, events.Fields{
		"status":     final.Status,
		"jobs":       len(final.JobRecords),
		"duplicates": final.Duplicates,
		"stored_new": final.StoredNew,
		"error":      final.Error,
	})
	log.Info().Str("run", final.RunID).Str("status", string(final.Status)).Int("jobs", len(final.JobRecords)).
		Int("duplicates", final.Duplicates).Dur("took", final.EndedAt.Sub(final.StartedAt)).Msg("scrape run finished")
}

func (o *Orchestrator) verdict(ctx context.Context, run *Run, sources, records int) (domain.RunStatus, string) {
	cause := context.Cause(ctx)
	switch {
	case errors.Is(cause, errCancelled):
		return domain.RunCancelled, ""
	case errors.Is(cause, errRunTimeout):
		return domain.RunCompletedWithErrors, errRunTimeout.Error()
	case sources == 0:
		return domain.RunCompletedWithErrors, "no valid sources"
	}
	snap := run.Snapshot()
	failed := 0
	for _, st := range snap.SourceStats {
		if st.Failed() {
			failed++
		}
	}
	switch {
	case records == 0:
		return domain.RunCompletedWithErrors, "no job records found"
	case failed > 0:
		return domain.RunCompletedWithErrors, ""
	}
	return domain.RunCompleted, ""
}

// persist hands the run's records to the store. A store failure is reported
// on the run without changing its status.
func (o *Orchestrator) persist(ctx context.Context, run *Run, jobs []domain.JobRecord) {
	if o.opts.Store == nil || len(jobs) == 0 || run.Status() == domain.RunCancelled {
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.StoreTimeout)
	defer cancel()

	ids, err := o.opts.Store.StoreJobs(sctx, run.ID(), jobs)
	if err != nil {
		log.Error().Err(err).Str("run", run.ID()).Msg("store jobs")
		run.update(func(s *domain.ScrapeRun) {
			msg := "store: " + err.Error()
			if s.Error != "" {
				msg = s.Error + "; " + msg
			}
			s.Error = msg
		})
		return
	}
	fresh := 0
	for _, id := range ids {
		if id.New {
			fresh++
		}
	}
	run.update(func(s *domain.ScrapeRun) { s.Stored, s.StoredNew = len(ids), fresh })
}

// scrapeSource walks locations then queries for one source with its own
// adapter. Blocked and rate-limited stop the source for the rest of the run;
// any other failure ends only the current location and query.
func (o *Orchestrator) scrapeSource(ctx context.Context, run *Run, idx int, name string, locations, queries []string, pages int) []domain.JobRecord {
	sink := o.opts.Sink
	sink.Emit(run.ID(), events.SourceStart, events.Fields{"source": name})
	defer func() {
		run.updateSource(idx, func(s *domain.SourceStats) { s.Done = true })
		st := run.sourceStats(idx)
		sink.Emit(run.ID(), events.SourceDone, st)
	}()

	adapter, err := o.opts.Catalog.Build(name, board.WithSink(sink, run.ID()))
	if err != nil {
		fail(run, idx, err)
		return nil
	}

	var out []domain.JobRecord
	for _, loc := range locations {
		for _, q := range queries {
			if ctx.Err() != nil {
				return out
			}

			res, err := adapter.Scrape(ctx, types.ScrapeRequest{Query: q, Location: loc, Pages: pages})
			jobs := o.opts.Normalizer.All(res.Records)
			out = append(out, jobs...)

			run.updateSource(idx, func(s *domain.SourceStats) {
				s.PagesAttempted += res.PagesAttempted
				s.PagesSucceeded += res.PagesSucceeded
				s.PageParseErrors += res.PageParseErrors
				s.JobsFound += len(jobs)
				s.CardsSkipped += res.Skipped[types.SkipNoTitle] + res.Skipped[types.SkipParse]
				s.CardsFiltered += res.Skipped[types.SkipRoleFilter] + len(res.Records) - len(jobs)
			})

			if err == nil {
				continue
			}
			if ctx.Err() != nil && types.IsCancellation(err) {
				return out
			}
			fail(run, idx, err)
			log.Warn().Str("run", run.ID()).Str("source", name).Str("location", loc).Str("query", q).
				Str("kind", types.KindOf(err).String()).Err(err).Msg("source attempt failed")
			if k := types.KindOf(err); k.Terminal() || k == types.KindConfiguration {
				return out
			}
		}
	}
	return out
}

func fail(run *Run, idx int, err error) {
	run.updateSource(idx, func(s *domain.SourceStats) {
		s.TerminalError = err.Error()
		s.ErrorKind = types.KindOf(err).String()
	})
}

func uniq(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
