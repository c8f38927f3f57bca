package httpapi

import (
	"context"
	"sync/atomic"

	"jobhub-engine/internal/config"
	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/events"
	"jobhub-engine/internal/orchestrator"
	"jobhub-engine/internal/store"
)

// JobReader is the read side of the store used by the API.
type JobReader interface {
	ListJobs(ctx context.Context, opts store.ListJobsOpts) ([]store.Job, error)
	CountJobs(ctx context.Context) (int, error)
	GetRun(ctx context.Context, runID string) (domain.ScrapeRun, error)
	ListRuns(ctx context.Context, limit int) ([]domain.ScrapeRun, error)
}

type Deps struct {
	Orch *orchestrator.Orchestrator
	// Store may be nil when the engine runs without persistence.
	Store JobReader
	Hub   *events.Hub

	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath  string
	LoadCfg      func() (config.Config, error)
	KnownSources []string
	// OnConfig is called after a new config is saved and loaded.
	OnConfig func(config.Config)
}
