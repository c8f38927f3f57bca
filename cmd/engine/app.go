package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/phuslu/log"

	"jobhub-engine/internal/config"
	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/events"
	"jobhub-engine/internal/normalize"
	"jobhub-engine/internal/orchestrator"
	"jobhub-engine/internal/rank"
	"jobhub-engine/internal/scrape/fetch"
	"jobhub-engine/internal/scrape/sources"
	"jobhub-engine/internal/scrape/types"
	"jobhub-engine/internal/scrape/util"
	"jobhub-engine/internal/store"
)

// app holds what every subcommand shares once bootstrapped.
type app struct {
	dataDir string
	cfgPath string
	cfg     config.Config
	db      *store.DB
	lock    *flock.Flock
}

// bootstrap resolves the data dir, loads the user config and opens the
// store. With exclusive set it also takes the data-dir lock, so two engines
// never write the same database.
func bootstrap(exclusive bool) (*app, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Engine data dir: env if provided (the desktop shell passes one), else local folder.
	dataDir := os.Getenv("JOBHUB_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	cfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		return nil, fmt.Errorf("config bootstrap failed: %w", err)
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg)

	a := &app{dataDir: dataDir, cfgPath: cfgPath, cfg: cfg}

	if exclusive {
		a.lock = flock.New(filepath.Join(dataDir, "engine.lock"))
		ok, err := a.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("lock data dir: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("another engine is using %s", dataDir)
		}
	}

	dbPath := cfg.Store.Path
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "jobhub.db")
	}
	a.db, err = store.Open(dbPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open store %s: %w", dbPath, err)
	}
	log.Info().Str("config", cfgPath).Str("db", dbPath).Msg("engine bootstrapped")
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.lock != nil {
		_ = a.lock.Unlock()
	}
}

// loadConfig reads path, overlays the environment and validates the result.
// Warnings are logged; errors fail the load.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("config env: %w", err)
	}
	cfg, v := config.NormalizeAndValidate(cfg, sources.Names())
	for _, w := range v.Warnings {
		log.Warn().Str("config", path).Msg(w)
	}
	if !v.OK() {
		return cfg, fmt.Errorf("invalid config %s: %s", path, strings.Join(v.Errors, "; "))
	}
	return cfg, nil
}

func setupLogger(cfg config.Config) {
	level := log.ParseLevel(cfg.Log.Level)
	if cfg.Log.JSON {
		log.DefaultLogger = log.Logger{
			Level:  level,
			Writer: &log.IOWriter{Writer: os.Stderr},
		}
		return
	}
	log.DefaultLogger = log.Logger{
		Level:      level,
		TimeFormat: "15:04:05",
		Writer:     &log.ConsoleWriter{Writer: os.Stderr, ColorOutput: true},
	}
}

func fetchOptions(fc config.FetchConfig) fetch.Options {
	return fetch.Options{
		MinDelay:       fc.MinDelay,
		MaxDelay:       fc.MaxDelay,
		LongPauseEvery: fc.LongPauseEvery,
		LongPauseMin:   fc.LongPauseMin,
		LongPauseMax:   fc.LongPauseMax,
		MaxRetries:     fc.MaxRetries,
		BackoffBase:    fc.BackoffBase,
		BackoffMax:     fc.BackoffMax,
		Timeout:        fc.Timeout,
		MaxBodyBytes:   fc.MaxBodyBytes,
		BlockMarkers:   fc.BlockMarkers,
	}
}

// newOrchestrator wires the source registry, the normalizer and the store
// from cfg. Every built adapter gets its own fetch client; the host limiter
// is shared.
func (a *app) newOrchestrator(sink events.Sink) *orchestrator.Orchestrator {
	cfg := a.cfg
	filter := normalize.NewRoleFilter(cfg.Filters.RoleAllow, cfg.Filters.RoleExclude)
	limiter := util.NewHostLimiter(cfg.Fetch.HostRPS, 1)

	newFetcher := func(source string) types.Fetcher {
		opts := []fetch.Option{fetch.WithLimiter(limiter)}
		if cfg.Fetch.TLSFingerprint == "chrome" {
			opts = append(opts, fetch.WithHTTPClient(fetch.NewChromeHTTPClient()))
		}
		log.Debug().Str("source", source).Str("tls", cfg.Fetch.TLSFingerprint).Msg("fetch client built")
		return fetch.New(fetchOptions(cfg.Fetch), opts...)
	}

	reg := sources.NewRegistry(cfg.EnabledSources(sources.Names()), newFetcher, filter)
	return orchestrator.New(orchestrator.Options{
		Catalog:      reg,
		Normalizer:   normalize.New(filter, &rank.YAMLScorer{Cfg: cfg}),
		Store:        a.db,
		Sink:         sink,
		PoolSize:     cfg.Run.PoolSize,
		RunTimeout:   cfg.Run.Timeout,
		Queries:      cfg.Run.Queries,
		StoreTimeout: 30 * time.Second,
	})
}

// submission builds a run request from flags, falling back to the config.
func (a *app) submission(locations, srcs, queries string, pages int) domain.Submission {
	sub := domain.Submission{
		Locations: splitList(locations),
		Sources:   splitList(srcs),
		Queries:   splitList(queries),
		Pages:     pages,
	}
	def := configSubmission(a.cfg)
	if len(sub.Locations) == 0 {
		sub.Locations = def.Locations
	}
	if sub.Pages < 0 {
		sub.Pages = def.Pages
	}
	return sub
}

// configSubmission is the run the config describes, used by scheduled scrapes.
func configSubmission(cfg config.Config) domain.Submission {
	return domain.Submission{
		Locations: append([]string(nil), cfg.Run.Locations...),
		Queries:   append([]string(nil), cfg.Run.Queries...),
		Pages:     cfg.Run.Pages,
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
