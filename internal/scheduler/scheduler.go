package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
)

type Task func(ctx context.Context) error

// Every runs task now and then on every tick until ctx ends.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		if err := task(ctx); err != nil {
			log.Error().Str("task", name).Err(err).Msg("scheduled task failed")
		}
	}

	// run immediately
	run()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}

// Cron runs named tasks on cron schedules. A task still running when its
// next slot comes up is skipped for that slot.
type Cron struct {
	c *cron.Cron

	mu      sync.Mutex
	ctx     context.Context
	entries map[string]cron.EntryID
}

func NewCron() *Cron {
	return &Cron{
		c:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:     context.Background(),
		entries: map[string]cron.EntryID{},
	}
}

// Add registers or replaces the task under name. spec is a standard
// five-field expression or a descriptor such as "@every 6h".
func (s *Cron) Add(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.c.AddFunc(spec, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()
		start := time.Now()
		log.Info().Str("task", name).Msg("scheduled task started")
		if err := task(ctx); err != nil {
			log.Error().Str("task", name).Err(err).Msg("scheduled task failed")
			return
		}
		log.Info().Str("task", name).Dur("took", time.Since(start)).Msg("scheduled task done")
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	if old, ok := s.entries[name]; ok {
		s.c.Remove(old)
	}
	s.entries[name] = id
	return nil
}

// Remove drops the task under name, if any.
func (s *Cron) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.c.Remove(id)
		delete(s.entries, name)
	}
}

// Next returns when the task under name fires next, or the zero time.
func (s *Cron) Next(name string) time.Time {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.c.Entry(id).Next
}

// Run starts the scheduler and blocks until ctx ends, then waits for
// running tasks to return.
func (s *Cron) Run(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.c.Start()
	<-ctx.Done()
	<-s.c.Stop().Done()
}
