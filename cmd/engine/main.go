package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/phuslu/log"

	"jobhub-engine/internal/config"
	"jobhub-engine/internal/events"
	"jobhub-engine/internal/httpapi"
	"jobhub-engine/internal/orchestrator"
	"jobhub-engine/internal/scheduler"
	"jobhub-engine/internal/scrape/sources"
)

const usage = `usage: engine <command> [flags]

commands:
  serve   run the HTTP API and the scheduled scrapes (default)
  run     scrape once and print the result
  jobs    list stored jobs
`

func main() {
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serveCmd(args)
	case "run":
		err = runCmd(args)
	case "jobs":
		err = jobsCmd(args)
	case "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case err != nil:
		log.Error().Err(err).Str("command", cmd).Msg("engine failed")
		os.Exit(1)
	}
}

func serveCmd(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.Int("port", 0, "listen port on 127.0.0.1 (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(a.cfg)

	hub := events.NewHub()
	orch := a.newOrchestrator(events.Multi(events.LogSink{}, hub))

	cron := scheduler.NewCron()
	schedule := func(cfg config.Config) {
		if cfg.Schedule.Cron == "" {
			cron.Remove("scrape")
			return
		}
		err := cron.Add("scrape", cfg.Schedule.Cron, func(ctx context.Context) error {
			cur := cfgVal.Load().(config.Config)
			_, err := orch.Execute(ctx, configSubmission(cur))
			if errors.Is(err, orchestrator.ErrRunInProgress) {
				log.Info().Msg("scheduled scrape skipped: run in progress")
				return nil
			}
			return err
		})
		if err != nil {
			log.Error().Err(err).Msg("scrape schedule rejected")
			return
		}
		log.Info().Str("cron", cfg.Schedule.Cron).Time("next", cron.Next("scrape")).Msg("scrape scheduled")
	}
	schedule(a.cfg)

	go cron.Run(ctx)
	go scheduler.Every(ctx, 24*time.Hour, "prune", func(ctx context.Context) error {
		days := cfgVal.Load().(config.Config).Store.RetentionDays
		if days <= 0 {
			return nil
		}
		n, err := a.db.Prune(ctx, days)
		if err == nil && n > 0 {
			log.Info().Int64("deleted", n).Int("days", days).Msg("pruned old jobs")
		}
		return err
	})

	api := httpapi.Handler(httpapi.Deps{
		Orch:        orch,
		Store:       a.db,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: a.cfgPath,
		LoadCfg: func() (config.Config, error) {
			return loadConfig(a.cfgPath)
		},
		KnownSources: sources.Names(),
		OnConfig: func(cfg config.Config) {
			schedule(cfg)
			log.Info().Msg("config reloaded; source and fetch changes apply on restart")
		},
	})

	if *port == 0 {
		*port = a.cfg.App.Port
	}
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(*port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	token := os.Getenv("JOBHUB_SHUTDOWN_TOKEN")
	if token == "" {
		if token, err = randomToken(16); err != nil {
			return err
		}
		log.Debug().Str("token", token).Msg("shutdown token generated")
	}

	mux := http.NewServeMux()
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux.Handle("/", api)
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", "http://"+addr).Msg("engine listening")
	err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	if r := orch.Active(); r != nil {
		r.Cancel()
		<-r.Done()
	}
	return err
}
