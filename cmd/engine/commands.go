package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/events"
	"jobhub-engine/internal/store"
)

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	locations := fs.String("locations", "", "comma-separated locations (default from config)")
	srcs := fs.String("sources", "", "comma-separated sources, or all")
	queries := fs.String("queries", "", "comma-separated search queries")
	pages := fs.Int("pages", -1, "pages per query (default from config)")
	asJSON := fs.Bool("json", false, "print the result as JSON")
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

	orch := a.newOrchestrator(events.LogSink{})
	run, err := orch.Execute(ctx, a.submission(*locations, *srcs, *queries, *pages))
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run.Result())
	}

	printRun(run)
	return nil
}

func printRun(run domain.ScrapeRun) {
	stats := [][]string{{"SOURCE", "PAGES", "JOBS", "SKIPPED", "FILTERED", "ERROR"}}
	for _, s := range run.SourceStats {
		stats = append(stats, []string{
			s.Source,
			fmt.Sprintf("%d/%d", s.PagesSucceeded, s.PagesAttempted),
			strconv.Itoa(s.JobsFound),
			strconv.Itoa(s.CardsSkipped),
			strconv.Itoa(s.CardsFiltered),
			s.TerminalError,
		})
	}
	writeTable(os.Stdout, stats)
	fmt.Println()

	jobs := [][]string{{"SCORE", "TITLE", "COMPANY", "LOCATION", "SOURCE", "URL"}}
	for _, j := range run.JobRecords {
		jobs = append(jobs, []string{strconv.Itoa(j.Score), j.Title, j.Company, j.Location, j.Source, j.URL})
	}
	writeTable(os.Stdout, jobs)

	fmt.Printf("\nrun %s %s: %d jobs, %d duplicates, %d stored (%d new)\n",
		run.RunID, run.Status, len(run.JobRecords), run.Duplicates, run.Stored, run.StoredNew)
	for _, e := range run.ConfigErrors {
		fmt.Printf("  config: %s\n", e)
	}
	if run.Error != "" {
		fmt.Printf("  error: %s\n", run.Error)
	}
}

func jobsCmd(args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	var opts store.ListJobsOpts
	fs.StringVar(&opts.Sort, "sort", "score", "score | date | company | title")
	fs.StringVar(&opts.Window, "window", "7d", "24h | 7d | 30d | all")
	fs.StringVar(&opts.Source, "source", "", "only jobs from this source")
	fs.IntVar(&opts.MinScore, "min-score", 0, "minimum score")
	fs.IntVar(&opts.Limit, "limit", 50, "maximum rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.Close()

	jobs, err := a.db.ListJobs(context.Background(), opts)
	if err != nil {
		return err
	}

	rows := [][]string{{"ID", "SCORE", "TITLE", "COMPANY", "LOCATION", "MODE", "SEEN"}}
	for _, j := range jobs {
		rows = append(rows, []string{
			strconv.FormatInt(j.ID, 10),
			strconv.Itoa(j.Score),
			j.Title,
			j.Company,
			j.Location,
			j.WorkMode,
			j.LastSeenAt.Local().Format("2006-01-02 15:04"),
		})
	}
	writeTable(os.Stdout, rows)
	return nil
}
