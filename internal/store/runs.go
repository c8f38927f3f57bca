package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobhub-engine/internal/domain"
)

var ErrNotFound = errors.New("not found")

// RecordRun saves the run summary. Records are not kept here; they live in
// the jobs table.
func (d *DB) RecordRun(ctx context.Context, run domain.ScrapeRun) error {
	js := func(v any) string {
		b, err := json.Marshal(v)
		if err != nil || string(b) == "null" {
			return "[]"
		}
		return string(b)
	}
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO scrape_runs (run_id, status, sources, locations, queries, pages, jobs, duplicates, stored, stored_new,
  stats, config_errors, error, started_at, ended_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id) DO UPDATE SET
  status = excluded.status, jobs = excluded.jobs, duplicates = excluded.duplicates,
  stored = excluded.stored, stored_new = excluded.stored_new, stats = excluded.stats,
  config_errors = excluded.config_errors, error = excluded.error, ended_at = excluded.ended_at;`,
		run.RunID, string(run.Status), js(run.RequestedSources), js(run.RequestedLocations), js(run.Queries),
		run.PageBudget, len(run.JobRecords), run.Duplicates, run.Stored, run.StoredNew,
		js(run.SourceStats), js(run.ConfigErrors), run.Error, formatTime(run.StartedAt), formatTime(run.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

const runColumns = `run_id, status, sources, locations, queries, pages, duplicates, stored, stored_new,
  stats, config_errors, error, started_at, ended_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (domain.ScrapeRun, error) {
	var (
		r                              domain.ScrapeRun
		status                         string
		sources, locations, queries    string
		stats, cfgErrs, started, ended string
	)
	if err := s.Scan(&r.RunID, &status, &sources, &locations, &queries, &r.PageBudget, &r.Duplicates,
		&r.Stored, &r.StoredNew, &stats, &cfgErrs, &r.Error, &started, &ended); err != nil {
		return r, err
	}
	r.Status = domain.RunStatus(status)
	_ = json.Unmarshal([]byte(sources), &r.RequestedSources)
	_ = json.Unmarshal([]byte(locations), &r.RequestedLocations)
	_ = json.Unmarshal([]byte(queries), &r.Queries)
	_ = json.Unmarshal([]byte(stats), &r.SourceStats)
	_ = json.Unmarshal([]byte(cfgErrs), &r.ConfigErrors)
	r.StartedAt = parseTime(started)
	r.EndedAt = parseTime(ended)
	return r, nil
}

func (d *DB) GetRun(ctx context.Context, runID string) (domain.ScrapeRun, error) {
	row := d.Pool.QueryRowContext(ctx, `SELECT `+runColumns+` FROM scrape_runs WHERE run_id = ?;`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}

// ListRuns returns the most recent runs first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]domain.ScrapeRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.Pool.QueryContext(ctx, `SELECT `+runColumns+` FROM scrape_runs ORDER BY started_at DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScrapeRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
