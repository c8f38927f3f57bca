package store

import (
	"database/sql"
	"fmt"
)

// Migrate brings the schema up to date. The version lives in
// PRAGMA user_version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v < 1 {
		for _, stmt := range schemaV1 {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("schema v1: %w", err)
			}
		}
	}
	if v < 2 {
		if !columnExists(tx, "jobs", "last_run_id") {
			if _, err := tx.Exec(`ALTER TABLE jobs ADD COLUMN last_run_id TEXT NOT NULL DEFAULT '';`); err != nil {
				return fmt.Errorf("schema v2: %w", err)
			}
		}
		if _, err := tx.Exec(`PRAGMA user_version = 2;`); err != nil {
			return err
		}
	}

	return tx.Commit()
}

var schemaV1 = []string{`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  fingerprint TEXT NOT NULL,
  title TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL,
  posted_date TEXT NOT NULL DEFAULT '',
  salary TEXT NOT NULL DEFAULT '',
  salary_min REAL NOT NULL DEFAULT 0,
  experience_level TEXT NOT NULL DEFAULT '',
  experience TEXT NOT NULL DEFAULT '',
  work_mode TEXT NOT NULL DEFAULT '',
  score INTEGER NOT NULL DEFAULT 0,
  tags TEXT NOT NULL DEFAULT '[]',
  first_run_id TEXT NOT NULL DEFAULT '',
  scraped_at TEXT NOT NULL,
  last_seen_at TEXT NOT NULL
);`, `
CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_fingerprint ON jobs(fingerprint);`, `
CREATE INDEX IF NOT EXISTS idx_jobs_scraped_at ON jobs(scraped_at);`, `
CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs(source);`, `
CREATE TABLE IF NOT EXISTS scrape_runs (
  run_id TEXT PRIMARY KEY,
  status TEXT NOT NULL,
  sources TEXT NOT NULL DEFAULT '[]',
  locations TEXT NOT NULL DEFAULT '[]',
  queries TEXT NOT NULL DEFAULT '[]',
  pages INTEGER NOT NULL DEFAULT 0,
  jobs INTEGER NOT NULL DEFAULT 0,
  duplicates INTEGER NOT NULL DEFAULT 0,
  stored INTEGER NOT NULL DEFAULT 0,
  stored_new INTEGER NOT NULL DEFAULT 0,
  stats TEXT NOT NULL DEFAULT '[]',
  config_errors TEXT NOT NULL DEFAULT '[]',
  error TEXT NOT NULL DEFAULT '',
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL DEFAULT ''
);`, `
CREATE INDEX IF NOT EXISTS idx_scrape_runs_started ON scrape_runs(started_at);`, `
PRAGMA user_version = 1;`,
}

func columnExists(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, table, col string) bool {
	query := fmt.Sprintf(`
SELECT 1
FROM pragma_table_info('%s')
WHERE name = ?
LIMIT 1;
`, table)

	var one int
	err := q.QueryRow(query, col).Scan(&one)
	return err == nil
}
