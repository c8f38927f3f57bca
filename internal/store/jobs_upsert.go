package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobhub-engine/internal/domain"
)

// StoreJobs writes jobs in one transaction. It is idempotent by
// fingerprint: a known fingerprint keeps its row and id and only has
// last_seen_at and last_run_id refreshed.
func (d *DB) StoreJobs(ctx context.Context, runID string, jobs []domain.JobRecord) ([]domain.StoredID, error) {
	out := make([]domain.StoredID, 0, len(jobs))
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		for _, j := range jobs {
			id, added, err := upsertJob(ctx, tx, runID, j)
			if err != nil {
				return fmt.Errorf("store job %s: %w", j.Fingerprint, err)
			}
			out = append(out, domain.StoredID{ID: id, Fingerprint: j.Fingerprint, New: added})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func upsertJob(ctx context.Context, tx *sql.Tx, runID string, j domain.JobRecord) (id int64, added bool, err error) {
	seen := formatTime(j.ScrapedAt)

	err = tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE fingerprint = ? LIMIT 1;`, j.Fingerprint).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx, `UPDATE jobs SET last_seen_at = ?, last_run_id = ? WHERE id = ?;`, seen, runID, id)
		return id, false, err
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, err
	}

	var posted string
	if j.PostedDate != nil {
		posted = j.PostedDate.UTC().Format("2006-01-02")
	}
	var salaryMin float64
	salary := ""
	if j.Salary != nil {
		b, _ := json.Marshal(j.Salary)
		salary, salaryMin = string(b), j.Salary.MinLPA
	}
	experience := ""
	if j.Experience != nil {
		b, _ := json.Marshal(j.Experience)
		experience = string(b)
	}
	tags := j.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsB, _ := json.Marshal(tags)

	// INSERT OR IGNORE keeps a concurrent writer's row if one slipped in
	res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (fingerprint, title, company, location, url, source, posted_date, salary, salary_min,
  experience_level, experience, work_mode, score, tags, first_run_id, last_run_id, scraped_at, last_seen_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		j.Fingerprint, j.Title, j.Company, j.Location, j.URL, j.Source, posted, salary, salaryMin,
		j.ExperienceLevel, experience, j.WorkMode, j.Score, string(tagsB), runID, runID, seen, seen,
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE fingerprint = ? LIMIT 1;`, j.Fingerprint).Scan(&id)
		return id, false, err
	}
	id, err = res.LastInsertId()
	return id, true, err
}
