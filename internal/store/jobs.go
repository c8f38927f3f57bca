package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobhub-engine/internal/domain"
)

// Job is a stored listing.
type Job struct {
	ID int64 `json:"id"`
	domain.JobRecord
	FirstRunID string    `json:"first_run_id"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

type ListJobsOpts struct {
	Sort     string // score | date | company | title
	Window   string // 24h | 7d | 30d | all
	Source   string
	MinScore int
	Limit    int
}

func (d *DB) ListJobs(ctx context.Context, opts ListJobsOpts) ([]Job, error) {
	if opts.Limit <= 0 || opts.Limit > 2000 {
		opts.Limit = 500
	}

	// whitelist sort columns (prevents SQL injection)
	order := map[string]string{
		"score":   "score DESC, scraped_at DESC",
		"date":    "scraped_at DESC, id DESC",
		"company": "company COLLATE NOCASE ASC, title ASC",
		"title":   "title COLLATE NOCASE ASC, company ASC",
	}[opts.Sort]
	if order == "" {
		order = "score DESC, scraped_at DESC"
	}

	var (
		where []string
		args  []any
	)
	switch opts.Window {
	case "24h":
		where = append(where, "last_seen_at >= datetime('now','-24 hours')")
	case "30d":
		where = append(where, "last_seen_at >= datetime('now','-30 days')")
	case "all":
	default:
		where = append(where, "last_seen_at >= datetime('now','-7 days')")
	}
	if opts.Source != "" {
		where = append(where, "source = ?")
		args = append(args, strings.ToLower(opts.Source))
	}
	if opts.MinScore > 0 {
		where = append(where, "score >= ?")
		args = append(args, opts.MinScore)
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`
SELECT id, fingerprint, title, company, location, url, source, posted_date, salary,
  experience_level, experience, work_mode, score, tags, first_run_id, scraped_at, last_seen_at
FROM jobs
%s
ORDER BY %s
LIMIT ?;
`, clause, order)
	args = append(args, opts.Limit)

	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var (
			j                         Job
			posted, salary, exp, tags string
			scraped, lastSeen         string
		)
		if err := rows.Scan(
			&j.ID, &j.Fingerprint, &j.Title, &j.Company, &j.Location, &j.URL, &j.Source,
			&posted, &salary, &j.ExperienceLevel, &exp, &j.WorkMode, &j.Score, &tags,
			&j.FirstRunID, &scraped, &lastSeen,
		); err != nil {
			return nil, err
		}
		if posted != "" {
			if t, err := time.Parse("2006-01-02", posted); err == nil {
				j.PostedDate = &t
			}
		}
		if salary != "" {
			j.Salary = &domain.Salary{}
			_ = json.Unmarshal([]byte(salary), j.Salary)
		}
		if exp != "" {
			j.Experience = &domain.ExperienceRange{}
			_ = json.Unmarshal([]byte(exp), j.Experience)
		}
		_ = json.Unmarshal([]byte(tags), &j.Tags)
		j.ScrapedAt = parseTime(scraped)
		j.LastSeenAt = parseTime(lastSeen)
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountJobs returns the number of stored listings.
func (d *DB) CountJobs(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	return n, err
}

// Prune deletes listings not seen and runs not started within the last
// days. days <= 0 keeps everything.
func (d *DB) Prune(ctx context.Context, days int) (deleted int64, err error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := fmt.Sprintf("-%d days", days)
	err = d.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE last_seen_at < datetime('now', ?);`, cutoff)
		if err != nil {
			return fmt.Errorf("prune jobs: %w", err)
		}
		deleted, _ = res.RowsAffected()
		if _, err := tx.ExecContext(ctx, `DELETE FROM scrape_runs WHERE started_at < datetime('now', ?);`, cutoff); err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
