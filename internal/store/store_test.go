package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhub-engine/internal/domain"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func job(fp, title string, score int, at time.Time) domain.JobRecord {
	posted := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return domain.JobRecord{
		Fingerprint: fp,
		Title:       title,
		Company:     "Acme",
		Location:    "Pune",
		URL:         "https://acme.test/" + fp,
		Source:      "naukri",
		PostedDate:  &posted,
		Salary:      &domain.Salary{Raw: "20-30 LPA", Display: "20-30 LPA", MinLPA: 20, MaxLPA: 30},
		WorkMode:    "Hybrid",
		Score:       score,
		Tags:        []string{"senior"},
		ScrapedAt:   at,
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := openTest(t)
	require.NoError(t, Migrate(db.Pool))
	require.NoError(t, Migrate(db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, 2, v)
	assert.True(t, columnExists(db.Pool, "jobs", "last_run_id"))
}

func TestStoreJobsIsIdempotentByFingerprint(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := db.StoreJobs(ctx, "run-1", []domain.JobRecord{job("a", "Product Manager", 70, now), job("b", "Product Owner", 60, now)})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].New)
	assert.True(t, first[1].New)

	second, err := db.StoreJobs(ctx, "run-2", []domain.JobRecord{job("b", "Product Owner", 60, now), job("c", "Head of Product", 90, now)})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.False(t, second[0].New)
	assert.Equal(t, first[1].ID, second[0].ID)
	assert.True(t, second[1].New)

	n, err := db.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestListJobs(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	now := time.Now().UTC()
	old := now.Add(-10 * 24 * time.Hour)

	_, err := db.StoreJobs(ctx, "run-1", []domain.JobRecord{
		job("a", "Product Manager", 70, now),
		job("b", "Associate Product Manager", 90, now),
		job("c", "Product Owner", 50, old),
	})
	require.NoError(t, err)

	jobs, err := db.ListJobs(ctx, ListJobsOpts{})
	require.NoError(t, err)
	require.Len(t, jobs, 2, "default window is 7 days")
	assert.Equal(t, "b", jobs[0].Fingerprint)
	assert.Equal(t, "a", jobs[1].Fingerprint)

	got := jobs[0]
	require.NotNil(t, got.Salary)
	assert.Equal(t, 20.0, got.Salary.MinLPA)
	require.NotNil(t, got.PostedDate)
	assert.Equal(t, "2024-06-01", got.PostedDate.Format("2006-01-02"))
	assert.Equal(t, []string{"senior"}, got.Tags)
	assert.Equal(t, "run-1", got.FirstRunID)
	assert.WithinDuration(t, now, got.ScrapedAt, time.Second)

	all, err := db.ListJobs(ctx, ListJobsOpts{Window: "all", Sort: "title"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Associate Product Manager", all[0].Title)

	high, err := db.ListJobs(ctx, ListJobsOpts{Window: "all", MinScore: 80})
	require.NoError(t, err)
	assert.Len(t, high, 1)

	none, err := db.ListJobs(ctx, ListJobsOpts{Window: "all", Source: "linkedin"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordAndListRuns(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	start := time.Now().UTC().Truncate(time.Second)

	run := domain.ScrapeRun{
		RunID:              "run-1",
		RequestedSources:   []string{"naukri", "indeed"},
		RequestedLocations: []string{"Pune"},
		Queries:            []string{"product manager"},
		PageBudget:         2,
		Status:             domain.RunRunning,
		SourceStats:        []domain.SourceStats{{Source: "naukri", JobsFound: 3}, {Source: "indeed", TerminalError: "blocked", ErrorKind: "blocked"}},
		StartedAt:          start,
	}
	require.NoError(t, db.RecordRun(ctx, run))

	run.Status = domain.RunCompletedWithErrors
	run.StoredNew = 3
	run.EndedAt = start.Add(time.Minute)
	require.NoError(t, db.RecordRun(ctx, run))

	got, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompletedWithErrors, got.Status)
	assert.Equal(t, []string{"naukri", "indeed"}, got.RequestedSources)
	assert.Equal(t, 3, got.StoredNew)
	require.Len(t, got.SourceStats, 2)
	assert.True(t, got.SourceStats[1].Failed())
	assert.Equal(t, start, got.StartedAt)
	assert.Equal(t, start.Add(time.Minute), got.EndedAt)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = db.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrune(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := db.StoreJobs(ctx, "run-1", []domain.JobRecord{
		job("fresh", "Product Manager", 70, now),
		job("stale", "Product Owner", 60, now.Add(-40*24*time.Hour)),
	})
	require.NoError(t, err)

	deleted, err := db.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = db.Prune(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	n, _ := db.CountJobs(ctx)
	assert.Equal(t, 1, n)
}
