package domain

import "time"

type RunStatus string

const (
	RunPending             RunStatus = "pending"
	RunRunning             RunStatus = "running"
	RunCompleted           RunStatus = "completed"
	RunCompletedWithErrors RunStatus = "completed_with_errors"
	RunCancelled           RunStatus = "cancelled"
)

// Terminal reports whether no further transitions can happen.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCompleted, RunCompletedWithErrors, RunCancelled:
		return true
	}
	return false
}

// Submission is a scrape request as accepted from the CLI or HTTP API.
type Submission struct {
	Locations []string `json:"locations" validate:"required,min=1,dive,required"`
	Sources   []string `json:"sources" validate:"omitempty,dive,required"`
	Pages     int      `json:"pages" validate:"gte=0,lte=50"`
	Queries   []string `json:"queries,omitempty" validate:"omitempty,dive,required"`
}

// SourceStats is the per-source outcome of a run. A source has failed when
// TerminalError is set.
type SourceStats struct {
	Source          string `json:"source"`
	PagesAttempted  int    `json:"pages_attempted"`
	PagesSucceeded  int    `json:"pages_succeeded"`
	JobsFound       int    `json:"jobs_found"`
	CardsSkipped    int    `json:"cards_skipped"`
	CardsFiltered   int    `json:"cards_filtered"`
	PageParseErrors int    `json:"page_parse_errors"`
	TerminalError   string `json:"terminal_error,omitempty"`
	ErrorKind       string `json:"error_kind,omitempty"`
	Done            bool   `json:"done"`
}

func (s SourceStats) Failed() bool { return s.TerminalError != "" }

type ScrapeRun struct {
	RunID              string        `json:"run_id"`
	RequestedSources   []string      `json:"requested_sources"`
	RequestedLocations []string      `json:"requested_locations"`
	Queries            []string      `json:"queries"`
	PageBudget         int           `json:"page_budget"`
	Status             RunStatus     `json:"status"`
	SourceStats        []SourceStats `json:"source_stats"`
	JobRecords         []JobRecord   `json:"job_records,omitempty"`
	ConfigErrors       []string      `json:"config_errors,omitempty"`
	Error              string        `json:"error,omitempty"`
	Duplicates         int           `json:"duplicates"`
	Stored             int           `json:"stored"`
	StoredNew          int           `json:"stored_new"`
	StartedAt          time.Time     `json:"started_at"`
	EndedAt            time.Time     `json:"ended_at,omitzero"`
}

// Result is the final output handed back to a caller of a run.
type Result struct {
	RunID        string        `json:"run_id"`
	Status       RunStatus     `json:"status"`
	JobRecords   []JobRecord   `json:"job_records"`
	SourceStats  []SourceStats `json:"source_stats"`
	ConfigErrors []string      `json:"config_errors,omitempty"`
	Error        string        `json:"error,omitempty"`
}

func (r ScrapeRun) Result() Result {
	return Result{
		RunID:        r.RunID,
		Status:       r.Status,
		JobRecords:   r.JobRecords,
		SourceStats:  r.SourceStats,
		ConfigErrors: r.ConfigErrors,
		Error:        r.Error,
	}
}
