package domain

import "time"

// RawJobRecord is one listing card as extracted from a source page, before
// cleanup. RawFields carries optional site-specific extras keyed by
// RawPosted, RawSalary, RawExperience and RawSkills.
type RawJobRecord struct {
	Title     string            `json:"title"`
	Company   string            `json:"company"`
	Location  string            `json:"location"`
	URL       string            `json:"url"`
	Source    string            `json:"source"`
	RawFields map[string]string `json:"raw_fields,omitempty"`
}

const (
	RawPosted     = "posted"
	RawSalary     = "salary"
	RawExperience = "experience"
	RawSkills     = "skills"
)

// Field returns a raw extra or "".
func (r RawJobRecord) Field(key string) string {
	if r.RawFields == nil {
		return ""
	}
	return r.RawFields[key]
}

type Salary struct {
	Raw     string  `json:"raw"`
	Display string  `json:"display"`
	MinLPA  float64 `json:"min_lpa,omitempty"`
	MaxLPA  float64 `json:"max_lpa,omitempty"`
}

type ExperienceRange struct {
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Display string `json:"display"`
}

// JobRecord is the canonical, cleaned listing. Fingerprint is the identity
// used for deduplication and storage.
type JobRecord struct {
	Fingerprint     string           `json:"fingerprint"`
	Title           string           `json:"title"`
	Company         string           `json:"company"`
	Location        string           `json:"location"`
	URL             string           `json:"url"`
	Source          string           `json:"source"`
	PostedDate      *time.Time       `json:"posted_date,omitempty"`
	Salary          *Salary          `json:"salary,omitempty"`
	ExperienceLevel string           `json:"experience_level,omitempty"`
	Experience      *ExperienceRange `json:"experience,omitempty"`
	WorkMode        string           `json:"work_mode"`
	Score           int              `json:"score"`
	Tags            []string         `json:"tags,omitempty"`
	ScrapedAt       time.Time        `json:"scraped_at"`
}

// StoredID is the persistence collaborator's answer for one record. New is
// false when the fingerprint was already stored by an earlier run.
type StoredID struct {
	ID          int64  `json:"id"`
	Fingerprint string `json:"fingerprint"`
	New         bool   `json:"new"`
}
