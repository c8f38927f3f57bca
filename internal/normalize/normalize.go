package normalize

import (
	"strings"
	"time"

	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/rank"
	"jobhub-engine/internal/scrape/types"
	"jobhub-engine/internal/scrape/util"
)

// Clean is the text cleanup applied to every extracted field.
func Clean(s string) string { return util.CleanText(s) }

// Normalizer turns raw cards into canonical records. It is pure apart from
// the clock and safe for concurrent use.
type Normalizer struct {
	Filter types.RoleMatcher
	Scorer rank.Scorer
	Now    func() time.Time
}

func New(filter types.RoleMatcher, scorer rank.Scorer) *Normalizer {
	return &Normalizer{Filter: filter, Scorer: scorer, Now: time.Now}
}

// Normalize cleans raw and fills derived fields. ok is false when the record
// has no title or source, or the title is not a target role.
func (n *Normalizer) Normalize(raw domain.RawJobRecord) (domain.JobRecord, bool) {
	title := Clean(raw.Title)
	source := strings.ToLower(Clean(raw.Source))
	if title == "" || source == "" {
		return domain.JobRecord{}, false
	}
	if n.Filter != nil && !n.Filter.IsRoleMatch(title) {
		return domain.JobRecord{}, false
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	company := Clean(raw.Company)
	location := util.NormalizeLocation(raw.Location)

	job := domain.JobRecord{
		Fingerprint:     Fingerprint(title, company, location),
		Title:           title,
		Company:         company,
		Location:        location,
		URL:             util.CanonicalizeURL(raw.URL),
		Source:          source,
		PostedDate:      ParsePostedDate(raw.Field(domain.RawPosted), now),
		Salary:          ParseSalary(raw.Field(domain.RawSalary)),
		ExperienceLevel: DetectLevel(title),
		Experience:      ParseExperience(raw.Field(domain.RawExperience)),
		WorkMode:        util.InferWorkModeFromText(location, title, raw.Field(domain.RawSkills)),
		ScrapedAt:       now.UTC(),
	}
	if n.Scorer != nil {
		text := strings.Join([]string{raw.Field(domain.RawSkills), raw.Field(domain.RawExperience)}, " ")
		job.Score, job.Tags = n.Scorer.Score(job, Clean(text))
	}
	return job, true
}

// All normalizes records in order, dropping the rejected ones.
func (n *Normalizer) All(raws []domain.RawJobRecord) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(raws))
	for _, r := range raws {
		if job, ok := n.Normalize(r); ok {
			out = append(out, job)
		}
	}
	return out
}
