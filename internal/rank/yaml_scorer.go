package rank

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"jobhub-engine/internal/config"
	"jobhub-engine/internal/domain"
)

// YAMLScorer applies the configured title and keyword rules, then the
// freshness and salary bonuses. Scores are clamped to 0..100.
type YAMLScorer struct {
	Cfg config.Config
	Now func() time.Time

	once sync.Once
	res  map[string]*regexp.Regexp
}

func (s *YAMLScorer) Score(job domain.JobRecord, text string) (int, []string) {
	s.once.Do(s.compile)

	title := strings.ToLower(job.Title)
	blob := strings.ToLower(job.Title + " " + text)

	score := s.Cfg.Scoring.Base
	var tags []string

	applyRules := func(rules []config.Rule, in string) {
		for _, r := range rules {
			for _, needle := range r.Any {
				if s.res[strings.ToLower(needle)].MatchString(in) {
					score += r.Weight
					tags = append(tags, r.Tag)
					break
				}
			}
		}
	}

	applyRules(s.Cfg.Scoring.TitleRules, title)
	applyRules(s.Cfg.Scoring.KeywordRules, blob)

	for _, p := range s.Cfg.Scoring.Penalties {
		for _, needle := range p.Any {
			if s.res[strings.ToLower(needle)].MatchString(blob) {
				score += p.Weight
				break
			}
		}
	}

	if job.Salary != nil && job.Salary.MaxLPA > 0 {
		score += 10
	}
	score += s.freshness(job.PostedDate)

	return Clamp(score), uniq(tags)
}

func (s *YAMLScorer) freshness(posted *time.Time) int {
	if posted == nil {
		return 0
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	days := int(now().Sub(*posted).Hours() / 24)
	switch {
	case days <= 3:
		return 15
	case days <= 7:
		return 10
	case days <= 14:
		return 5
	}
	return 0
}

// compile builds word-boundary matchers so "ml" does not hit "html".
func (s *YAMLScorer) compile() {
	s.res = map[string]*regexp.Regexp{}
	add := func(terms []string) {
		for _, t := range terms {
			k := strings.ToLower(t)
			if _, ok := s.res[k]; ok {
				continue
			}
			s.res[k] = regexp.MustCompile(`(^|[^a-z0-9])` + regexp.QuoteMeta(k) + `($|[^a-z0-9])`)
		}
	}
	for _, r := range s.Cfg.Scoring.TitleRules {
		add(r.Any)
	}
	for _, r := range s.Cfg.Scoring.KeywordRules {
		add(r.Any)
	}
	for _, p := range s.Cfg.Scoring.Penalties {
		add(p.Any)
	}
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
