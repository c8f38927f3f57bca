package rank

import "jobhub-engine/internal/domain"

// Scorer rates a normalized record. text is the searchable blob for the
// listing (title plus whatever the card exposed, such as skills).
type Scorer interface {
	Score(job domain.JobRecord, text string) (score int, tags []string)
}

// Func adapts a plain function to Scorer.
type Func func(job domain.JobRecord, text string) (int, []string)

func (f Func) Score(job domain.JobRecord, text string) (int, []string) {
	score, tags := f(job, text)
	return Clamp(score), tags
}

// Clamp bounds a score to 0..100.
func Clamp(n int) int {
	return min(max(n, 0), 100)
}
