package dedup

import "jobhub-engine/internal/domain"

// Set tracks fingerprints already seen. The zero value is not usable; use
// NewSet.
type Set struct {
	seen map[string]struct{}
}

func NewSet(capacity int) *Set {
	return &Set{seen: make(map[string]struct{}, capacity)}
}

// Add reports whether fp was new.
func (s *Set) Add(fp string) bool {
	if _, ok := s.seen[fp]; ok {
		return false
	}
	s.seen[fp] = struct{}{}
	return true
}

func (s *Set) Len() int { return len(s.seen) }

// Merge keeps the first record for each fingerprint and preserves the
// input order of the survivors. Merge(Merge(x)) == Merge(x).
func Merge(records []domain.JobRecord) []domain.JobRecord {
	set := NewSet(len(records))
	out := make([]domain.JobRecord, 0, len(records))
	for _, r := range records {
		if set.Add(r.Fingerprint) {
			out = append(out, r)
		}
	}
	return out
}
