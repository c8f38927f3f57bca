package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobhub-engine/internal/domain"
)

func rec(fp, source string) domain.JobRecord {
	return domain.JobRecord{Fingerprint: fp, Source: source, Title: "Product Manager"}
}

func TestMergeFirstSeenWins(t *testing.T) {
	in := []domain.JobRecord{
		rec("a", "linkedin"),
		rec("b", "linkedin"),
		rec("a", "naukri"),
		rec("c", "naukri"),
		rec("b", "indeed"),
	}
	out := Merge(in)
	assert.Equal(t, []domain.JobRecord{rec("a", "linkedin"), rec("b", "linkedin"), rec("c", "naukri")}, out)
}

func TestMergeIdempotent(t *testing.T) {
	in := []domain.JobRecord{rec("x", "a"), rec("x", "b"), rec("y", "a")}
	once := Merge(in)
	assert.Equal(t, once, Merge(once))
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge(nil))
	assert.NotNil(t, Merge(nil))
}

func TestSet(t *testing.T) {
	s := NewSet(0)
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"))
	assert.True(t, s.Add("b"))
	assert.Equal(t, 2, s.Len())
}
