package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanText folds compatibility forms (NFKC), drops invisible and
// decorative runes and collapses whitespace.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.In(r, unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs, unicode.So):
			return -1
		case !unicode.IsPrint(r):
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	for _, p := range []string{"Location:", "Locations:", "LOCATIONS:", "Job Location:"} {
		loc = strings.TrimPrefix(loc, p)
	}
	loc = strings.TrimSpace(loc)

	parts := strings.FieldsFunc(loc, func(r rune) bool { return r == ',' || r == '/' || r == '|' })
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

const (
	WorkRemote  = "Remote"
	WorkHybrid  = "Hybrid"
	WorkOnsite  = "Onsite"
	WorkUnknown = "Unknown"
)

func InferWorkModeFromText(location, title, desc string) string {
	blob := strings.ToLower(strings.Join([]string{location, title, desc}, " "))

	switch {
	case strings.Contains(blob, "remote") || strings.Contains(blob, "work from home") || strings.Contains(blob, "wfh"):
		return WorkRemote
	case strings.Contains(blob, "hybrid"):
		return WorkHybrid
	case strings.Contains(blob, "on-site") || strings.Contains(blob, "onsite") ||
		strings.Contains(blob, "on site") || strings.Contains(blob, "in office") ||
		strings.Contains(blob, "work from office"):
		return WorkOnsite
	default:
		return WorkUnknown
	}
}
