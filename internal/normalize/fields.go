package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"jobhub-engine/internal/domain"
)

var (
	reRelative = regexp.MustCompile(`(\d+)\s*\+?\s*(minute|min|hour|hr|day|week|month|year)s?`)
	reArticle  = regexp.MustCompile(`\b(a|an|one)\s+(day|week|month|year)\b`)
	reNumber   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	reExpRange = regexp.MustCompile(`(\d+)\s*(?:-|–|to)\s*(\d+)`)
	reExpOne   = regexp.MustCompile(`(\d+)\s*(?:\+|year|yr)`)
)

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func back(now time.Time, n int, unit string) time.Time {
	switch unit {
	case "minute", "min", "hour", "hr":
		return now
	case "day":
		return now.AddDate(0, 0, -n)
	case "week":
		return now.AddDate(0, 0, -7*n)
	case "month":
		return now.AddDate(0, 0, -30*n)
	case "year":
		return now.AddDate(-n, 0, 0)
	}
	return now
}

// ParsePostedDate reads relative ("3 days ago", "30+ days ago",
// "yesterday") and absolute dates. It returns nil when nothing parses.
func ParsePostedDate(text string, now time.Time) *time.Time {
	clean := Clean(text)
	for _, p := range []string{"posted on", "posted"} {
		if strings.HasPrefix(strings.ToLower(clean), p) {
			clean = clean[len(p):]
			break
		}
	}
	clean = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(clean), ":"))
	low := strings.ToLower(clean)
	if low == "" {
		return nil
	}

	var t time.Time
	switch {
	case strings.Contains(low, "just now"), strings.Contains(low, "today"),
		strings.Contains(low, "moment"), strings.Contains(low, "second"),
		strings.Contains(low, "few hours"):
		t = now
	case strings.Contains(low, "yesterday"):
		t = now.AddDate(0, 0, -1)
	default:
		if m := reRelative.FindStringSubmatch(low); m != nil {
			n, _ := strconv.Atoi(m[1])
			t = back(now, n, m[2])
		} else if m := reArticle.FindStringSubmatch(low); m != nil {
			t = back(now, 1, m[2])
		} else if abs, err := dateparse.ParseIn(clean, now.Location()); err == nil {
			t = abs
		} else {
			return nil
		}
	}
	t = day(t)
	return &t
}

// ParseSalary converts Indian listing salary text into lakhs per annum.
// Monthly or absolute rupee figures are converted; crore and thousand
// suffixes are scaled.
func ParseSalary(text string) *domain.Salary {
	raw := Clean(text)
	low := strings.ToLower(strings.NewReplacer(",", "", " ", "").Replace(raw))
	if low == "" || strings.Contains(low, "notdisclosed") || strings.Contains(low, "competitive") {
		return nil
	}
	nums := reNumber.FindAllString(low, 2)
	if len(nums) == 0 {
		return nil
	}

	var vals []float64
	for _, n := range nums {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		vals = append(vals, v)
	}

	mult := 1.0
	switch {
	case strings.Contains(low, "cr"):
		mult = 100
	case strings.Contains(low, "lpa") || strings.Contains(low, "lac") || strings.Contains(low, "lakh") ||
		strings.Contains(low, "l/yr") || strings.Contains(low, "l/a") || strings.HasSuffix(low, "l"):
		mult = 1
	case strings.Contains(low, "k"):
		// thousands per month
		mult = 0.12
	}

	lo, hi := vals[0]*mult, vals[0]*mult
	if len(vals) > 1 {
		hi = vals[1] * mult
		if hi < lo {
			lo, hi = hi, lo
		}
	}

	if hi > 200 {
		perYear := strings.Contains(low, "year") || strings.Contains(low, "annum") || strings.Contains(low, "p.a") || strings.Contains(low, "/yr")
		factor := 12.0 / 100000
		if perYear {
			factor = 1.0 / 100000
		}
		lo, hi = lo*factor, hi*factor
	}

	s := &domain.Salary{Raw: raw, MinLPA: round1(lo), MaxLPA: round1(hi)}
	if s.MinLPA == s.MaxLPA {
		s.Display = fmt.Sprintf("₹%s LPA", fmtLPA(s.MinLPA))
	} else {
		s.Display = fmt.Sprintf("₹%s-%s LPA", fmtLPA(s.MinLPA), fmtLPA(s.MaxLPA))
	}
	return s
}

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}

func fmtLPA(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// ParseExperience reads "3-5 Yrs", "2 to 4 years" or "5+ years".
func ParseExperience(text string) *domain.ExperienceRange {
	low := strings.ToLower(strings.NewReplacer(",", "", " ", "").Replace(Clean(text)))
	if low == "" {
		return nil
	}
	if m := reExpRange.FindStringSubmatch(low); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			lo, hi = hi, lo
		}
		return &domain.ExperienceRange{Min: lo, Max: hi, Display: fmt.Sprintf("%d-%d yrs", lo, hi)}
	}
	if m := reExpOne.FindStringSubmatch(low); m != nil {
		n, _ := strconv.Atoi(m[1])
		return &domain.ExperienceRange{Min: n, Max: n + 3, Display: fmt.Sprintf("%d+ yrs", n)}
	}
	return nil
}

const (
	LevelExecutive = "executive"
	LevelVPHead    = "vp_head"
	LevelDirector  = "director"
	LevelPrincipal = "principal"
	LevelSenior    = "senior"
	LevelEntry     = "entry"
	LevelMid       = "mid"
)

var levelRules = []struct {
	level string
	any   []string
}{
	{LevelExecutive, []string{"chief", "cpo", "cxo"}},
	{LevelVPHead, []string{" vp", "vp ", "vice president", "head of", "product head"}},
	{LevelDirector, []string{"director"}},
	{LevelPrincipal, []string{"principal", "group product", "gpm"}},
	{LevelSenior, []string{"staff", "lead", "senior", "sr.", "sr ", "spm"}},
	{LevelEntry, []string{"associate", "apm", "junior", "jr", "entry", "intern", "trainee"}},
}

// DetectLevel buckets a title by seniority keywords, most senior first.
func DetectLevel(title string) string {
	t := " " + strings.ToLower(Clean(title)) + " "
	for _, r := range levelRules {
		for _, kw := range r.any {
			if strings.Contains(t, kw) {
				return r.level
			}
		}
	}
	return LevelMid
}
