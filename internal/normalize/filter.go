package normalize

import "strings"

// DefaultRoleAllow matches product management titles.
var DefaultRoleAllow = []string{
	"product manager", "product management", "pm ", " pm", "product owner",
	"product lead", "product head", "head of product", "director of product",
	"vp product", "chief product", "cpo", "apm", "associate product",
	"senior product", "staff product", "principal product", "group product",
	"technical product", "platform product", "growth product", "data product",
	"product analyst", "product ops", "product operations", "product strategy",
}

// DefaultRoleExclude drops neighbouring "PM" roles that are not product.
var DefaultRoleExclude = []string{
	"project manager", "program manager", "production manager", "plant manager",
	"property manager", "procurement", "purchase manager", "production supervisor",
	"project coordinator", "pmo", "construction", "manufacturing manager",
	"operations manager", "facility manager", "warehouse manager",
}

// RoleFilter keeps a title when it contains an allow keyword and no exclude
// keyword. Matching is on the lowercased, cleaned title padded with spaces,
// so "PM" alone matches " pm".
type RoleFilter struct {
	allow   []string
	exclude []string
}

func NewRoleFilter(allow, exclude []string) RoleFilter {
	if len(allow) == 0 {
		allow = DefaultRoleAllow
	}
	if len(exclude) == 0 {
		exclude = DefaultRoleExclude
	}
	low := func(xs []string) []string {
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			if x = strings.ToLower(x); strings.TrimSpace(x) != "" {
				out = append(out, x)
			}
		}
		return out
	}
	return RoleFilter{allow: low(allow), exclude: low(exclude)}
}

func (f RoleFilter) IsRoleMatch(title string) bool {
	t := " " + strings.ToLower(Clean(title)) + " "
	if strings.TrimSpace(t) == "" {
		return false
	}
	for _, ex := range f.exclude {
		if strings.Contains(t, ex) {
			return false
		}
	}
	for _, kw := range f.allow {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
