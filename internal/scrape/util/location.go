package util

import "strings"

// LooksLikeJunkTitle flags link texts that are actions, not job titles.
func LooksLikeJunkTitle(t string) bool {
	l := strings.ToLower(strings.TrimSpace(t))
	if len(l) < 3 || len(l) > 150 {
		return true
	}
	for _, junk := range []string{"view", "apply", "save", "sign in", "login", "next", "previous", "see more", "show more"} {
		if l == junk || strings.HasPrefix(l, junk+" ") {
			return true
		}
	}
	return false
}

// ExtractLocationFromLabeledText returns what follows a "Location:" label in
// plain card text.
func ExtractLocationFromLabeledText(s string) string {
	low := strings.ToLower(s)

	labels := []string{
		"job location:",
		"locations:",
		"location:",
	}

	for _, lab := range labels {
		if i := strings.Index(low, lab); i >= 0 {
			rest := strings.TrimSpace(s[i+len(lab):])

			for _, cut := range []string{"\n", "\r", " | ", " · ", " • "} {
				if j := strings.Index(rest, cut); j >= 0 {
					rest = rest[:j]
				}
			}

			rest = CleanText(rest)
			if rest != "" && len(rest) <= 80 {
				return rest
			}
		}
	}
	return ""
}
