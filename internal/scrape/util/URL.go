package util

import (
	"net/url"
	"sort"
	"strings"
)

// CanonicalizeURL lowercases scheme and host, drops the fragment and
// tracking parameters and sorts the remaining query.
func CanonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "refid" || lk == "trackingid" || lk == "trk" ||
			lk == "src" || lk == "from" {
			q.Del(k)
		}
	}

	// linkedin view urls carry the id in the path
	if strings.Contains(u.Host, "linkedin.com") && strings.Contains(u.Path, "/jobs/view/") {
		q = url.Values{}
	}

	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ResolveURL makes href absolute against base. Unparseable input is
// returned unchanged.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript:") || href == "#" {
		return ""
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	if h.IsAbs() || base == "" {
		return h.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// Slug lowercases s and joins its words with sep, for sites that put the
// query or city into the path ("product-manager-jobs-in-pune").
func Slug(s, sep string) string {
	f := strings.FieldsFunc(strings.ToLower(CleanText(s)), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(f, sep)
}

// LooksLikeJobLink is a loose test for posting URLs used by the generic
// card scan.
func LooksLikeJobLink(href string) bool {
	l := strings.ToLower(href)
	if l == "" || strings.HasPrefix(l, "mailto:") || strings.HasPrefix(l, "javascript:") {
		return false
	}
	for _, frag := range []string{"/job/", "/jobs/view", "/job-listings", "/viewjob", "jobid=", "jk=", "/jobs/", "-job-", "/position/"} {
		if strings.Contains(l, frag) {
			return true
		}
	}
	return false
}
