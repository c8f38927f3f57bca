package fetch

import (
	"net/http"

	"jobhub-engine/internal/scrape/types"
)

// Profile is one coherent browser identity. Header sets are kept together
// so a Firefox user agent never travels with Chrome client hints.
type Profile struct {
	Name      string
	UserAgent string
	Headers   map[string]string
}

const acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"

func chromium(name, ua, brand, platform string) Profile {
	return Profile{
		Name:      name,
		UserAgent: ua,
		Headers: map[string]string{
			"Accept-Language":           "en-US,en;q=0.9",
			"Sec-Ch-Ua":                 brand,
			"Sec-Ch-Ua-Mobile":          "?0",
			"Sec-Ch-Ua-Platform":        platform,
			"Sec-Fetch-Dest":            "document",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-Site":            "none",
			"Sec-Fetch-User":            "?1",
			"Upgrade-Insecure-Requests": "1",
		},
	}
}

func gecko(name, ua string) Profile {
	return Profile{
		Name:      name,
		UserAgent: ua,
		Headers: map[string]string{
			"Accept-Language":           "en-US,en;q=0.5",
			"Sec-Fetch-Dest":            "document",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-Site":            "none",
			"Sec-Fetch-User":            "?1",
			"Upgrade-Insecure-Requests": "1",
			"DNT":                       "1",
		},
	}
}

// DefaultProfiles mirrors current desktop browser traffic.
func DefaultProfiles() []Profile {
	return []Profile{
		chromium("chrome-120-win",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			`"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`, `"Windows"`),
		chromium("chrome-120-mac",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			`"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`, `"macOS"`),
		chromium("chrome-119-win",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			`"Google Chrome";v="119", "Chromium";v="119", "Not?A_Brand";v="24"`, `"Windows"`),
		chromium("chrome-119-mac",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			`"Google Chrome";v="119", "Chromium";v="119", "Not?A_Brand";v="24"`, `"macOS"`),
		chromium("edge-120-win",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			`"Not_A Brand";v="8", "Chromium";v="120", "Microsoft Edge";v="120"`, `"Windows"`),
		gecko("firefox-121-win",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0"),
		gecko("firefox-121-mac",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0"),
		{
			Name:      "safari-17-mac",
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
			Headers: map[string]string{
				"Accept-Language": "en-US,en;q=0.9",
				"Sec-Fetch-Dest":  "document",
				"Sec-Fetch-Mode":  "navigate",
				"Sec-Fetch-Site":  "none",
			},
		},
	}
}

// referers emulate arriving from a search engine.
var referers = []string{
	"https://www.google.com/",
	"https://www.google.co.in/",
	"https://www.bing.com/",
	"https://duckduckgo.com/",
}

func (p Profile) apply(h http.Header, req types.Request, referer string) {
	h.Set("User-Agent", p.UserAgent)
	for k, v := range p.Headers {
		h.Set(k, v)
	}
	accept := req.Accept
	if accept == "" {
		accept = acceptHTML
	} else {
		// XHR style request
		h.Set("Sec-Fetch-Dest", "empty")
		h.Set("Sec-Fetch-Mode", "cors")
		h.Set("Sec-Fetch-Site", "same-origin")
		h.Del("Sec-Fetch-User")
		h.Del("Upgrade-Insecure-Requests")
	}
	h.Set("Accept", accept)
	if req.Referer != "" {
		referer = req.Referer
	}
	if referer != "" {
		h.Set("Referer", referer)
		if req.Referer == "" && req.Accept == "" {
			h.Set("Sec-Fetch-Site", "cross-site")
		}
	}
}
