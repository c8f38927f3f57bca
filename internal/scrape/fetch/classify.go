package fetch

import (
	"bytes"
	"net/http"

	"jobhub-engine/internal/scrape/types"
)

// blockMarkers identify anti-bot interstitials. They are matched against
// the lowercased head of the body regardless of status code since several
// vendors serve challenges with 200.
var blockMarkers = []string{
	"cf-chl-",
	"/cdn-cgi/challenge-platform",
	"checking your browser before accessing",
	"attention required! | cloudflare",
	"captcha-delivery.com",
	"px-captcha",
	"unusual traffic from your computer",
	"verify you are a human",
	"are you a robot",
	"<title>access denied</title>",
	"request unsuccessful. incapsula",
}

const sniffBytes = 8 << 10

type verdict struct {
	kind  types.Kind
	retry bool
	empty bool
	ok    bool
}

func (c *Client) classify(resp *http.Response, body []byte) verdict {
	status := resp.StatusCode
	switch {
	case status == http.StatusTooManyRequests:
		return verdict{kind: types.KindRateLimited}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return verdict{kind: types.KindBlocked}
	case c.hasBlockMarker(body):
		return verdict{kind: types.KindBlocked}
	case status == http.StatusServiceUnavailable && cloudflareEdge(resp):
		return verdict{kind: types.KindBlocked}
	case status == http.StatusNotFound || status == http.StatusGone:
		return verdict{ok: true, empty: true}
	case status == http.StatusRequestTimeout || status >= 500:
		return verdict{kind: types.KindTransient, retry: true}
	case status >= 400:
		return verdict{kind: types.KindTransient}
	}
	return verdict{ok: true}
}

func (c *Client) hasBlockMarker(body []byte) bool {
	head := body
	if len(head) > sniffBytes {
		head = head[:sniffBytes]
	}
	low := bytes.ToLower(head)
	for _, m := range blockMarkers {
		if bytes.Contains(low, []byte(m)) {
			return true
		}
	}
	for _, m := range c.opts.BlockMarkers {
		if m != "" && bytes.Contains(low, bytes.ToLower([]byte(m))) {
			return true
		}
	}
	return false
}

func cloudflareEdge(resp *http.Response) bool {
	return bytes.Contains(bytes.ToLower([]byte(resp.Header.Get("Server"))), []byte("cloudflare")) &&
		resp.Header.Get("CF-RAY") != ""
}
