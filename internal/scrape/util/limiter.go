package util

import (
	"context"
	"net"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// HostLimiter enforces a request floor per site, shared by every client of
// a run. Hosts under one registrable domain (www.naukri.com, m.naukri.com)
// share a limiter. A nil HostLimiter never waits.
type HostLimiter struct {
	mu    sync.Mutex
	sites map[string]*rate.Limiter
	every rate.Limit
	burst int
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if reqPerSec <= 0 {
		return nil
	}
	return &HostLimiter{
		sites: make(map[string]*rate.Limiter),
		every: rate.Limit(reqPerSec),
		burst: max(burst, 1),
	}
}

// SiteKey is the registrable domain of raw's host, or the bare host when
// it has none (IPs, localhost).
func SiteKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "_"
	}
	host := strings.ToLower(u.Hostname())
	if net.ParseIP(host) != nil {
		return host
	}
	if site, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return site
	}
	return host
}

func (hl *HostLimiter) forSite(site string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	lim, ok := hl.sites[site]
	if !ok {
		lim = rate.NewLimiter(hl.every, hl.burst)
		hl.sites[site] = lim
	}
	return lim
}

// WaitURL blocks until the site of raw may be hit again or ctx ends.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	if hl == nil {
		return nil
	}
	return hl.forSite(SiteKey(raw)).Wait(ctx)
}
