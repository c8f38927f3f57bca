package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/net/html/charset"

	"jobhub-engine/internal/scrape/types"
	"jobhub-engine/internal/scrape/util"
)

type Options struct {
	MinDelay       time.Duration
	MaxDelay       time.Duration
	LongPauseEvery int
	LongPauseMin   time.Duration
	LongPauseMax   time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
	BackoffMax     time.Duration
	Timeout        time.Duration
	MaxBodyBytes   int64
	BlockMarkers   []string
}

func DefaultOptions() Options {
	return Options{
		MinDelay:       1500 * time.Millisecond,
		MaxDelay:       4 * time.Second,
		LongPauseEvery: 10,
		LongPauseMin:   2 * time.Second,
		LongPauseMax:   5 * time.Second,
		MaxRetries:     3,
		BackoffBase:    2 * time.Second,
		BackoffMax:     30 * time.Second,
		Timeout:        20 * time.Second,
		MaxBodyBytes:   5 << 20,
	}
}

// Client performs paced, identity-rotating GETs with retry and block
// classification. It is safe for concurrent use; the orchestrator still
// gives each source its own Client so pacing is per source.
type Client struct {
	http     *http.Client
	opts     Options
	limiter  *util.HostLimiter
	profiles []Profile
	sleep    func(context.Context, time.Duration) error

	mu          sync.Mutex
	rnd         *rand.Rand
	fetches     int
	lastProfile int
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithLimiter adds a shared per-host floor on top of the client's pacing.
func WithLimiter(hl *util.HostLimiter) Option { return func(c *Client) { c.limiter = hl } }

func WithProfiles(ps []Profile) Option { return func(c *Client) { c.profiles = ps } }

// WithSleeper replaces the context-aware sleep, for tests.
func WithSleeper(fn func(context.Context, time.Duration) error) Option {
	return func(c *Client) { c.sleep = fn }
}

func WithRand(r *rand.Rand) Option { return func(c *Client) { c.rnd = r } }

func New(opts Options, options ...Option) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultOptions().MaxBodyBytes
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	c := &Client{
		opts:        opts,
		profiles:    DefaultProfiles(),
		sleep:       sleepCtx,
		lastProfile: -1,
	}
	for _, o := range options {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return c
}

// Fetch GETs req.URL. Pacing and backoff sleeps observe ctx, but a request
// already on the wire is only bounded by Options.Timeout so it can finish
// when the run is cancelled.
func (c *Client) Fetch(ctx context.Context, req types.Request) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	delay := c.nextDelay(c.fetches)
	c.fetches++
	c.mu.Unlock()

	if err := c.sleep(ctx, delay); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		if err := c.limiter.WaitURL(ctx, req.URL); err != nil {
			return nil, err
		}

		resp, v, err := c.once(ctx, req)
		if v.ok {
			return resp, nil
		}

		se := &types.ScrapeError{Kind: v.kind, URL: req.URL, Attempts: attempt, Err: err}
		if resp != nil {
			se.Status = resp.Status
		}
		if !v.retry || attempt > c.opts.MaxRetries {
			return nil, se
		}

		c.mu.Lock()
		wait := c.backoff(attempt - 1)
		c.mu.Unlock()

		log.Debug().Str("url", req.URL).Int("attempt", attempt).Int("status", se.Status).
			Dur("backoff", wait).Err(err).Msg("fetch retry")

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// Fetches reports how many logical fetches were started.
func (c *Client) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func (c *Client) once(ctx context.Context, req types.Request) (*types.Response, verdict, error) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, verdict{kind: types.KindConfiguration}, err
	}

	c.mu.Lock()
	prof := c.pickProfile()
	referer := referers[c.rnd.IntN(len(referers))]
	c.mu.Unlock()
	prof.apply(httpReq.Header, req, referer)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, verdict{kind: types.KindTransient, retry: true}, err
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	out := &types.Response{URL: req.URL, Status: resp.StatusCode, Header: resp.Header}
	if err != nil {
		return out, verdict{kind: types.KindTransient, retry: true}, fmt.Errorf("read body: %w", err)
	}

	v := c.classify(resp, body)
	if v.ok && !v.empty {
		out.Body = body
	}
	if !v.ok {
		err = fmt.Errorf("http %d", resp.StatusCode)
	}
	return out, v, err
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	r, err := charset.NewReader(io.LimitReader(resp.Body, c.opts.MaxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		r = io.LimitReader(resp.Body, c.opts.MaxBodyBytes)
	}
	return io.ReadAll(r)
}

// pickProfile chooses a random identity different from the previous one.
// Caller holds c.mu.
func (c *Client) pickProfile() Profile {
	n := len(c.profiles)
	if n == 0 {
		return Profile{UserAgent: DefaultProfiles()[0].UserAgent}
	}
	if n == 1 {
		c.lastProfile = 0
		return c.profiles[0]
	}
	i := c.rnd.IntN(n)
	if i == c.lastProfile {
		i = (i + 1 + c.rnd.IntN(n-1)) % n
	}
	c.lastProfile = i
	return c.profiles[i]
}
