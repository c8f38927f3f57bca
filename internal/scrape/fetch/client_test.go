package fetch

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhub-engine/internal/scrape/types"
)

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func testClient(opts Options, rec *sleepRecorder, extra ...Option) *Client {
	options := []Option{WithSleeper(rec.sleep), WithRand(rand.New(rand.NewPCG(1, 2)))}
	return New(opts, append(options, extra...)...)
}

func quickOptions() Options {
	o := DefaultOptions()
	o.MinDelay = time.Second
	o.MaxDelay = 2 * time.Second
	o.MaxRetries = 2
	o.BackoffBase = 100 * time.Millisecond
	o.BackoffMax = time.Second
	o.Timeout = 2 * time.Second
	return o
}

func TestFetchRotatesProfilesWithoutRepeats(t *testing.T) {
	var mu sync.Mutex
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		mu.Unlock()
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := testClient(quickOptions(), &sleepRecorder{})
	for i := 0; i < 40; i++ {
		_, err := c.Fetch(context.Background(), types.Request{URL: srv.URL})
		require.NoError(t, err)
	}

	require.Len(t, agents, 40)
	distinct := map[string]bool{}
	for i, ua := range agents {
		assert.NotEmpty(t, ua)
		distinct[ua] = true
		if i > 0 {
			assert.NotEqual(t, agents[i-1], ua, "request %d reused the previous identity", i)
		}
	}
	assert.Greater(t, len(distinct), 2)
}

func TestFetchPacingAndLongPause(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	opts := quickOptions()
	opts.LongPauseEvery = 3
	opts.LongPauseMin = 10 * time.Second
	opts.LongPauseMax = 10 * time.Second
	rec := &sleepRecorder{}
	c := testClient(opts, rec)

	for i := 0; i < 7; i++ {
		_, err := c.Fetch(context.Background(), types.Request{URL: srv.URL})
		require.NoError(t, err)
	}

	require.Len(t, rec.waits, 7)
	assert.Zero(t, rec.waits[0])
	for i := 1; i < 7; i++ {
		lo, hi := time.Second, 2*time.Second
		if i%3 == 0 {
			lo, hi = lo+10*time.Second, hi+10*time.Second
		}
		assert.GreaterOrEqual(t, rec.waits[i], lo, "wait %d", i)
		assert.LessOrEqual(t, rec.waits[i], hi, "wait %d", i)
	}
	assert.Equal(t, 7, c.Fetches())
}

func TestFetchRetriesTransientThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("<ul><li>job</li></ul>"))
	}))
	defer srv.Close()

	rec := &sleepRecorder{}
	c := testClient(quickOptions(), rec)
	resp, err := c.Fetch(context.Background(), types.Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "job")
	assert.EqualValues(t, 3, hits.Load())

	// pacing wait for the first fetch plus two backoffs
	require.Len(t, rec.waits, 3)
	assert.InDelta(t, float64(100*time.Millisecond), float64(rec.waits[1]), float64(25*time.Millisecond))
	assert.InDelta(t, float64(200*time.Millisecond), float64(rec.waits[2]), float64(50*time.Millisecond))
}

func TestFetchTransientExhausted(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(quickOptions(), &sleepRecorder{})
	_, err := c.Fetch(context.Background(), types.Request{URL: srv.URL})
	require.ErrorIs(t, err, types.ErrTransient)

	var se *types.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Attempts)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.EqualValues(t, 3, hits.Load())
}

func TestFetchTimeoutIsTransient(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	opts := quickOptions()
	opts.Timeout = 50 * time.Millisecond
	opts.MaxRetries = 1
	c := testClient(opts, &sleepRecorder{})
	_, err := c.Fetch(context.Background(), types.Request{URL: srv.URL})
	require.ErrorIs(t, err, types.ErrTransient)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualValues(t, 2, hits.Load())
}

func TestFetchClassifiesWithoutRetry(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		header map[string]string
		want   error
	}{
		{name: "forbidden", status: http.StatusForbidden, want: types.ErrBlocked},
		{name: "unauthorized", status: http.StatusUnauthorized, want: types.ErrBlocked},
		{name: "too many requests", status: http.StatusTooManyRequests, want: types.ErrRateLimited},
		{name: "captcha with 200", status: http.StatusOK, body: `<html><div id="px-captcha"></div></html>`, want: types.ErrBlocked},
		{name: "cloudflare challenge", status: http.StatusServiceUnavailable, header: map[string]string{"Server": "cloudflare", "CF-RAY": "8a-BOM"}, want: types.ErrBlocked},
		{name: "bad request", status: http.StatusBadRequest, want: types.ErrTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				for k, v := range tc.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := testClient(quickOptions(), &sleepRecorder{})
			_, err := c.Fetch(context.Background(), types.Request{URL: srv.URL})
			require.ErrorIs(t, err, tc.want)
			assert.EqualValues(t, 1, hits.Load())
		})
	}
}

func TestFetchCustomBlockMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>Please Complete The Security Check</html>"))
	}))
	defer srv.Close()

	opts := quickOptions()
	opts.BlockMarkers = []string{"please complete the security check"}
	c := testClient(opts, &sleepRecorder{})
	_, err := c.Fetch(context.Background(), types.Request{URL: srv.URL})
	assert.ErrorIs(t, err, types.ErrBlocked)
}

func TestFetchNotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := testClient(quickOptions(), &sleepRecorder{})
	resp, err := c.Fetch(context.Background(), types.Request{URL: srv.URL})
	require.NoError(t, err)
	assert.True(t, resp.Empty())
}

func TestFetchJSONAcceptHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jobs":[]}`))
	}))
	defer srv.Close()

	c := testClient(quickOptions(), &sleepRecorder{})
	resp, err := c.Fetch(context.Background(), types.Request{URL: srv.URL, Accept: "application/json", Referer: "https://www.foundit.in/"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"jobs":[]}`, string(resp.Body))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "cors", got.Get("Sec-Fetch-Mode"))
	assert.Equal(t, "https://www.foundit.in/", got.Get("Referer"))
}

func TestFetchCancelledBeforeStart(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := testClient(quickOptions(), &sleepRecorder{})
	_, err := c.Fetch(ctx, types.Request{URL: srv.URL})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits.Load())
}

func TestFetchInFlightCompletesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte("finished"))
	}))
	defer srv.Close()

	c := testClient(quickOptions(), &sleepRecorder{})
	resp, err := c.Fetch(ctx, types.Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "finished", string(resp.Body))
}

func TestFetchNoRetryAfterCancel(t *testing.T) {
	var hits atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(quickOptions(), WithSleeper(sleepCtx))
	_, err := c.Fetch(ctx, types.Request{URL: srv.URL})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.EqualValues(t, 1, hits.Load())
}

func TestBackoffCapped(t *testing.T) {
	c := testClient(quickOptions(), &sleepRecorder{})
	for attempt := 0; attempt < 10; attempt++ {
		assert.LessOrEqual(t, c.backoff(attempt), time.Duration(float64(time.Second)*1.25))
	}
}
