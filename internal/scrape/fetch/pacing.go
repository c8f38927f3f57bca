package fetch

import (
	"context"
	"time"
)

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// between returns a uniform duration in [lo, hi].
func (c *Client) between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(c.rnd.Int64N(int64(hi-lo)+1))
}

// nextDelay returns the wait before the n-th fetch (0-based). The first
// fetch is not delayed; every LongPauseEvery-th fetch gets an extra pause.
func (c *Client) nextDelay(n int) time.Duration {
	if n == 0 {
		return 0
	}
	d := c.between(c.opts.MinDelay, c.opts.MaxDelay)
	if k := c.opts.LongPauseEvery; k > 0 && n%k == 0 {
		d += c.between(c.opts.LongPauseMin, c.opts.LongPauseMax)
	}
	return d
}

// backoff returns the wait before retry number attempt (0-based):
// base*2^attempt capped at BackoffMax, with ±25% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.BackoffBase
	for i := 0; i < attempt && d < c.opts.BackoffMax; i++ {
		d *= 2
	}
	if c.opts.BackoffMax > 0 && d > c.opts.BackoffMax {
		d = c.opts.BackoffMax
	}
	jitter := float64(d) * 0.25 * (c.rnd.Float64()*2 - 1)
	return d + time.Duration(jitter)
}
