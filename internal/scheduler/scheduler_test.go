package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRunsImmediatelyAndOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32
	done := make(chan struct{})
	go func() {
		Every(ctx, 10*time.Millisecond, "count", func(context.Context) error {
			if n.Add(1) >= 3 {
				cancel()
			}
			return errors.New("ignored")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Every did not return after cancel")
	}
	assert.GreaterOrEqual(t, n.Load(), int32(3))
}

func TestCronAddValidates(t *testing.T) {
	c := NewCron()
	err := c.Add("scrape", "not a schedule", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scrape")
	assert.True(t, c.Next("scrape").IsZero())
}

func TestCronReplaceAndRemove(t *testing.T) {
	c := NewCron()
	noop := func(context.Context) error { return nil }
	require.NoError(t, c.Add("scrape", "0 9 * * *", noop))
	require.NoError(t, c.Add("scrape", "@every 6h", noop))
	assert.Len(t, c.c.Entries(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return !c.Next("scrape").IsZero() }, time.Second, 10*time.Millisecond)
	assert.WithinDuration(t, time.Now().Add(6*time.Hour), c.Next("scrape"), time.Minute)

	c.Remove("scrape")
	assert.True(t, c.Next("scrape").IsZero())

	cancel()
	<-stopped
}
