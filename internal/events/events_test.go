package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeEventEnvelope(t *testing.T) {
	raw := MakeEvent("run-1", PageDone, Version, Fields{"source": "naukri", "page": 2})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, PageDone, e.Type)
	assert.Equal(t, 1, e.Version)
	assert.Equal(t, "run-1", e.RunID)
	assert.JSONEq(t, `{"source":"naukri","page":2}`, string(e.Data))
	assert.False(t, e.At.IsZero())
}

func TestHubFanOutAndDrop(t *testing.T) {
	h := NewHub()
	a, _ := h.Subscribe("", false)
	b, _ := h.Subscribe("", false)
	assert.Equal(t, 2, h.Subscribers())

	h.Emit("r", RunStarted, nil)
	assert.Contains(t, <-a, RunStarted)
	assert.Contains(t, <-b, RunStarted)

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	assert.Equal(t, 1, h.Subscribers())
	_, open := <-a
	assert.False(t, open)

	// b never reads; publishing past its buffer must not block
	for i := 0; i < 100; i++ {
		h.Publish("r", "x")
	}
	assert.Len(t, b, cap(b))
}

func TestHubRunFilterAndReplay(t *testing.T) {
	h := NewHub()
	h.Emit("r1", RunStarted, nil)
	h.Emit("r2", RunStarted, nil)
	h.Emit("r1", SourceDone, Fields{"source": "naukri"})

	ch, past := h.Subscribe("r1", true)
	require.Len(t, past, 2)
	assert.Contains(t, past[0], RunStarted)
	assert.Contains(t, past[1], SourceDone)

	h.Emit("r2", RunFinished, nil)
	h.Emit("r1", RunFinished, nil)
	got := <-ch
	assert.Contains(t, got, RunFinished)
	assert.Contains(t, got, `"run_id":"r1"`)
	assert.Empty(t, ch)

	_, none := h.Subscribe("", false)
	assert.Nil(t, none)
}

func TestHubBacklogIsBounded(t *testing.T) {
	h := NewHub()
	for i := 0; i < backlog+10; i++ {
		h.Publish("r", "x")
	}
	_, past := h.Subscribe("", true)
	assert.Len(t, past, backlog)
}

type recordSink struct{ types []string }

func (r *recordSink) Emit(_, typ string, _ any) { r.types = append(r.types, typ) }

func TestMulti(t *testing.T) {
	r1, r2 := &recordSink{}, &recordSink{}
	s := Multi(r1, nil, r2)
	s.Emit("r", SourceDone, nil)
	assert.Equal(t, []string{SourceDone}, r1.types)
	assert.Equal(t, []string{SourceDone}, r2.types)

	_, ok := Multi(nil).(Discard)
	assert.True(t, ok)
	LogSink{}.Emit("r", PageFailed, Fields{"source": "x"})
}
