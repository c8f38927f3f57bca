package events

import (
	"encoding/json"
	"time"
)

const Version = 1

// Event types emitted during a run.
const (
	RunStarted   = "run.started"
	RunFinished  = "run.finished"
	SourceStart  = "source.started"
	SourceDone   = "source.done"
	PageDone     = "page.done"
	PageFailed   = "page.failed"
	ConfigReject = "config.rejected"
)

type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	RunID   string          `json:"run_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// MakeEvent renders the wire envelope for an event.
func MakeEvent(runID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:    typ,
		Version: v,
		At:      time.Now().UTC(),
		RunID:   runID,
		Data:    raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// Sink receives run progress. Implementations must not block.
type Sink interface {
	Emit(runID, typ string, data any)
}

type Discard struct{}

func (Discard) Emit(string, string, any) {}

type multi []Sink

func (m multi) Emit(runID, typ string, data any) {
	for _, s := range m {
		s.Emit(runID, typ, data)
	}
}

// Multi fans out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return Discard{}
	}
	return out
}

// Fields is the common payload shape for page and source events.
type Fields map[string]any
