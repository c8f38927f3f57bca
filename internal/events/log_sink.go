package events

import "github.com/phuslu/log"

// LogSink writes events to the process logger. Page events log at debug.
type LogSink struct{}

func (LogSink) Emit(runID, typ string, data any) {
	var e *log.Entry
	switch typ {
	case PageDone, SourceStart:
		e = log.Debug()
	case PageFailed, ConfigReject:
		e = log.Warn()
	default:
		e = log.Info()
	}
	e = e.Str("run_id", runID).Str("event", typ)
	if f, ok := data.(Fields); ok {
		for k, v := range f {
			e = e.Any(k, v)
		}
	} else if data != nil {
		e = e.Any("data", data)
	}
	e.Msg("scrape event")
}
