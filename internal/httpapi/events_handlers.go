package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"jobhub-engine/internal/events"
)

// keepAlive is how often an idle stream gets a comment line so proxies and
// the desktop shell do not drop it.
const keepAlive = 15 * time.Second

type EventsHandler struct {
	Hub *events.Hub
}

// ServeSSE streams run events. run_id limits the stream to one run;
// replay=1 first sends the hub's recent backlog.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	runID := r.URL.Query().Get("run_id")
	ch, past := h.Hub.Subscribe(runID, r.URL.Query().Get("replay") == "1")
	defer h.Hub.Unsubscribe(ch)

	ping := events.MakeEvent(runID, "ping", events.Version, nil)
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", ping)
	for _, msg := range past {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
	}
	flusher.Flush()

	tick := time.NewTicker(keepAlive)
	defer tick.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-tick.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
