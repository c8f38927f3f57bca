package events

import "sync"

// backlog is how many recent events the hub keeps for late subscribers.
const backlog = 128

type message struct {
	runID string
	body  string
}

// Hub fans rendered events out to subscribers (SSE clients). Slow
// subscribers miss events rather than stall the run. A subscriber may follow
// one run only, and may ask for the recent backlog when it connects.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]string // channel -> run filter, "" for all
	recent  []message
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]string)}
}

// Subscribe registers a subscriber for runID ("" follows every run). With
// replay set it also returns the recent events that match, oldest first;
// nothing published after the snapshot is lost or duplicated.
func (h *Hub) Subscribe(runID string, replay bool) (chan string, []string) {
	ch := make(chan string, 32)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = runID

	var past []string
	if replay {
		for _, m := range h.recent {
			if runID == "" || m.runID == runID {
				past = append(past, m.body)
			}
		}
	}
	return ch, past
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish delivers a rendered event to every subscriber following runID.
func (h *Hub) Publish(runID, evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.recent = append(h.recent, message{runID: runID, body: evt})
	if len(h.recent) > backlog {
		h.recent = append(h.recent[:0], h.recent[len(h.recent)-backlog:]...)
	}

	for ch, filter := range h.clients {
		if filter != "" && filter != runID {
			continue
		}
		select {
		case ch <- evt:
		default:
		}
	}
}

func (h *Hub) Emit(runID, typ string, data any) {
	h.Publish(runID, MakeEvent(runID, typ, Version, data))
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
