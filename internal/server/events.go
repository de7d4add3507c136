package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/claude/massebuilder/internal/program"
)

// Event is one server-sent notification. The shell uses "saved" for the
// transient save confirmation and "timer" for expiry alerts (haptics,
// audio, system notification are its side of the contract).
type Event struct {
	Type string `json:"type"`
	Day  string `json:"day,omitempty"`
	Week int    `json:"week,omitempty"`
}

// broker fans events out to connected SSE clients. Slow clients drop
// events rather than block publishers.
type broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newBroker() *broker {
	return &broker{subs: make(map[chan Event]struct{})}
}

func (b *broker) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *broker) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// SessionSaved is the session store's save-completed hook.
func (b *broker) SessionSaved(day program.Day, week int) {
	b.publish(Event{Type: "saved", Day: string(day), Week: week})
}

// RestFinished implements timer.Alerter.
func (b *broker) RestFinished() {
	b.publish(Event{Type: "timer"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fl.Flush()

	ch, cancel := s.events.subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-ch:
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
			fl.Flush()
		}
	}
}
