package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/vaultbank/vaultd/internal/vault"
)

// eventHub fans vault events out to websocket subscribers. A slow subscriber
// drops events rather than blocking the vault's critical section.
type eventHub struct {
	mu   sync.Mutex
	subs map[chan vault.Event]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{subs: make(map[chan vault.Event]struct{})}
}

func (h *eventHub) subscribe() chan vault.Event {
	ch := make(chan vault.Event, 32)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *eventHub) unsubscribe(ch chan vault.Event) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

func (h *eventHub) broadcast(e vault.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	sub := s.hub.subscribe()
	defer s.hub.unsubscribe(sub)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case e := <-sub:
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}
