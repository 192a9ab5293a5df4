package realtime

import (
	"context"

	"votely-be/pkg/logger"
)

// Publisher is the fan-out surface the dispatcher publishes through.
// Splitting it from the hub keeps event handling testable without
// websocket connections.
type Publisher interface {
	Broadcast(event string, data interface{})
}

// Hub tracks every connected session and fans outbound events out to
// all of them. Vote outcomes, catalog snapshots and live updates are
// public events by design (the leaderboard use case), so broadcast is
// the only delivery mode; the sole per-session message is the key
// issued at connect, which bypasses the hub.
type Hub struct {
	sessions   map[*Session]struct{}
	register   chan *Session
	unregister chan *Session
	broadcast  chan []byte
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		sessions:   make(map[*Session]struct{}),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

// Run owns the session set. It is the only goroutine touching it, so no
// locking is needed. Returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for s := range h.sessions {
				s.close()
			}
			return
		case s := <-h.register:
			h.sessions[s] = struct{}{}
			h.log.WithField("sessions", len(h.sessions)).Debug("session connected")
		case s := <-h.unregister:
			if _, ok := h.sessions[s]; ok {
				delete(h.sessions, s)
				s.close()
			}
			h.log.WithField("sessions", len(h.sessions)).Debug("session disconnected")
		case msg := <-h.broadcast:
			for s := range h.sessions {
				select {
				case s.send <- msg:
				default:
					// Slow consumer; drop the session rather than
					// stall every other one.
					delete(h.sessions, s)
					s.close()
				}
			}
		}
	}
}

// Broadcast encodes an event and queues it for every session.
func (h *Hub) Broadcast(event string, data interface{}) {
	msg, err := encodeEnvelope(event, data)
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("failed to encode broadcast")
		return
	}
	h.broadcast <- msg
}
