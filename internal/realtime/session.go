package realtime

import (
	"context"
	"sync"
	"time"

	"votely-be/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Session is one live client connection and its issued symmetric key.
// The key exists only in memory for the lifetime of the connection.
type Session struct {
	hub        *Hub
	conn       *websocket.Conn
	dispatcher *Dispatcher
	send       chan []byte
	key        string
	log        *logger.Logger

	closeOnce sync.Once
}

func newSession(hub *Hub, conn *websocket.Conn, dispatcher *Dispatcher, key string, log *logger.Logger) *Session {
	return &Session{
		hub:        hub,
		conn:       conn,
		dispatcher: dispatcher,
		send:       make(chan []byte, 16),
		key:        key,
		log:        log,
	}
}

// sendEvent delivers an event to this session only. Used for key
// issuance; everything else goes through the hub.
func (s *Session) sendEvent(event string, data interface{}) error {
	msg, err := encodeEnvelope(event, data)
	if err != nil {
		return err
	}
	select {
	case s.send <- msg:
		return nil
	default:
		return websocket.ErrCloseSent
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.send)
	})
}

// readPump reads inbound envelopes and hands them to the dispatcher.
// Exactly one reader per connection.
func (s *Session) readPump(ctx context.Context) {
	defer func() {
		s.hub.unregister <- s
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Debug("unexpected websocket close")
			}
			return
		}
		s.dispatcher.Dispatch(ctx, s.key, message)
	}
}

// writePump forwards queued messages to the connection and keeps it
// alive with pings. Exactly one writer per connection.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
