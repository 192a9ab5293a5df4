package realtime

import (
	"context"
	"net/http"

	"votely-be/pkg/logger"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to websocket sessions.
type Handler struct {
	hub        *Hub
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	log        *logger.Logger
}

func NewHandler(hub *Hub, dispatcher *Dispatcher, allowedOrigins []string, log *logger.Logger) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Handler{
		hub:        hub,
		dispatcher: dispatcher,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// ServeWS handles GET /ws: upgrade, issue the session key to the new
// connection only, then start the pumps.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	key, err := GenerateKey()
	if err != nil {
		h.log.WithError(err).Error("failed to issue session key")
		conn.Close()
		return
	}

	session := newSession(h.hub, conn, h.dispatcher, key, h.log)
	h.hub.register <- session

	go session.writePump()
	// The key goes to this session alone; broadcasting it would hand
	// every observer the means to forge vote payloads.
	if err := session.sendEvent(EventKey, key); err != nil {
		h.log.WithError(err).Error("failed to send session key")
		h.hub.unregister <- session
		return
	}
	go session.readPump(context.Background())
}
