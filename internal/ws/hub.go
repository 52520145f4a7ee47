package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/0xAdem/ransomguard/internal/auth"
	"github.com/0xAdem/ransomguard/internal/models"
)

const writeTimeout = 5 * time.Second

// envelope is the wire shape pushed to dashboard clients.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub manages websocket connections keyed by user email and relays every
// file event and alert produced by the monitor verbatim. It implements
// the monitor's Notifier interface.
type Hub struct {
	authSvc  *auth.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]struct{}
}

// NewHub creates a hub that authenticates upgrades against authSvc.
func NewHub(authSvc *auth.Service, logger *zap.Logger) *Hub {
	return &Hub{
		authSvc: authSvc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard runs on a different origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Handler upgrades GET /ws/{email}?token=... after validating that the
// token was issued for the email in the path.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := mux.Vars(r)["email"]
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "token is required", http.StatusUnauthorized)
			return
		}

		tokenEmail, err := h.authSvc.ValidateTokenEmail(token)
		if err != nil || tokenEmail != email {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		h.register(email, conn)
		h.logger.Info("websocket connected", zap.String("email", email))

		go h.readLoop(email, conn)
	}
}

// readLoop echoes client messages for connectivity checks and tears the
// connection down when the peer goes away.
func (h *Hub) readLoop(email string, conn *websocket.Conn) {
	defer func() {
		h.unregister(email, conn)
		conn.Close()
		h.logger.Info("websocket disconnected", zap.String("email", email))
	}()

	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(envelope{Type: "echo", Data: msg}); err != nil {
			return
		}
	}
}

// NotifyFileEvent pushes a new_file_event record to every connection.
func (h *Hub) NotifyFileEvent(ev models.FileEvent) {
	h.broadcast(envelope{Type: "new_file_event", Data: ev})
}

// NotifyAlert pushes a new_alert record to every connection.
func (h *Hub) NotifyAlert(alert models.Alert) {
	h.broadcast(envelope{Type: "new_alert", Data: alert})
}

func (h *Hub) broadcast(msg envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for email, conns := range h.conns {
		for conn := range conns {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("websocket write failed, dropping connection",
					zap.String("email", email),
					zap.Error(err),
				)
				delete(conns, conn)
				conn.Close()
			}
		}
		if len(conns) == 0 {
			delete(h.conns, email)
		}
	}
}

func (h *Hub) register(email string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[email] == nil {
		h.conns[email] = make(map[*websocket.Conn]struct{})
	}
	h.conns[email][conn] = struct{}{}
}

func (h *Hub) unregister(email string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.conns[email]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, email)
		}
	}
}
