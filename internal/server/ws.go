package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/fingercount/internal/logging"
)

const writeTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// CountsHandler pushes a Snapshot to WebSocket clients after every frame.
type CountsHandler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewCountsHandler creates a new CountsHandler backed by hub.
func NewCountsHandler(hub *Hub, logger *slog.Logger) *CountsHandler {
	return &CountsHandler{hub: hub, logger: logger}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *CountsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.hub.Subscribe()
	defer cancel()

	// Clients only listen; reading detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if snap, ok := h.hub.Snapshot(); ok {
		if err := h.send(conn, snap); err != nil {
			return
		}
	}

	for {
		select {
		case <-gone:
			return
		case _, ok := <-updates:
			if !ok {
				deadline := time.Now().Add(writeTimeout)
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "pipeline stopped")
				_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
				return
			}
			snap, _ := h.hub.Snapshot()
			if err := h.send(conn, snap); err != nil {
				h.logger.Debug("websocket client dropped", logging.Error(err))
				return
			}
		}
	}
}

func (h *CountsHandler) send(conn *websocket.Conn, snap Snapshot) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(snap)
}
