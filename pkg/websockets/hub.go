package websockets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks directly attached WebSocket connections for the local server
// and delivers messages to them without API Gateway.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*hubConn
}

type hubConn struct {
	userID string
	conn   *websocket.Conn
	// gorilla connections support one concurrent writer
	writeMu sync.Mutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*hubConn)}
}

// Attach registers a live connection for a user.
func (h *Hub) Attach(connectionID, userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[connectionID] = &hubConn{userID: userID, conn: conn}
}

// AddConnection is a no-op; connections are registered through Attach.
func (h *Hub) AddConnection(ctx context.Context, connectionID, userID string) error {
	return nil
}

// RemoveConnection forgets a connection.
func (h *Hub) RemoveConnection(ctx context.Context, connectionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connectionID)
	return nil
}

// Publish writes the message to every attached connection of the user.
func (h *Hub) Publish(ctx context.Context, userID string, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mu.RLock()
	targets := make(map[string]*hubConn)
	for id, c := range h.conns {
		if c.userID == userID {
			targets[id] = c
		}
	}
	h.mu.RUnlock()

	for id, c := range targets {
		c.writeMu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, payload)
		c.writeMu.Unlock()
		if err != nil {
			slog.Info("dropping local connection after write failure", "connectionId", id, "error", err)
			_ = h.RemoveConnection(ctx, id)
		}
	}
	return nil
}

// Count returns the number of attached connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
