package session

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/metrics"
)

// Connection represents a WebSocket connection
type Connection struct {
	SessionID uuid.UUID
	Conn      *websocket.Conn
	Send      chan []byte
}

// Hub fans session events out to WebSocket subscribers
type Hub struct {
	// sessionID -> set of connections
	connections map[uuid.UUID]map[*Connection]bool

	mu sync.RWMutex

	// Channels for connection management
	register   chan *Connection
	unregister chan *Connection

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.SessionID] == nil {
				h.connections[conn.SessionID] = make(map[*Connection]bool)
			}
			h.connections[conn.SessionID][conn] = true
			h.mu.Unlock()
			metrics.WSConnections.Inc()
			log.Debug().Str("session_id", conn.SessionID.String()).Msg("Client subscribed to session")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.SessionID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					metrics.WSConnections.Dec()
				}
				if len(conns) == 0 {
					delete(h.connections, conn.SessionID)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("session_id", conn.SessionID.String()).Msg("Client unsubscribed from session")
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.ctx.Done():
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

// Publish sends event to every connection of the session
func (h *Hub) Publish(sessionID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[sessionID] {
		select {
		case conn.Send <- data:
		default:
			// Buffer full, skip this message
			log.Warn().Str("session_id", sessionID.String()).Msg("WebSocket send buffer full")
		}
	}
}

// CloseSession drops every connection of a session. Writers see their
// Send channel closed and hang up.
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	h.mu.Lock()
	conns := h.connections[sessionID]
	delete(h.connections, sessionID)
	for conn := range conns {
		close(conn.Send)
		metrics.WSConnections.Dec()
	}
	h.mu.Unlock()

	if len(conns) > 0 {
		log.Debug().Str("session_id", sessionID.String()).Int("connections", len(conns)).Msg("Closed session subscribers")
	}
}

// ConnectionCount returns number of connections subscribed to a session
func (h *Hub) ConnectionCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[sessionID])
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
}
