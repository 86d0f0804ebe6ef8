package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// EventType defines the type of WebSocket event
type EventType string

const (
	EventSegmentResolved     EventType = "segment_resolved"
	EventConversationStarted EventType = "conversation_started"
	EventTranscriptSaved     EventType = "transcript_saved"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    EventType       `json:"type"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for session monitoring
type Hub struct {
	// Admin monitors receive all session events
	monitorConns map[*Connection]bool
	// userID -> connections watching that session only
	userConns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message

	log *zap.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID    string // Empty for monitor connections
	IsMonitor bool
	Send      chan []byte
	Hub       *Hub
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		monitorConns: make(map[*Connection]bool),
		userConns:    make(map[string]map[*Connection]bool),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *Message, 256),
		log:          zap.L().With(zap.String("component", "ws")),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsMonitor {
				h.monitorConns[conn] = true
				h.log.Info("monitor connected")
			} else {
				if h.userConns[conn.UserID] == nil {
					h.userConns[conn.UserID] = make(map[*Connection]bool)
				}
				h.userConns[conn.UserID][conn] = true
				h.log.Info("session watcher connected", zap.String("user_id", conn.UserID))
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsMonitor {
				if h.monitorConns[conn] {
					delete(h.monitorConns, conn)
					close(conn.Send)
					h.log.Info("monitor disconnected")
				}
			} else {
				if watchers, ok := h.userConns[conn.UserID]; ok && watchers[conn] {
					delete(watchers, conn)
					close(conn.Send)
					if len(watchers) == 0 {
						delete(h.userConns, conn.UserID)
					}
					h.log.Info("session watcher disconnected", zap.String("user_id", conn.UserID))
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg)

			for conn := range h.monitorConns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			if watchers, ok := h.userConns[msg.UserID]; ok {
				for conn := range watchers {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastSessionEvent sends a session event to all monitors and to
// watchers of the affected user (implements service.Broadcaster)
func (h *Hub) BroadcastSessionEvent(userID string, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("could not marshal event payload",
			zap.String("event", event), zap.Error(err))
		return
	}
	h.broadcast <- &Message{
		Type:    EventType(event),
		UserID:  userID,
		Payload: data,
	}
}
