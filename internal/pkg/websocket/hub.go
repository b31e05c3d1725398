package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/models"
)

// Hub maintains the set of connected clients keyed by recipient and pushes
// notification events to them. Delivery is best effort; clients that miss an
// event catch up through the notification list endpoint.
type Hub struct {
	// Registered clients organized by recipient user ID
	clients map[int64]map[*Client]bool

	// Outbound events waiting for fan-out
	events chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Event is one notification pushed over a WebSocket connection
type Event struct {
	// Event kind, currently always "notification"
	Kind string `json:"kind"`

	// Recipient of the event
	UserID int64 `json:"userId"`

	// The notification payload
	Notification *models.Notification `json:"notification"`

	// Timestamp when the event was emitted
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		events:     make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and event fan-out
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.events:
			h.deliver(event)
		}
	}
}

// Publish pushes a notification to the recipient's open connections. Never
// blocks the caller: when the hub's queue is full the event is dropped and
// the recipient falls back to polling.
func (h *Hub) Publish(userID int64, n *models.Notification) {
	event := &Event{
		Kind:         "notification",
		UserID:       userID,
		Notification: n,
		Timestamp:    time.Now(),
	}

	select {
	case h.events <- event:
	default:
		h.logger.Warn().Int64("userID", userID).Msg("Event queue full, dropping push")
	}
}

// ConnectionCount returns the number of open connections for a recipient
func (h *Hub) ConnectionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[userID]; ok {
		return len(clients)
	}
	return 0
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.clients, client.userID)
			}

			h.logger.Info().
				Int64("userID", client.userID).
				Str("addr", client.conn.RemoteAddr().String()).
				Msg("Client unregistered")
		}
	}
}

func (h *Hub) deliver(event *Event) {
	h.mu.RLock()
	clients, ok := h.clients[event.UserID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.mu.RUnlock()
		h.logger.Error().Err(err).Int64("userID", event.UserID).Msg("Failed to marshal event")
		return
	}

	var stale []*Client
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Send buffer full, the client is slow or gone
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	// deliver already runs in the hub goroutine, which is the only reader of
	// the unregister channel. Sending on it here would block forever, so stale
	// clients are dropped directly.
	for _, client := range stale {
		h.unregisterClient(client)
	}
}
