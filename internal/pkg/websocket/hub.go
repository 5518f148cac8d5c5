package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// outbound is one payload addressed to every client of a topic
type outbound struct {
	topic string
	data  []byte
}

// Hub maintains the set of active clients per topic and fans payloads out to them.
// A topic is a session node id.
type Hub struct {
	clients map[string]map[*Client]bool

	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// mu guards clients for readers outside the Run goroutine
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.topic]; !ok {
		h.clients[client.topic] = make(map[*Client]bool)
	}
	h.clients[client.topic][client] = true

	h.logger.Info().
		Str("sessionID", client.topic).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked removes a client and closes its send channel. Caller holds mu.
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.clients[client.topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.topic)
	}

	h.logger.Info().
		Str("sessionID", client.topic).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) broadcastMessage(msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[msg.topic]
	if !ok {
		return
	}
	for client := range clients {
		select {
		case client.send <- msg.data:
		default:
			// slow consumer, drop it rather than stall every other session
			h.dropLocked(client)
		}
	}

	h.logger.Debug().
		Str("sessionID", msg.topic).
		Int("clientCount", len(clients)).
		Msg("Event broadcast to session")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.dropLocked(client)
		}
	}
}

// Broadcast queues data for every client of topic. It never blocks; when the
// queue is full the payload is dropped.
func (h *Hub) Broadcast(topic string, data []byte) bool {
	select {
	case h.broadcast <- outbound{topic: topic, data: data}:
		return true
	default:
		h.logger.Warn().Str("sessionID", topic).Msg("Broadcast queue full, dropping event")
		return false
	}
}

// CloseTopic disconnects every client of a topic, e.g. when its node is evicted
func (h *Hub) CloseTopic(topic string) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[topic]))
	for c := range h.clients[topic] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.closeConn()
	}
}

// ClientCount returns the number of connected clients for a topic
func (h *Hub) ClientCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
