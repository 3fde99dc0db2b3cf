// Package ws holds the connection set and the per-connection protocol for
// real-time reminder delivery. One Client per open browser session; the Hub
// is the only shared state between them.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/model"
)

// Hub is the set of currently open connections. Membership is the only
// state it keeps; there is no ordering guarantee across clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates an empty connection set.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

// Register adds a connected client to the set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()

	zlog.Logger.Info().Str("owner_id", c.ownerID).Int("clients", count).Msg("client connected")
}

// Unregister removes a client and releases its send queue. Safe to call
// more than once; only the call that finds the client present closes it.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, present := h.clients[c]
	if present {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if present {
		zlog.Logger.Info().Str("owner_id", c.ownerID).Int("clients", count).Msg("client disconnected")
	}
}

// Broadcast serializes the event once and queues it on every open
// connection. Clients whose send queue is full are treated as dead and
// evicted; the remaining deliveries proceed unaffected and nothing is
// reported to the caller.
func (h *Hub) Broadcast(event model.Event) {
	h.send(event, func(*Client) bool { return true })
}

// SendToOwner queues the event only on connections belonging to one owner.
func (h *Hub) SendToOwner(ownerID string, event model.Event) {
	h.send(event, func(c *Client) bool { return c.ownerID == ownerID })
}

func (h *Hub) send(event model.Event, match func(*Client) bool) {
	data, err := json.Marshal(event)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("type", event.Type).Msg("failed to marshal event")
		return
	}

	var stale []*Client

	h.mu.RLock()
	for c := range h.clients {
		if !match(c) {
			continue
		}
		select {
		case c.send <- data:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		zlog.Logger.Warn().Str("owner_id", c.ownerID).Msg("client send queue full, evicting")
		h.Unregister(c)
	}
}

// OwnerOnline reports whether the owner has at least one open connection.
func (h *Hub) OwnerOnline(ownerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.ownerID == ownerID {
			return true
		}
	}
	return false
}

// Len reports the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every connection. In-flight notifications are not drained.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]bool)
	h.mu.Unlock()

	for c := range clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}

	if len(clients) > 0 {
		zlog.Logger.Info().Int("clients", len(clients)).Msg("connection set closed")
	}
}
