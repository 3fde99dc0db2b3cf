package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendQueueSize  = 256
)

// Client is one open connection. It carries the owner the session belongs
// to; nothing beyond set membership binds the connection to that owner, so
// broadcast-scoped events reach every client regardless.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	ownerID string
	proto   *Protocol
}

func newClient(hub *Hub, conn *websocket.Conn, ownerID string, proto *Protocol) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendQueueSize),
		ownerID: ownerID,
		proto:   proto,
	}
}

// OwnerID identifies the user this session belongs to.
func (c *Client) OwnerID() string { return c.ownerID }

// Send queues an event on this connection only, used for direct protocol
// replies. Delivery goes through the hub so a concurrent eviction cannot
// race the queue being closed; a reply to an already-gone client is
// silently dropped.
func (c *Client) Send(event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("type", event.Type).Msg("failed to marshal event")
		return
	}
	c.hub.sendRaw(c, data)
}

// sendRaw queues data for one registered client, dropping it when the
// client is gone or its queue is full.
func (h *Hub) sendRaw(c *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
		zlog.Logger.Warn().Str("owner_id", c.ownerID).Msg("client send queue full, dropping reply")
	}
}

// welcome queues the greeting before the client is registered, so it is
// guaranteed to be the first message the session sees.
func (c *Client) welcome(at time.Time) {
	data, err := json.Marshal(model.NewEvent(model.EventWelcome, model.StatusPayload{
		Message: "connected",
	}, at))
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to marshal welcome event")
		return
	}
	c.send <- data
}

// readPump reads inbound control messages until the connection dies, then
// unregisters. Messages on one connection are handled in arrival order.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zlog.Logger.Warn().Err(err).Str("owner_id", c.ownerID).Msg("unexpected connection close")
			}
			return
		}

		c.proto.Handle(ctx, c, raw)
	}
}

// writePump drains the send queue onto the socket and keeps the transport
// alive with periodic pings. A failed or stalled write kills only this
// connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				zlog.Logger.Warn().Err(err).Str("owner_id", c.ownerID).Msg("write failed, dropping connection")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
