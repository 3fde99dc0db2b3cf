package ws

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/api/respond"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients are served from a different origin; session identity
	// arrives pre-authenticated from the web layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to reminder push connections.
type Handler struct {
	hub   *Hub
	proto *Protocol
}

// NewHandler creates the WebSocket upgrade endpoint.
func NewHandler(hub *Hub, proto *Protocol) *Handler {
	return &Handler{hub: hub, proto: proto}
}

// Serve upgrades the request, greets the session and starts its pumps.
func (h *Handler) Serve(c *ginext.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing owner_id"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("owner_id", ownerID).Msg("websocket upgrade failed")
		return
	}

	client := newClient(h.hub, conn, ownerID, h.proto)

	// Queued before registration so it is the first message on the wire.
	client.welcome(time.Now().UTC())

	h.hub.Register(client)

	go client.writePump()
	go client.readPump(context.Background())
}
