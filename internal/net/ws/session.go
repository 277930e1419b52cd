// Package ws runs the websocket read loop for one client connection.
package ws

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"jigsaw-party/server"
)

// Handler coordinates websocket sessions against the hub.
type Handler struct {
	hub    *server.Hub
	logger zerolog.Logger
}

// NewHandler constructs a websocket session handler for the given hub.
func NewHandler(hub *server.Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// Serve connects the client to its game and pumps incoming frames until
// the connection drops. The hub has already written an ERROR frame when
// Connect fails, so the only cleanup left here is closing the socket.
func (h *Handler) Serve(ctx context.Context, gameID, clientID, password string, conn *websocket.Conn) {
	if h == nil || h.hub == nil || conn == nil {
		return
	}

	sess, err := h.hub.Connect(ctx, gameID, clientID, password, conn)
	if err != nil {
		h.logger.Debug().Err(err).Str("game", gameID).Str("client", clientID).Msg("connect rejected")
		conn.Close()
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			sess.Close()
			conn.Close()
			return
		}
		sess.HandleMessage(ctx, payload)
	}
}
