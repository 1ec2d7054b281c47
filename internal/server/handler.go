// internal/server/handler.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mlenda000/dfg-server/internal/protocol"
)

// Subprotocol spoken by the game client.
const Subprotocol = "dfg"

// WSHandler upgrades connections into the session's event stream. A path
// ending in /lobby marks a lobby watcher, which bypasses the player cap and
// the welcome flow; every other connection is a prospective player.
func WSHandler(logger *logrus.Logger, sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr
		isLobby := strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/lobby")

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != Subprotocol {
			c.Close(websocket.StatusCode(BadSubprotocolCode), "client must speak the dfg subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := &Conn{
			ID:    uuid.NewString(),
			Lobby: isLobby,
			Out:   make(chan interface{}, 16),
		}

		if err := sess.Connect(conn); err != nil {
			// The rejected client still gets told why before the close.
			data, _ := json.Marshal(protocol.NewAnnouncement(protocol.RoomFullText))
			_ = c.Write(ctx, websocket.MessageText, data)
			c.Close(websocket.StatusCode(RoomFullCode), "room is full")
			return
		}

		logger.Infof("conn %s (%s) connected, lobby=%v", conn.ID, remoteAddr, isLobby)

		go writePump(ctx, c, conn, logger)
		readPump(ctx, c, sess, conn, logger)

		logger.Infof("conn %s read pump exited, cleaning up", conn.ID)
		sess.Disconnect(conn)
	}
}

// readPump consumes inbound frames until the connection dies. Every frame
// funnels through Session.HandleMessage, which serializes against the rest
// of the party's events.
func readPump(ctx context.Context, c *websocket.Conn, sess *Session, conn *Conn, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		typ, data, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				logger.Infof("conn %s: websocket closed normally", conn.ID)
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("conn %s: read error: %v", conn.ID, err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Warnf("conn %s: ignoring non-text message type %d", conn.ID, typ)
			continue
		}

		sess.HandleMessage(conn, data)
	}
}

// closeRequest, queued on a connection's out channel, tells the write pump to
// close the socket once everything ahead of it has flushed.
type closeRequest struct {
	code   websocket.StatusCode
	reason string
}

// writePump drains the connection's out channel onto the wire and keeps the
// connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, conn *Conn, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.Out:
			if !ok {
				return
			}
			if req, ok := msg.(closeRequest); ok {
				logger.Infof("conn %s: closing: %s", conn.ID, req.reason)
				c.Close(req.code, req.reason)
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("conn %s: failed to marshal outgoing message: %v", conn.ID, err)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("conn %s: write failed: %v", conn.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("conn %s: ping failed, assuming disconnect: %v", conn.ID, err)
				return
			}
		}
	}
}
