// internal/server/conn.go
package server

import (
	log "github.com/sirupsen/logrus"
)

// Conn is a single live connection: the server-assigned id that doubles as
// the player id, and the outbound queue drained by the connection's write
// pump. Lobby connections watch occupancy only and never hold a player.
type Conn struct {
	ID    string
	Lobby bool
	Out   chan interface{}
}

// Write queues msg without blocking. Broadcasting is fire-and-forget: a
// full or closed queue drops the message and logs it.
func (c *Conn) Write(msg interface{}) {
	select {
	case c.Out <- msg:
	default:
		log.Warnf("conn %s: out channel full or closed, dropping message", c.ID)
	}
}
