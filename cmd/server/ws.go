package main

import (
	"net/http"
	"time"

	"github.com/Bytewerk/spn-gameserver/pkg/logger"

	"github.com/gorilla/websocket"
)

// Connection tuning, adapted from the teacher's internal/server/client.go.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// viewerClient is a read-only viewer session: it receives the serialized
// event stream and never sends commands back, since the core's controller
// input comes from bot.Controller, not from viewers (spec.md §1).
type viewerClient struct {
	viewerKey uint64
	conn      *websocket.Conn
	send      chan []byte
	hub       *hub
}

func (c *viewerClient) readPump() {
	defer func() {
		c.hub.unregister(c.viewerKey)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Viewers send nothing meaningful; this loop only exists to notice
		// the connection closing and to service pong control frames.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Component("transport").WithError(err).WithField("viewer", c.viewerKey).Warn("websocket read error")
			}
			return
		}
	}
}

func (c *viewerClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
