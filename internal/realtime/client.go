package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSClient adapts one gorilla websocket connection to the hub's Client
// interface. Outbound events flow through the send channel consumed by
// writePump; inbound frames are read only to keep the connection's
// deadlines honest; no client-to-server events are part of the contract.
type WSClient struct {
	userID    uint64
	conn      *websocket.Conn
	hub       *Hub
	send      chan Event
	closeOnce sync.Once
}

func NewWSClient(hub *Hub, conn *websocket.Conn, userID uint64) *WSClient {
	return &WSClient{
		userID: userID,
		conn:   conn,
		hub:    hub,
		send:   make(chan Event, 32),
	}
}

func (c *WSClient) UserID() uint64          { return c.userID }
func (c *WSClient) SendChannel() chan Event { return c.send }

// Close closes the send channel, which stops writePump and with it the
// underlying connection. Safe to call more than once.
func (c *WSClient) Close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Run starts the read and write pumps. It returns immediately; the pumps
// own the connection from here on.
func (c *WSClient) Run() {
	go c.writePump()
	go c.readPump()
}

// readPump drains inbound frames and discards them. Its real job is the
// pong handler and detecting the peer going away: on any read error the
// client unregisters itself and the connection dies.
func (c *WSClient) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("realtime: read error for user %d: %v", c.userID, err)
			}
			return
		}
	}
}

// writePump serializes events from the send channel onto the wire and
// keeps the connection alive with periodic pings.
func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the hub or Close; tell the peer goodbye.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("realtime: encode event for user %d: %v", c.userID, err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
