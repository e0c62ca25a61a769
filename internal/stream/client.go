package stream

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Client is one WebSocket subscriber of an auction's event feed.
type Client struct {
	ID        string
	AuctionID string

	conn *websocket.Conn
	send chan []byte
}

// NewClient wraps an upgraded connection for the given auction.
func NewClient(id, auctionID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:        id,
		AuctionID: auctionID,
		conn:      conn,
		send:      make(chan []byte, 64),
	}
}

// StartReadPump consumes (and discards) client frames so pings and
// close frames are processed; it unregisters the client on any error.
func (c *Client) StartReadPump(h *Hub) {
	go func() {
		defer h.Unregister(c)

		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.conn.SetPongHandler(func(string) error {
			c.conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		for {
			if _, _, err := c.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// writePump pushes queued payloads to the connection with a ping keepalive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
