package debugserver

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"walk3d/internal/world"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 32
)

// Hub keeps the latest frame snapshot and fans every published frame out
// to the websocket clients. The simulation only ever hands it finished
// snapshots.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]bool
	last     *world.Snapshot
	lastData []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// Publish stores s as the latest snapshot and queues it for every client.
// Clients that fall behind miss frames rather than stall the caller.
func (h *Hub) Publish(s *world.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = s
	h.lastData = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

// Latest returns the last published snapshot, or nil before the first one.
func (h *Hub) Latest() *world.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = true
	if h.lastData != nil {
		c.send <- h.lastData
	}
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *client) writePump() {
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
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[debug] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[debug] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump only drains control frames so closes are noticed.
func (c *client) readPump() {
	defer c.hub.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
