// Package ws pushes server events to WebSocket clients grouped by topic.
// The order feed subscribes each seller to the topic of their venue:
//
//	hub := ws.NewHub()
//	hub.Serve(w, r, ws.VenueTopic(venue.ID))   // in the handler
//	hub.Publish(ws.VenueTopic(venueID), msg)    // from an event listener
package ws

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/canteen/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

// VenueTopic names the topic carrying a venue's order events.
func VenueTopic(venueID uint) string { return fmt.Sprintf("venue:%d", venueID) }

type client struct {
	topic string
	conn  *websocket.Conn
	send  chan []byte
	once  sync.Once
}

func (c *client) close() { c.once.Do(func() { close(c.send) }) }

// Hub tracks connected clients per topic. It is safe for concurrent use.
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	topics map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		topics: map[string]map[*client]struct{}{},
	}
}

// SetCheckOrigin replaces the allow-all origin policy.
func (h *Hub) SetCheckOrigin(fn func(*http.Request) bool) { h.upgrader.CheckOrigin = fn }

// Serve upgrades the request and subscribes the connection to topic. It
// returns once the connection is registered; pumps run in the background.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, topic string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("ws: upgrade: %w", err)
	}
	c := &client{topic: topic, conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(c)
	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// Publish delivers data to every client of topic and returns how many got
// it. Slow clients whose buffer is full are disconnected.
func (h *Hub) Publish(topic string, data []byte) int {
	h.mu.RLock()
	var slow []*client
	sent := 0
	for c := range h.topics[topic] {
		select {
		case c.send <- data:
			sent++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.remove(c)
	}
	return sent
}

// Count returns the number of clients on topic.
func (h *Hub) Count(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close disconnects everyone.
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.topics
	h.topics = map[string]map[*client]struct{}{}
	h.mu.Unlock()
	for _, set := range all {
		for c := range set {
			c.close()
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	set, ok := h.topics[c.topic]
	if !ok {
		set = map[*client]struct{}{}
		h.topics[c.topic] = set
	}
	set[c] = struct{}{}
	n := len(set)
	h.mu.Unlock()
	logger.Debug("ws: client subscribed", "topic", c.topic, "clients", n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if set, ok := h.topics[c.topic]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.topics, c.topic)
		}
	}
	h.mu.Unlock()
	c.close()
}

// readPump only services control frames; clients do not send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws: unexpected close", "topic", c.topic, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
