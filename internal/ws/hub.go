// Package ws pushes session lifecycle events to connected dashboard clients.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"parklane/internal/service"
)

const (
	writeTimeout   = 5 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 16
)

// client pairs a connection with its outbound queue. The writePump goroutine
// is the sole writer on the connection; everyone else only enqueues.
type client struct {
	conn *websocket.Conn
	send chan service.SessionEvent
}

// Hub fans session events out to websocket subscribers. Publishing never
// blocks: a subscriber whose queue is full loses events instead.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *zap.Logger

	upgrader websocket.Upgrader
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Subscribe upgrades the request and registers the connection until it closes.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan service.SessionEvent, sendBufferSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// Publish enqueues the event for every subscriber.
func (h *Hub) Publish(event service.SessionEvent) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.enqueue(c, event)
	}
}

func (h *Hub) enqueue(c *client, event service.SessionEvent) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Warn("attempted to publish to closed subscriber")
		}
	}()
	select {
	case c.send <- event:
	default:
		h.logger.Warn("dropping event, subscriber buffer full")
	}
}

// Run blocks until ctx is done, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.conn.Close()
		close(c.send)
	}
}

// writePump drains the send queue and owns the keepalive pings, so every
// write on the connection happens on this one goroutine.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(event); err != nil {
				h.logger.Warn("dropping websocket subscriber", zap.Error(err))
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readPump exists only to notice the peer going away.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.conn.Close()
		close(c.send)
	}
}
