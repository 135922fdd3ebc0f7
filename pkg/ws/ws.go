// Package ws streams dashboard events to browsers over gorilla/websocket.
//
// Each connection subscribes to one topic (the dashboard session ID); the
// page publishes its state changes to that topic:
//
//	hub := ws.NewHub()
//	go hub.Run(ctx)
//
//	router.Get("/dashboard/ws", "dashboard.ws", func(w http.ResponseWriter, r *http.Request) {
//	    hub.Upgrade(w, r, sessionID)
//	})
//
//	hub.Publish(sessionID, payload)
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

// Client is one connected browser.
type Client struct {
	hub   *Hub
	topic string
	conn  *websocket.Conn
	send  chan []byte
}

// readPump discards inbound frames and keeps the read deadline fresh; the
// dashboard sends its interactions over plain HTTP.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "topic", c.topic, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
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

type envelope struct {
	topic string // "" broadcasts to everyone
	data  []byte
}

// Hub routes published messages to the clients of a topic.
type Hub struct {
	upgrader   websocket.Upgrader
	topics     map[string]map[*Client]struct{}
	publish    chan envelope
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		topics:     make(map[string]map[*Client]struct{}),
		publish:    make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// SetCheckOrigin replaces the origin check. Without one only same-host
// origins may upgrade.
func (h *Hub) SetCheckOrigin(fn func(r *http.Request) bool) { h.upgrader.CheckOrigin = fn }

// Run is the hub event loop. It closes every client when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.topics {
				for c := range clients {
					close(c.send)
				}
			}
			h.topics = map[string]map[*Client]struct{}{}
			return

		case c := <-h.register:
			if h.topics[c.topic] == nil {
				h.topics[c.topic] = make(map[*Client]struct{})
			}
			h.topics[c.topic][c] = struct{}{}
			logger.Debug("ws: client connected", "topic", c.topic)

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.publish:
			for topic, clients := range h.topics {
				if msg.topic != "" && msg.topic != topic {
					continue
				}
				for c := range clients {
					select {
					case c.send <- msg.data:
					default:
						h.drop(c)
					}
				}
			}

		case reply := <-h.count:
			n := 0
			for _, clients := range h.topics {
				n += len(clients)
			}
			reply <- n
		}
	}
}

func (h *Hub) drop(c *Client) {
	clients, ok := h.topics[c.topic]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.topics, c.topic)
	}
	logger.Debug("ws: client disconnected", "topic", c.topic)
}

// Publish queues data for every client of topic. It never blocks; messages
// are dropped when the hub is saturated.
func (h *Hub) Publish(topic string, data []byte) {
	select {
	case h.publish <- envelope{topic: topic, data: data}:
	default:
		logger.Warn("ws: publish queue full, dropping message", "topic", topic)
	}
}

// Broadcast queues data for every client.
func (h *Hub) Broadcast(data []byte) { h.Publish("", data) }

// ClientCount returns the number of connected clients, or 0 once Run has
// returned.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Upgrade upgrades the connection and subscribes it to topic.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request, topic string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("ws: upgrade failed", "error", err)
		return
	}
	c := &Client{hub: h, topic: topic, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}
