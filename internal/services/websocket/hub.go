// Package websocket pushes job lifecycle events to connected admin clients.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/DLXHub/API/internal/services/jobs"
)

// Conn is the subset of *websocket.Conn the hub uses.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Hub struct {
	clients    map[Conn]bool
	broadcast  chan []byte
	register   chan Conn
	unregister chan Conn
	mutex      sync.RWMutex
}

var JobHub *Hub

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan Conn),
		unregister: make(chan Conn),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			conns := make([]Conn, 0, len(h.clients))
			for client := range h.clients {
				conns = append(conns, client)
			}
			h.mutex.RUnlock()

			// Failed clients are dropped here rather than via the
			// unregister channel, whose only receiver is this loop.
			for _, client := range conns {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client Conn) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.Close()
	}
	h.mutex.Unlock()
}

// PublishJobEvent satisfies jobs.EventSink. Events are dropped when the
// broadcast buffer is full so the job runner never blocks on slow clients.
func (h *Hub) PublishJobEvent(event jobs.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

func (h *Hub) Register(conn Conn) {
	h.register <- conn
}

func (h *Hub) Unregister(conn Conn) {
	h.unregister <- conn
}

// HandleWebSocket keeps a client connection open until it disconnects;
// clients only receive, incoming frames are discarded.
func HandleWebSocket(c *websocket.Conn) {
	JobHub.Register(c)
	defer JobHub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

func InitHub() {
	JobHub = NewHub()
	go JobHub.Run()
}
