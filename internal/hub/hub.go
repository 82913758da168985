// Package hub streams server events to browsers over SSE.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// client is one connected SSE stream
type client struct {
	events chan []byte
}

// Hub fans server events out to connected SSE clients
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	// done is closed when Run exits so handlers never block on the
	// register/unregister channels afterwards
	done chan struct{}
}

// New creates a hub. Run must be called before serving clients.
func New() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.events)
			}
			close(h.done)
			return
		case c := <-h.register:
			h.clients[c] = true
			log.Printf("SSE client connected (%d active)", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.events)
				log.Printf("SSE client disconnected (%d active)", len(h.clients))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.events <- msg:
				default:
					// Drop for slow clients rather than block the hub
				}
			}
		}
	}
}

// Broadcast sends a JSON-encoded payload to all connected clients
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("hub: failed to marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// ServeHTTP streams events to one client until it disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := &client{events: make(chan []byte, 16)}
	select {
	case h.register <- c:
	case <-h.done:
		return
	}
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
