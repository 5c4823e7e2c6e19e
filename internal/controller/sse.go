package controller

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

const clientBuffer = 8

// Hub fans the price topic out to every connected stream. Slow clients
// drop messages rather than stall the topic.
type Hub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
	last    []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan []byte]struct{})}
}

// Broadcast has the pub/sub handler signature so the hub can sit behind
// a subscriber.
func (h *Hub) Broadcast(msg []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = msg
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// subscribe registers a client; the latest message, if any, is queued
// first.
func (h *Hub) subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)

	h.mu.Lock()
	if h.last != nil {
		ch <- h.last
	}
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// SSEPrices godoc
// @Summary Stream live prices
// @Description Server-Sent Events with {"prices":{...},"status":"..."} payloads
// @Tags prices
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /api/prices/stream [get]
func SSEPrices(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		ch, unsubscribe := hub.subscribe()
		defer unsubscribe()

		c.Stream(func(w io.Writer) bool {
			select {
			case msg := <-ch:
				c.SSEvent("prices", string(msg))
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
