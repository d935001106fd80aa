// Package sse pushes reload notifications to open public post pages.
package sse

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/rs/zerolog"
)

var sseLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	sseLogger = l
}

const EventReload = "reload"

type Client struct {
	Msg    chan string
	PostID model.PostID
}

// Hub tracks the subscribers of each post. Slow clients miss messages
// instead of blocking the broadcaster.
type Hub struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Subscribe(postID model.PostID) *Client {
	c := &Client{Msg: make(chan string, 1), PostID: postID}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	return c
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Msg)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every subscriber of postID and returns how many
// clients received it.
func (h *Hub) Broadcast(postID model.PostID, msg string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for c := range h.clients {
		if c.PostID != postID {
			continue
		}
		select {
		case c.Msg <- msg:
			sent++
		default:
		}
	}
	return sent
}

// NotifyChanged tells open pages of postID to reload.
func (h *Hub) NotifyChanged(postID model.PostID) {
	n := h.Broadcast(postID, EventReload)
	sseLogger.Debug().Str("post_id", string(postID)).Int("clients", n).Msg("Sent reload")
}

// ServeHTTP streams events for the post named by the post query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("post")
	if postID == "" {
		http.Error(w, "Post parameter required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", postID)
	flusher.Flush()

	c := h.Subscribe(model.PostID(postID))
	sseLogger.Debug().Str("post_id", postID).Msg("SSE client connected")
	defer func() {
		h.Unsubscribe(c)
		sseLogger.Debug().Str("post_id", postID).Msg("SSE client disconnected")
	}()

	for {
		select {
		case msg := <-c.Msg:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
