// Package ws is the realtime broadcast hub: a process-wide registry of
// room subscriptions keyed by stone, fanning chat messages and status
// updates out to connected clients. Delivery is best-effort only; the
// database stays the source of truth and no mutation ever depends on a
// broadcast arriving.
package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	EventNewMessage   = "new-message"
	EventStoneUpdated = "stone-updated"
)

type Event struct {
	Type    string      `json:"type"`
	StoneID uint        `json:"stone_id"`
	Data    interface{} `json:"data"`
}

type Client struct {
	ID     uuid.UUID
	UserID uint
	Send   chan Event
}

// Hub must be constructed once per process and shared across requests;
// a per-request hub would lose all room membership.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	// reverse index so a disconnect can leave every room the client
	// joined without the caller tracking them
	joined map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:  map[string]map[*Client]struct{}{},
		joined: map[*Client]map[string]struct{}{},
	}
}

func roomKey(stoneID uint) string {
	return fmt.Sprintf("stone-%d", stoneID)
}

func (h *Hub) Register(userID uint) *Client {
	c := &Client{
		ID:     uuid.New(),
		UserID: userID,
		Send:   make(chan Event, 64),
	}

	h.mu.Lock()
	h.joined[c] = map[string]struct{}{}
	h.mu.Unlock()

	return c
}

// Unregister removes the client from every room it joined. Safe to call
// more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.joined[c] {
		h.dropLocked(c, room)
	}
	delete(h.joined, c)
}

func (h *Hub) Join(c *Client, stoneID uint) {
	room := roomKey(stoneID)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, known := h.joined[c]; !known {
		return // already unregistered
	}
	if h.rooms[room] == nil {
		h.rooms[room] = map[*Client]struct{}{}
	}
	h.rooms[room][c] = struct{}{}
	h.joined[c][room] = struct{}{}
}

// Leave is idempotent; leaving a room the client never joined is a no-op.
func (h *Hub) Leave(c *Client, stoneID uint) {
	room := roomKey(stoneID)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(c, room)
	if set, ok := h.joined[c]; ok {
		delete(set, room)
	}
}

func (h *Hub) dropLocked(c *Client, room string) {
	if set, ok := h.rooms[room]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, room)
		}
	}
}

// PublishMessage fans a new chat message out to the stone's room,
// sender included.
func (h *Hub) PublishMessage(stoneID uint, data interface{}) {
	h.publish(stoneID, Event{Type: EventNewMessage, StoneID: stoneID, Data: data})
}

// PublishStatusChange fans a status update out to the stone's room.
func (h *Hub) PublishStatusChange(stoneID uint, data interface{}) {
	h.publish(stoneID, Event{Type: EventStoneUpdated, StoneID: stoneID, Data: data})
}

func (h *Hub) publish(stoneID uint, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomKey(stoneID)] {
		select {
		case c.Send <- ev:
		default:
			// slow client, drop the event
		}
	}
}

// Serve drains the client's Send channel onto the connection and keeps
// it alive with periodic pings. Blocks until ctx is done.
func (c *Client) Serve(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.Send:
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, conn, ev)
			cancel()
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = conn.Ping(pingCtx)
			cancel()
		}
	}
}
