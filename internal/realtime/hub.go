// Package realtime implements presence tracking and best-effort push
// delivery over websockets. State is process-local and in-memory: it is
// rebuilt from zero on restart and is not shared between server processes
// (an external pub/sub layer would be needed for that).
package realtime

import (
	"log"
	"sync"
	"time"
)

// Event is one server-to-client frame. Data is marshalled as-is.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one live connection belonging to a user. The websocket client
// below implements it; tests substitute mocks.
type Client interface {
	// UserID returns the authenticated user this connection belongs to.
	UserID() uint64
	// SendChannel returns the buffered channel the hub delivers events to.
	SendChannel() chan Event
	// Close shuts the connection down and releases its send channel.
	Close()
}

// Hub is the presence registry: a room per user holding all of that
// user's live connections. It is constructed in main and injected into
// whatever needs to push, never accessed as a package-level singleton.
type Hub struct {
	mu    sync.Mutex
	rooms map[uint64]map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint64]map[Client]struct{})}
}

// Register adds a connection to its user's room, creating the room on
// first connect. A user with several tabs has several clients in one room.
func (h *Hub) Register(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.UserID()]
	if !ok {
		room = make(map[Client]struct{})
		h.rooms[c.UserID()] = room
	}
	room[c] = struct{}{}
}

// Unregister removes a connection. When the last connection of a user
// goes, the room is dropped and the user is offline; no state is kept.
func (h *Hub) Unregister(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.UserID()]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.UserID())
	}
}

// PushToUser delivers ev to every connection in userID's room. Delivery is
// at-most-once and never blocks the caller: a client whose send buffer is
// full is dropped from the room and closed rather than slowing everyone
// down. Zero connections is a silent no-op: the event is simply gone; the
// durable record lives in the conversation store, not here.
func (h *Hub) PushToUser(userID uint64, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[userID]
	if !ok {
		return
	}
	for c := range room {
		select {
		case c.SendChannel() <- ev:
		default:
			log.Printf("realtime: dropping slow client for user %d", userID)
			delete(room, c)
			c.Close()
		}
	}
	if len(room) == 0 {
		delete(h.rooms, userID)
	}
}

// Connections reports how many live connections a user has.
func (h *Hub) Connections(userID uint64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[userID])
}

// pump timing shared by the websocket client.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)
