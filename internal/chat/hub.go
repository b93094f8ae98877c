package chat

import (
	"log"
	"sync"
)

// GroupRoom is the single shared room every group-chat participant joins.
const GroupRoom = "group"

// Event is one outbound chat event. Name is the client-visible event kind
// (private-message, group-message, error-message).
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// Hub routes events to rooms. A room is keyed by an account id (one private
// room per account, shared by all of that account's connections) or by
// GroupRoom. Membership lives only as long as the connection.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	members map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		members: make(map[*Client]map[string]struct{}),
	}
}

// Join adds a connection to a room. Joining twice is a no-op.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}

	if h.members[c] == nil {
		h.members[c] = make(map[string]struct{})
	}
	h.members[c][room] = struct{}{}
}

// Remove drops a connection from every room it joined. Called on disconnect.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.members[c] {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.members, c)
}

// Publish delivers an event to every connection in a room. A connection that
// cannot keep up has the event dropped rather than blocking the sender.
func (h *Hub) Publish(room string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		select {
		case c.send <- event:
		default:
			log.Printf("⚠️  Dropping %s event for slow connection in room %s", event.Name, room)
		}
	}
}

// RoomSize reports how many connections a room currently has.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
