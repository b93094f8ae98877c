package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return &Client{send: make(chan Event, sendBuffer)}
}

func drain(c *Client) []Event {
	events := make([]Event, 0)
	for {
		select {
		case e := <-c.send:
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestHub_PublishReachesEveryConnectionInRoom(t *testing.T) {
	hub := NewHub()
	phone := testClient()
	laptop := testClient()
	other := testClient()

	// Two devices of the same account share one room.
	hub.Join("alice", phone)
	hub.Join("alice", laptop)
	hub.Join("bob", other)

	hub.Publish("alice", Event{Name: "private-message", Data: "hi"})

	require.Len(t, drain(phone), 1)
	require.Len(t, drain(laptop), 1)
	assert.Empty(t, drain(other))
}

func TestHub_RemoveLeavesEveryRoom(t *testing.T) {
	hub := NewHub()
	c := testClient()
	hub.Join("alice", c)
	hub.Join(GroupRoom, c)

	assert.Equal(t, 1, hub.RoomSize("alice"))
	assert.Equal(t, 1, hub.RoomSize(GroupRoom))

	hub.Remove(c)

	assert.Equal(t, 0, hub.RoomSize("alice"))
	assert.Equal(t, 0, hub.RoomSize(GroupRoom))

	hub.Publish("alice", Event{Name: "private-message", Data: "hi"})
	assert.Empty(t, drain(c))
}

func TestHub_DuplicateJoinIsNoOp(t *testing.T) {
	hub := NewHub()
	c := testClient()
	hub.Join(GroupRoom, c)
	hub.Join(GroupRoom, c)

	assert.Equal(t, 1, hub.RoomSize(GroupRoom))
	hub.Publish(GroupRoom, Event{Name: "group-message", Data: "hello"})
	assert.Len(t, drain(c), 1)
}

func TestHub_SlowClientDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	slow := &Client{send: make(chan Event)} // no buffer, nobody reading
	ok := testClient()
	hub.Join(GroupRoom, slow)
	hub.Join(GroupRoom, ok)

	// Must return instead of blocking on the slow connection.
	hub.Publish(GroupRoom, Event{Name: "group-message", Data: "hello"})

	assert.Len(t, drain(ok), 1)
}
