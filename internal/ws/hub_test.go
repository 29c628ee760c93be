package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.Send:
		return ev
	default:
		t.Fatal("expected a buffered event")
		return Event{}
	}
}

func TestPublishMessageReachesRoomIncludingSender(t *testing.T) {
	h := NewHub()

	a := h.Register(1)
	b := h.Register(2)
	h.Join(a, 7)
	h.Join(b, 7)

	h.PublishMessage(7, "hello")

	for _, c := range []*Client{a, b} {
		ev := recv(t, c)
		assert.Equal(t, EventNewMessage, ev.Type)
		assert.Equal(t, uint(7), ev.StoneID)
		assert.Equal(t, "hello", ev.Data)
	}
}

func TestPublishIsScopedToRoom(t *testing.T) {
	h := NewHub()

	in := h.Register(1)
	out := h.Register(2)
	h.Join(in, 7)
	h.Join(out, 8)

	h.PublishStatusChange(7, "moved")

	ev := recv(t, in)
	assert.Equal(t, EventStoneUpdated, ev.Type)
	assert.Empty(t, out.Send)
}

func TestPublishToEmptyRoom(t *testing.T) {
	h := NewHub()
	// nobody listening; must not panic or error
	h.PublishMessage(42, "into the void")
}

func TestLeaveIsIdempotent(t *testing.T) {
	h := NewHub()

	c := h.Register(1)
	h.Join(c, 7)
	h.Leave(c, 7)
	h.Leave(c, 7)
	h.Leave(c, 99) // never joined

	h.PublishMessage(7, "gone")
	assert.Empty(t, c.Send)
}

func TestUnregisterLeavesAllRooms(t *testing.T) {
	h := NewHub()

	c := h.Register(1)
	h.Join(c, 1)
	h.Join(c, 2)
	h.Unregister(c)
	h.Unregister(c) // safe to repeat

	h.PublishMessage(1, "x")
	h.PublishMessage(2, "y")
	assert.Empty(t, c.Send)

	// joining after unregister is ignored
	h.Join(c, 3)
	h.PublishMessage(3, "z")
	assert.Empty(t, c.Send)
}

func TestSlowClientDropsEvents(t *testing.T) {
	h := NewHub()

	c := h.Register(1)
	h.Join(c, 7)

	for i := 0; i < cap(c.Send)+10; i++ {
		h.PublishMessage(7, i)
	}

	// buffer filled, overflow dropped, publisher never blocked
	require.Len(t, c.Send, cap(c.Send))
	assert.Equal(t, 0, recv(t, c).Data)
}

func TestClientIdentity(t *testing.T) {
	h := NewHub()

	a := h.Register(5)
	b := h.Register(5)
	assert.Equal(t, uint(5), a.UserID)
	assert.NotEqual(t, a.ID, b.ID, "each connection gets its own id")
}
