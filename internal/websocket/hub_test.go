package websocket

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID string) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan *Message, 1),
		userID: userID,
	}
}

func TestReconnectReplacesClient(t *testing.T) {
	hub := NewHub()

	oldClient := newTestClient(hub, "u1")
	newClient := newTestClient(hub, "u1")

	hub.registerClient(oldClient)
	hub.registerClient(newClient)

	// Replacing closes the superseded connection's send channel.
	_, open := <-oldClient.send
	require.False(t, open)

	// The old connection's read pump still unregisters its own client once
	// the socket drops; that must not tear down the fresh registration.
	hub.unregisterClient(oldClient)

	hub.mu.RLock()
	current, exists := hub.clients["u1"]
	hub.mu.RUnlock()
	require.True(t, exists)
	require.Same(t, newClient, current)

	// Events keep flowing to the fresh connection.
	hub.dispatch(&Message{UserID: "u1", Type: EventMatchFound})
	select {
	case msg := <-newClient.send:
		require.Equal(t, EventMatchFound, msg.Type)
	default:
		t.Fatal("expected event on the new connection")
	}

	// A genuine disconnect of the current connection still unregisters.
	hub.unregisterClient(newClient)

	hub.mu.RLock()
	_, exists = hub.clients["u1"]
	hub.mu.RUnlock()
	require.False(t, exists)
}

func TestUnregisterUnknownClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "u2")

	// Never registered; must be a no-op and leave the channel open.
	hub.unregisterClient(client)

	select {
	case <-client.send:
		t.Fatal("send channel should remain open")
	default:
	}
}
