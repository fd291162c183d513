package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLogger struct{}

func (stubLogger) Debug(string, string, map[string]interface{}) {}
func (stubLogger) Info(string, string, map[string]interface{})  {}
func (stubLogger) Warn(string, string, map[string]interface{})  {}
func (stubLogger) Error(string, string, map[string]interface{}) {}
func (stubLogger) Sync() error                                  { return nil }

func (h *Hub) clientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func TestHubSendDeliversToRegisteredClient(t *testing.T) {
	hub := NewHub(nil, stubLogger{})
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.clientCount(userID) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Send(userID, "HISTORY_CREATED", map[string]interface{}{"id": "abc"})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), `"type":"HISTORY_CREATED"`)
		assert.Contains(t, string(msg), `"id":"abc"`)
	case <-time.After(time.Second):
		t.Fatal("no message delivered to client")
	}
}

func TestHubSendDropsSlowConsumerWithoutKillingRunLoop(t *testing.T) {
	hub := NewHub(nil, stubLogger{})
	go hub.Run()

	userID := uuid.New()
	slow := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	hub.register <- slow

	require.Eventually(t, func() bool {
		return hub.clientCount(userID) == 1
	}, time.Second, 5*time.Millisecond)

	// First event fills the buffer; the second hits the full-buffer branch
	// and must evict the client exactly once.
	hub.Send(userID, "HISTORY_CREATED", map[string]interface{}{"seq": 1})
	hub.Send(userID, "HISTORY_CREATED", map[string]interface{}{"seq": 2})

	require.Eventually(t, func() bool {
		return hub.clientCount(userID) == 0
	}, time.Second, 5*time.Millisecond)

	// The Send channel is closed by the unregister path, after the buffered
	// message is drained.
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)

	// The run loop must still be serving registrations afterwards.
	fresh := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- fresh

	require.Eventually(t, func() bool {
		return hub.clientCount(userID) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Send(userID, "HISTORY_UPDATED", map[string]interface{}{"seq": 3})

	select {
	case msg := <-fresh.Send:
		assert.Contains(t, string(msg), `"HISTORY_UPDATED"`)
	case <-time.After(time.Second):
		t.Fatal("run loop stopped delivering after evicting a slow consumer")
	}
}
