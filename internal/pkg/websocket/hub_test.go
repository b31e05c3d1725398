package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhb/achievehub/internal/app/models"
)

// dialTestConn opens a real websocket connection against a throwaway server
// whose handler just holds the connection open.
func dialTestConn(t *testing.T) *websocket.Conn {
	t.Helper()

	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		<-done
		conn.Close()
	}))
	t.Cleanup(func() {
		close(done)
		srv.Close()
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newTestClient(t *testing.T, hub *Hub, userID int64, sendBuffer int) *Client {
	return &Client{
		hub:    hub,
		conn:   dialTestConn(t),
		send:   make(chan []byte, sendBuffer),
		userID: userID,
		logger: zerolog.Nop(),
	}
}

func TestPublishDeliversToRecipient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	client := newTestClient(t, hub, 42, 16)
	hub.register <- client

	require.Eventually(t, func() bool { return hub.ConnectionCount(42) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(42, &models.Notification{ID: 7, UserID: 42, Message: "approved"})

	select {
	case data := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "notification", event.Kind)
		assert.Equal(t, int64(42), event.UserID)
		assert.Equal(t, "approved", event.Notification.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the client's send channel")
	}

	// Other recipients receive nothing
	other := newTestClient(t, hub, 99, 16)
	hub.register <- other
	hub.Publish(42, &models.Notification{ID: 8, UserID: 42})
	<-client.send
	assert.Empty(t, other.send)
}

func TestDeliverDropsStaleClientAndKeepsServing(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	// No buffer and no running writePump: the first delivery attempt fails
	// and must evict the client without stalling the hub loop.
	stale := newTestClient(t, hub, 42, 0)
	hub.register <- stale
	require.Eventually(t, func() bool { return hub.ConnectionCount(42) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(42, &models.Notification{ID: 1, UserID: 42, Message: "hello"})

	// The hub must still accept registrations after hitting the stale client
	fresh := newTestClient(t, hub, 42, 16)
	select {
	case hub.register <- fresh:
	case <-time.After(2 * time.Second):
		t.Fatal("hub stopped accepting registrations after a stale client")
	}

	// The stale connection is gone, the fresh one stays reachable
	require.Eventually(t, func() bool { return hub.ConnectionCount(42) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(42, &models.Notification{ID: 2, UserID: 42, Message: "still here"})
	select {
	case <-fresh.send:
	case <-time.After(2 * time.Second):
		t.Fatal("fresh client never received an event after the stale one was dropped")
	}

	// Eviction closed the stale client's send channel
	select {
	case _, open := <-stale.send:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("stale client's send channel was not closed")
	}
}

func TestPublishNeverBlocksWhenQueueIsFull(t *testing.T) {
	// Hub not running: the events queue fills up and further publishes must
	// drop instead of blocking the caller.
	hub := NewHub(zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.events)+10; i++ {
			hub.Publish(1, &models.Notification{ID: int64(i), UserID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full event queue")
	}
}
