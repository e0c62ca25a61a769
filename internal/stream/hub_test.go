package stream

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// newStreamServer runs a hub behind a test HTTP endpoint that subscribes
// each connection to the auction named in the URL path.
func newStreamServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	go hub.Run()

	var clientSeq int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auctionID := strings.TrimPrefix(r.URL.Path, "/")
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		clientSeq++
		client := NewClient(fmt.Sprintf("client_%d", clientSeq), auctionID, conn)
		hub.Register(client)
		client.StartReadPump(hub)
	}))
	t.Cleanup(server.Close)

	return hub, server
}

func dialStream(t *testing.T, server *httptest.Server, auctionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/" + auctionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastReachesSubscribers(t *testing.T) {
	hub, server := newStreamServer(t)

	first := dialStream(t, server, "a1")
	second := dialStream(t, server, "a1")
	other := dialStream(t, server, "a2")

	require.Eventually(t, func() bool {
		return hub.SubscriberCount("a1") == 2 && hub.SubscriberCount("a2") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast("a1", []byte(`{"kind":"bid_placed"}`))

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		require.JSONEq(t, `{"kind":"bid_placed"}`, string(payload))
	}

	// The a2 subscriber sees nothing.
	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	require.Error(t, err)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, server := newStreamServer(t)

	conn := dialStream(t, server, "a1")
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("a1") == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.SubscriberCount("a1") == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub, server := newStreamServer(t)

	// This subscriber never reads, so its connection and send buffer
	// back up until the hub drops it.
	dialStream(t, server, "a1")
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("a1") == 1
	}, time.Second, 10*time.Millisecond)

	// Large payloads fill the socket and then the 64-slot send buffer.
	// Overfilling triggers the drop path and, through the closed
	// connection, a second unregister from the read pump; both
	// deliveries must be survived.
	payload := make([]byte, 1<<16)
	for i := 0; i < 256; i++ {
		hub.Broadcast("a1", payload)
	}

	require.Eventually(t, func() bool {
		return hub.SubscriberCount("a1") == 0
	}, 5*time.Second, 10*time.Millisecond)

	// The hub keeps serving new subscribers after the drop.
	conn := dialStream(t, server, "a2")
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("a2") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast("a2", []byte(`{"kind":"ended"}`))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, got, err := conn.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"ended"}`, string(got))
}

func TestBroadcastWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Neither an unknown auction nor a nil hub may panic.
	hub.Broadcast("nobody-home", []byte("payload"))

	var absent *Hub
	absent.Broadcast("a1", []byte("payload"))
}
