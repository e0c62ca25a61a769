package stream

import (
	"sync"

	"auction-escrow/utils"
)

// Hub fans accepted auction events out to WebSocket subscribers. It is
// purely an observability surface: the auction core never reads from it
// and a slow or absent subscriber cannot affect any operation.
type Hub struct {
	subscribers sync.Map // auctionID -> *sync.Map of *Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage
}

type broadcastMessage struct {
	auctionID string
	payload   []byte
}

// NewHub creates a hub; Run must be started in a goroutine before use.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMessage, 256),
	}
}

// Run drives the hub's register/unregister/broadcast loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.broadcastToAuction(msg.auctionID, msg.payload)
		}
	}
}

// Register subscribes a client to its auction's event feed.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister drops a client and closes its connection.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues a payload for every subscriber of the auction.
// Safe to call on a nil hub: the event feed is optional.
func (h *Hub) Broadcast(auctionID string, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- &broadcastMessage{auctionID: auctionID, payload: payload}:
	default:
		utils.Warn("event broadcast queue full, dropping payload", map[string]any{
			"auction_id": auctionID,
		})
	}
}

func (h *Hub) addClient(client *Client) {
	subscribers, _ := h.subscribers.LoadOrStore(client.AuctionID, &sync.Map{})
	subscribers.(*sync.Map).Store(client, true)

	utils.Info("stream client subscribed", map[string]any{
		"client_id":  client.ID,
		"auction_id": client.AuctionID,
	})

	go client.writePump()
}

// removeClient is idempotent: a client can be delivered twice, once by
// the slow-drop path and once by its own read pump noticing the closed
// connection. Only the delivery that actually removes the client from
// the subscriber set tears it down.
func (h *Hub) removeClient(client *Client) {
	subscribers, ok := h.subscribers.Load(client.AuctionID)
	if !ok {
		return
	}
	if _, present := subscribers.(*sync.Map).LoadAndDelete(client); !present {
		return
	}

	close(client.send)
	client.conn.Close()

	utils.Info("stream client unsubscribed", map[string]any{
		"client_id":  client.ID,
		"auction_id": client.AuctionID,
	})
}

func (h *Hub) broadcastToAuction(auctionID string, payload []byte) {
	subscribers, ok := h.subscribers.Load(auctionID)
	if !ok {
		return
	}

	subscribers.(*sync.Map).Range(func(key, _ any) bool {
		client := key.(*Client)
		select {
		case client.send <- payload:
		default:
			// The client's send buffer is full; drop them so one slow
			// reader cannot back up the feed.
			go h.Unregister(client)
		}
		return true
	})
}

// SubscriberCount returns how many clients watch the auction.
func (h *Hub) SubscriberCount(auctionID string) int {
	subscribers, ok := h.subscribers.Load(auctionID)
	if !ok {
		return 0
	}
	count := 0
	subscribers.(*sync.Map).Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
