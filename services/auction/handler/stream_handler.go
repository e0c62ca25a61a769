package handler

import (
	"net/http"

	"auction-escrow/internal/stream"
	"auction-escrow/services/auction/helpers"
	"auction-escrow/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is public, read-only data.
	CheckOrigin: func(*http.Request) bool { return true },
}

type StreamHandler struct {
	service AuctionServiceInterface
	hub     *stream.Hub
}

func NewStreamHandler(service AuctionServiceInterface, hub *stream.Hub) *StreamHandler {
	return &StreamHandler{service: service, hub: hub}
}

// EventsStreamHandler handles GET /auctions/:auction_id/stream and
// upgrades the connection to a live feed of accepted operations.
func (h *StreamHandler) EventsStreamHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	if _, err := h.service.GetAuction(auctionID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("EventsStreamHandler: upgrade failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	client := stream.NewClient(utils.GenerateID(), auctionID, conn)
	h.hub.Register(client)
	client.StartReadPump(h.hub)
}
