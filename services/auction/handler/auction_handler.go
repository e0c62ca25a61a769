package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"auction-escrow/internal/models"
	"auction-escrow/services/auction/helpers"
	"auction-escrow/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CallerContextKey is where the auth middleware stores the
// authenticated caller identity on the request context.
const CallerContextKey = "caller"

type AuctionServiceInterface interface {
	CreateAuction(owner, ownerContact string, duration time.Duration, pricing models.Pricing, mode models.Mode, item models.Item) (models.AuctionSnapshot, error)
	PlaceBid(ctx context.Context, auctionID, caller string, amount decimal.Decimal) (models.AuctionSnapshot, error)
	Buyout(ctx context.Context, auctionID, caller string, amount decimal.Decimal) (models.AuctionSnapshot, error)
	EndAuction(auctionID, caller string) (models.AuctionSnapshot, error)
	CancelAuction(auctionID, caller string) (models.AuctionSnapshot, error)
	WithdrawBid(ctx context.Context, auctionID, caller string) (decimal.Decimal, error)
	ClaimWinnings(ctx context.Context, auctionID, caller string) (decimal.Decimal, error)
	GetAuction(auctionID string) (models.AuctionSnapshot, error)
	ListAuctions() []models.AuctionSnapshot
	GetEvents(auctionID string) ([]models.Event, error)
	GetEscrow(auctionID, caller string) (decimal.Decimal, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// caller returns the authenticated identity placed by the auth middleware.
func caller(c *gin.Context) string {
	return c.GetString(CallerContextKey)
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	snap, err := h.service.CreateAuction(
		caller(c),
		req.OwnerContact,
		time.Duration(req.DurationSeconds)*time.Second,
		models.Pricing{
			StartingBid:  req.StartingBid,
			BidIncrement: req.BidIncrement,
			SellingPrice: req.SellingPrice,
		},
		models.Mode(req.Mode),
		models.Item{
			Name:        req.Item.Name,
			Condition:   req.Item.Condition,
			Description: req.Item.Description,
			ImageRef:    req.Item.ImageRef,
		},
	)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"owner": caller(c),
			"error": err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, snap, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": snap.ID,
		"owner":      snap.Owner,
		"mode":       snap.Mode,
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	auctionID := c.Param("auction_id")
	snap, err := h.service.PlaceBid(c.Request.Context(), auctionID, caller(c), req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("PlaceBidHandler: bid rejected", map[string]any{
			"auction_id": auctionID,
			"caller":     caller(c),
			"amount":     req.Amount.String(),
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, snap, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"auction_id": auctionID,
		"caller":     caller(c),
		"amount":     req.Amount.String(),
		"bid_count":  snap.BidCount,
	})
}

// BuyoutHandler handles POST /auctions/:auction_id/buyout
func (h *AuctionHandler) BuyoutHandler(c *gin.Context) {
	var req helpers.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "BuyoutHandler", err)
		return
	}

	auctionID := c.Param("auction_id")
	snap, err := h.service.Buyout(c.Request.Context(), auctionID, caller(c), req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BuyoutHandler: buyout rejected", map[string]any{
			"auction_id": auctionID,
			"caller":     caller(c),
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, snap, "item sold")
	helpers.LogSuccess("BuyoutHandler", "item sold", map[string]any{
		"auction_id": auctionID,
		"purchaser":  snap.Purchaser,
	})
}

// EndAuctionHandler handles POST /auctions/:auction_id/end
func (h *AuctionHandler) EndAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	snap, err := h.service.EndAuction(auctionID, caller(c))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("EndAuctionHandler: end rejected", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, snap, "auction ended")
	helpers.LogSuccess("EndAuctionHandler", "auction ended", map[string]any{"auction_id": auctionID})
}

// CancelAuctionHandler handles POST /auctions/:auction_id/cancel
func (h *AuctionHandler) CancelAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	snap, err := h.service.CancelAuction(auctionID, caller(c))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CancelAuctionHandler: cancel rejected", map[string]any{
			"auction_id": auctionID,
			"caller":     caller(c),
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, snap, "auction cancelled")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled", map[string]any{"auction_id": auctionID})
}

// WithdrawBidHandler handles POST /auctions/:auction_id/withdrawal
func (h *AuctionHandler) WithdrawBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	amount, err := h.service.WithdrawBid(c.Request.Context(), auctionID, caller(c))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("WithdrawBidHandler: withdrawal rejected", map[string]any{
			"auction_id": auctionID,
			"caller":     caller(c),
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.PayoutResponse{AuctionID: auctionID, Caller: caller(c), Amount: amount}
	utils.JSONResponse(c, http.StatusOK, resp, "escrow withdrawn successfully")
	helpers.LogSuccess("WithdrawBidHandler", "escrow withdrawn successfully", map[string]any{
		"auction_id": auctionID,
		"caller":     caller(c),
		"amount":     amount.String(),
	})
}

// ClaimWinningsHandler handles POST /auctions/:auction_id/claim
func (h *AuctionHandler) ClaimWinningsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	amount, err := h.service.ClaimWinnings(c.Request.Context(), auctionID, caller(c))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ClaimWinningsHandler: claim rejected", map[string]any{
			"auction_id": auctionID,
			"caller":     caller(c),
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.PayoutResponse{AuctionID: auctionID, Caller: caller(c), Amount: amount}
	utils.JSONResponse(c, http.StatusOK, resp, "winnings claimed successfully")
	helpers.LogSuccess("ClaimWinningsHandler", "winnings claimed successfully", map[string]any{
		"auction_id": auctionID,
		"amount":     amount.String(),
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	list := h.service.ListAuctions()
	utils.JSONResponse(c, http.StatusOK, list, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	snap, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}
	utils.JSONResponse(c, http.StatusOK, snap, "auction retrieved successfully")
}

// GetEventsHandler handles GET /auctions/:auction_id/events
func (h *AuctionHandler) GetEventsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	events, err := h.service.GetEvents(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	utils.JSONResponse(c, http.StatusOK, events, "events retrieved successfully")
}

// GetEscrowHandler handles GET /auctions/:auction_id/escrow
func (h *AuctionHandler) GetEscrowHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	balance, err := h.service.GetEscrow(auctionID, caller(c))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	resp := helpers.EscrowResponse{AuctionID: auctionID, Participant: caller(c), Balance: balance}
	utils.JSONResponse(c, http.StatusOK, resp, "escrow retrieved successfully")
}
