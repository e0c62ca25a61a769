package helpers

import (
	"github.com/shopspring/decimal"
)

// Request/Response DTOs
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type ItemPayload struct {
	Name        string `json:"name" binding:"required"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	ImageRef    string `json:"image_ref"`
}

type CreateAuctionRequest struct {
	OwnerContact    string          `json:"owner_contact"`
	DurationSeconds int64           `json:"duration_seconds" binding:"required,gt=0"`
	StartingBid     decimal.Decimal `json:"starting_bid"`
	BidIncrement    decimal.Decimal `json:"bid_increment"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	Mode            string          `json:"mode" binding:"required"`
	Item            ItemPayload     `json:"item" binding:"required"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type PayoutResponse struct {
	AuctionID string          `json:"auction_id"`
	Caller    string          `json:"caller"`
	Amount    decimal.Decimal `json:"amount"`
}

type EscrowResponse struct {
	AuctionID   string          `json:"auction_id"`
	Participant string          `json:"participant"`
	Balance     decimal.Decimal `json:"balance"`
}
