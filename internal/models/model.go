package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an auction. Ongoing is the only
// non-terminal status; once left it is never re-entered.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCancelled Status = "cancelled"
	StatusEnded     Status = "ended"
	StatusSold      Status = "sold"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusEnded || s == StatusSold
}

// Mode selects the bid-acceptance rule set for an auction.
type Mode string

const (
	// ModePublic is an open ascending auction with a single current leader.
	ModePublic Mode = "public"
	// ModePrivate is a sealed-bid auction where each participant evolves
	// their own accumulated total.
	ModePrivate Mode = "private"
)

// Valid reports whether m is a known auction mode.
func (m Mode) Valid() bool {
	return m == ModePublic || m == ModePrivate
}

// Item is the immutable descriptive metadata of the listed item.
type Item struct {
	Name        string `json:"name"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	ImageRef    string `json:"image_ref"` // content-addressed image reference
}

// Pricing holds the monetary parameters fixed at auction creation.
// A zero BidIncrement means no minimum increment; a zero SellingPrice
// means the item cannot be bought outright.
type Pricing struct {
	StartingBid  decimal.Decimal `json:"starting_bid"`
	BidIncrement decimal.Decimal `json:"bid_increment"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// Leader identifies the participant currently positioned to win.
type Leader struct {
	HighestBidder string          `json:"highest_bidder"`
	HighestBid    decimal.Decimal `json:"highest_bid"`
}

// EventKind labels one accepted state change in an auction's event log.
type EventKind string

const (
	EventCreated         EventKind = "created"
	EventBidPlaced       EventKind = "bid_placed"
	EventSold            EventKind = "sold"
	EventEnded           EventKind = "ended"
	EventCancelled       EventKind = "cancelled"
	EventWithdrawal      EventKind = "withdrawal"
	EventWinningsClaimed EventKind = "winnings_claimed"
)

// Event is one append-only record of an accepted operation.
type Event struct {
	Kind      EventKind       `json:"kind"`
	Actor     string          `json:"actor"`
	Amount    decimal.Decimal `json:"amount"`
	Status    Status          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

// AuctionSnapshot is a point-in-time read-only view of an auction.
type AuctionSnapshot struct {
	ID           string          `json:"id"`
	Owner        string          `json:"owner"`
	OwnerContact string          `json:"owner_contact"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Pricing      Pricing         `json:"pricing"`
	Mode         Mode            `json:"mode"`
	Status       Status          `json:"status"`
	Item         Item            `json:"item"`
	Leader       Leader          `json:"leader"`
	Purchaser    string          `json:"purchaser,omitempty"`
	BidCount     int             `json:"bid_count"`
	HeldFunds    decimal.Decimal `json:"held_funds"`
}
