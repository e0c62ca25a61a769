package auction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-escrow/internal/auctionerrors"
	"auction-escrow/internal/escrow"
	"auction-escrow/internal/models"
	"auction-escrow/internal/payout"

	"github.com/shopspring/decimal"
)

// Config holds the immutable parameters of a new auction.
type Config struct {
	ID           string
	Owner        string
	OwnerContact string
	Duration     time.Duration
	Pricing      models.Pricing
	Mode         models.Mode
	Item         models.Item
}

// Auction is the state machine for one listed item. All mutating
// operations are serialized by the instance mutex and are atomic:
// every precondition failure and every transfer failure aborts the
// whole call with no observable partial state. Ledger mutations always
// commit before any external transfer is issued.
type Auction struct {
	mu sync.Mutex

	id           string
	owner        string
	ownerContact string
	startTime    time.Time
	endTime      time.Time
	pricing      models.Pricing
	mode         models.Mode
	item         models.Item

	status    models.Status
	ledger    *escrow.Ledger
	leader    models.Leader
	purchaser string
	bidCount  int

	// held is the total value the engine currently holds for this
	// auction; sum of ledger balances never exceeds it.
	held decimal.Decimal

	events eventLog
	payer  *payout.Engine
}

// New creates an auction in the ongoing status with its time window
// fixed from the duration offset.
func New(cfg Config, payer *payout.Engine) (*Auction, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("owner identity is required: %w", auctionerrors.ErrInvalidInput)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", auctionerrors.ErrInvalidInput)
	}
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q: %w", cfg.Mode, auctionerrors.ErrInvalidInput)
	}
	if cfg.Pricing.StartingBid.IsNegative() || cfg.Pricing.BidIncrement.IsNegative() || cfg.Pricing.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("pricing values must be non-negative: %w", auctionerrors.ErrInvalidInput)
	}
	if payer == nil {
		return nil, fmt.Errorf("payout engine is required: %w", auctionerrors.ErrInvalidInput)
	}

	now := time.Now().UTC()
	a := &Auction{
		id:           cfg.ID,
		owner:        cfg.Owner,
		ownerContact: cfg.OwnerContact,
		startTime:    now,
		endTime:      now.Add(cfg.Duration),
		pricing:      cfg.Pricing,
		mode:         cfg.Mode,
		item:         cfg.Item,
		status:       models.StatusOngoing,
		ledger:       escrow.NewLedger(),
		payer:        payer,
	}
	a.events.append(models.EventCreated, cfg.Owner, decimal.Zero, models.StatusOngoing)
	return a, nil
}

// PlaceBid validates and applies a bid from caller. In public mode the
// superseded leader's escrow is refunded immediately; in private mode
// the amount raises the caller's accumulated total.
func (a *Auction) PlaceBid(ctx context.Context, caller string, amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != models.StatusOngoing {
		return fmt.Errorf("place bid in status %s: %w", a.status, auctionerrors.ErrInvalidState)
	}
	if caller == a.owner {
		return fmt.Errorf("owner cannot bid on their own item: %w", auctionerrors.ErrUnauthorized)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("bid amount must be positive: %w", auctionerrors.ErrBidTooLow)
	}

	decision, err := validateBid(a.mode, a.pricing, a.ledger.Balance(caller), a.leader, amount)
	if err != nil {
		return err
	}

	switch a.mode {
	case models.ModePublic:
		return a.applyPublicBid(ctx, caller, amount)
	default:
		a.applyPrivateBid(caller, amount, decision)
		return nil
	}
}

// applyPublicBid commits the new leader and refunds the superseded one.
// The ledger mutation is committed before the refund transfer; a failed
// transfer restores every touched field.
func (a *Auction) applyPublicBid(ctx context.Context, caller string, amount decimal.Decimal) error {
	prevLeader := a.leader
	prevCallerBal := a.ledger.Balance(caller)
	prevLeaderBal := a.ledger.Balance(prevLeader.HighestBidder)

	// The superseded leader may be the caller raising their own bid;
	// their stale escrow is refunded either way.
	refund := a.ledger.Sweep(prevLeader.HighestBidder)
	a.ledger.Credit(caller, amount)
	a.leader = models.Leader{HighestBidder: caller, HighestBid: amount}
	a.bidCount++
	a.held = a.held.Add(amount)

	if refund.IsPositive() {
		if err := a.payer.Pay(ctx, prevLeader.HighestBidder, refund); err != nil {
			// Restore as if the call never started.
			a.ledger.Sweep(caller)
			a.ledger.Sweep(prevLeader.HighestBidder)
			a.ledger.Credit(caller, prevCallerBal)
			if prevLeader.HighestBidder != caller {
				a.ledger.Credit(prevLeader.HighestBidder, prevLeaderBal)
			}
			a.leader = prevLeader
			a.bidCount--
			a.held = a.held.Sub(amount)
			return err
		}
		a.held = a.held.Sub(refund)
	}

	a.events.append(models.EventBidPlaced, caller, amount, a.status)
	return nil
}

// applyPrivateBid sweeps the caller's prior escrow and recredits the
// accumulated total in one step. No transfer leaves the engine, so the
// caller's own escrow is never refunded mid-auction.
func (a *Auction) applyPrivateBid(caller string, amount decimal.Decimal, decision bidDecision) {
	swept := a.ledger.Sweep(caller)
	a.ledger.Credit(caller, swept.Add(amount))
	if decision.takesLead {
		a.leader = models.Leader{HighestBidder: caller, HighestBid: decision.newTotal}
	}
	a.bidCount++
	a.held = a.held.Add(amount)
	a.events.append(models.EventBidPlaced, caller, amount, a.status)
}

// Buyout purchases the item outright for exactly the selling price.
// The amount is forwarded directly to the owner; it never enters
// escrow, so nothing becomes refundable from it.
func (a *Auction) Buyout(ctx context.Context, caller string, amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != models.StatusOngoing {
		return fmt.Errorf("buyout in status %s: %w", a.status, auctionerrors.ErrInvalidState)
	}
	if !a.pricing.SellingPrice.IsPositive() {
		return fmt.Errorf("item is not purchasable outright: %w", auctionerrors.ErrInvalidState)
	}
	if caller == a.owner {
		return fmt.Errorf("owner cannot buy their own item: %w", auctionerrors.ErrUnauthorized)
	}
	if !amount.Equal(a.pricing.SellingPrice) {
		return fmt.Errorf("amount %s does not equal selling price %s: %w",
			amount, a.pricing.SellingPrice, auctionerrors.ErrPriceMismatch)
	}

	a.status = models.StatusSold
	a.purchaser = caller

	if err := a.payer.Pay(ctx, a.owner, amount); err != nil {
		a.status = models.StatusOngoing
		a.purchaser = ""
		return err
	}

	a.events.append(models.EventSold, caller, amount, a.status)
	return nil
}

// End transitions an ongoing auction to ended. Any caller may end an
// auction; whether the time window has elapsed is the caller's check,
// the state machine only enforces the status precondition.
func (a *Auction) End(caller string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != models.StatusOngoing {
		return fmt.Errorf("end in status %s: %w", a.status, auctionerrors.ErrInvalidState)
	}

	a.status = models.StatusEnded
	a.events.append(models.EventEnded, caller, decimal.Zero, a.status)
	return nil
}

// Cancel transitions an ongoing auction to cancelled. Owner only.
func (a *Auction) Cancel(caller string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != models.StatusOngoing {
		return fmt.Errorf("cancel in status %s: %w", a.status, auctionerrors.ErrInvalidState)
	}
	if caller != a.owner {
		return fmt.Errorf("only the owner may cancel: %w", auctionerrors.ErrUnauthorized)
	}

	a.status = models.StatusCancelled
	a.events.append(models.EventCancelled, caller, decimal.Zero, a.status)
	return nil
}

// Withdraw returns the caller's escrowed funds once the auction has
// left the ongoing status. In the ended status the current highest
// bidder is refused; their funds are claimed by the owner instead.
func (a *Auction) Withdraw(ctx context.Context, caller string) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == models.StatusOngoing {
		return decimal.Zero, fmt.Errorf("withdraw while ongoing: %w", auctionerrors.ErrInvalidState)
	}
	if a.status == models.StatusEnded && caller == a.leader.HighestBidder {
		return decimal.Zero, fmt.Errorf("caller %s holds the winning bid: %w",
			caller, auctionerrors.ErrWinnerCannotWithdraw)
	}

	amount, err := a.ledger.Debit(caller)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdraw for %s: %w", caller, err)
	}

	if err := a.payer.Pay(ctx, caller, amount); err != nil {
		a.ledger.Credit(caller, amount)
		return decimal.Zero, err
	}
	a.held = a.held.Sub(amount)

	a.events.append(models.EventWithdrawal, caller, amount, a.status)
	return amount, nil
}

// ClaimWinnings drains the winning bidder's escrow to the owner after
// the auction has ended.
func (a *Auction) ClaimWinnings(ctx context.Context, caller string) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return decimal.Zero, fmt.Errorf("only the owner may claim winnings: %w", auctionerrors.ErrUnauthorized)
	}
	if a.status != models.StatusEnded {
		return decimal.Zero, fmt.Errorf("claim in status %s: %w", a.status, auctionerrors.ErrInvalidState)
	}

	amount, err := a.ledger.Debit(a.leader.HighestBidder)
	if err != nil {
		return decimal.Zero, fmt.Errorf("claim winnings: %w", auctionerrors.ErrNoWinningFunds)
	}

	if err := a.payer.Pay(ctx, a.owner, amount); err != nil {
		a.ledger.Credit(a.leader.HighestBidder, amount)
		return decimal.Zero, err
	}
	a.held = a.held.Sub(amount)

	a.events.append(models.EventWinningsClaimed, caller, amount, a.status)
	return amount, nil
}

// Snapshot returns a point-in-time read-only view of the auction.
func (a *Auction) Snapshot() models.AuctionSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return models.AuctionSnapshot{
		ID:           a.id,
		Owner:        a.owner,
		OwnerContact: a.ownerContact,
		StartTime:    a.startTime,
		EndTime:      a.endTime,
		Pricing:      a.pricing,
		Mode:         a.mode,
		Status:       a.status,
		Item:         a.item,
		Leader:       a.leader,
		Purchaser:    a.purchaser,
		BidCount:     a.bidCount,
		HeldFunds:    a.held,
	}
}

// ID returns the registry-assigned identifier.
func (a *Auction) ID() string {
	return a.id
}

// Owner returns the seller identity fixed at creation.
func (a *Auction) Owner() string {
	return a.owner
}

// Escrow returns the participant's currently recoverable balance.
func (a *Auction) Escrow(participant string) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Balance(participant)
}

// EscrowTotal returns the sum of all recoverable balances.
func (a *Auction) EscrowTotal() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Total()
}

// Events returns a copy of the append-only event log.
func (a *Auction) Events() []models.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events.snapshot()
}
