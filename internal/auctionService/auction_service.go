package auctions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"auction-escrow/internal/auction"
	"auction-escrow/internal/auctionerrors"
	"auction-escrow/internal/models"
	"auction-escrow/internal/registry"
	"auction-escrow/internal/stream"
	"auction-escrow/utils"

	"github.com/shopspring/decimal"
)

// AuctionService defines the business logic layer over the auction
// state machines: input validation, instance lookup and event fan-out.
type AuctionService struct {
	store registry.AuctionStore
	hub   *stream.Hub
}

// NewAuctionService creates a new AuctionService instance. The hub may
// be nil when no live event feed is wanted.
func NewAuctionService(store registry.AuctionStore, hub *stream.Hub) *AuctionService {
	return &AuctionService{
		store: store,
		hub:   hub,
	}
}

// CreateAuction lists a new item and returns its initial snapshot.
func (s *AuctionService) CreateAuction(owner, ownerContact string, duration time.Duration, pricing models.Pricing, mode models.Mode, item models.Item) (models.AuctionSnapshot, error) {
	if item.Name == "" {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w - missing item name", auctionerrors.ErrInvalidInput)
	}

	a, err := s.store.CreateAuction(auction.Config{
		Owner:        owner,
		OwnerContact: ownerContact,
		Duration:     duration,
		Pricing:      pricing,
		Mode:         mode,
		Item:         item,
	})
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: failed to create auction for owner %s: %w", owner, err)
	}

	snap := a.Snapshot()
	s.publish(snap.ID, models.EventCreated, owner, decimal.Zero, snap.Status)
	return snap, nil
}

// PlaceBid validates and applies a bid on the given auction.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, caller string, amount decimal.Decimal) (models.AuctionSnapshot, error) {
	if err := checkCall(auctionID, caller); err != nil {
		return models.AuctionSnapshot{}, err
	}
	if !amount.IsPositive() {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidInput)
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w", err)
	}

	if err := a.PlaceBid(ctx, caller, amount); err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: bid on auction %s by %s: %w", auctionID, caller, err)
	}

	snap := a.Snapshot()
	s.publish(auctionID, models.EventBidPlaced, caller, amount, snap.Status)
	return snap, nil
}

// Buyout purchases the item outright for exactly the selling price.
func (s *AuctionService) Buyout(ctx context.Context, auctionID, caller string, amount decimal.Decimal) (models.AuctionSnapshot, error) {
	if err := checkCall(auctionID, caller); err != nil {
		return models.AuctionSnapshot{}, err
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w", err)
	}

	if err := a.Buyout(ctx, caller, amount); err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: buyout of auction %s by %s: %w", auctionID, caller, err)
	}

	snap := a.Snapshot()
	s.publish(auctionID, models.EventSold, caller, amount, snap.Status)
	return snap, nil
}

// EndAuction transitions an ongoing auction to ended.
func (s *AuctionService) EndAuction(auctionID, caller string) (models.AuctionSnapshot, error) {
	if err := checkCall(auctionID, caller); err != nil {
		return models.AuctionSnapshot{}, err
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w", err)
	}

	if err := a.End(caller); err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: end auction %s: %w", auctionID, err)
	}

	snap := a.Snapshot()
	s.publish(auctionID, models.EventEnded, caller, decimal.Zero, snap.Status)
	return snap, nil
}

// CancelAuction transitions an ongoing auction to cancelled. Owner only.
func (s *AuctionService) CancelAuction(auctionID, caller string) (models.AuctionSnapshot, error) {
	if err := checkCall(auctionID, caller); err != nil {
		return models.AuctionSnapshot{}, err
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w", err)
	}

	if err := a.Cancel(caller); err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: cancel auction %s by %s: %w", auctionID, caller, err)
	}

	snap := a.Snapshot()
	s.publish(auctionID, models.EventCancelled, caller, decimal.Zero, snap.Status)
	return snap, nil
}

// WithdrawBid returns the caller's escrowed funds from a settled auction.
func (s *AuctionService) WithdrawBid(ctx context.Context, auctionID, caller string) (decimal.Decimal, error) {
	if err := checkCall(auctionID, caller); err != nil {
		return decimal.Zero, err
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: %w", err)
	}

	amount, err := a.Withdraw(ctx, caller)
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: withdraw from auction %s by %s: %w", auctionID, caller, err)
	}

	s.publish(auctionID, models.EventWithdrawal, caller, amount, a.Snapshot().Status)
	return amount, nil
}

// ClaimWinnings drains the winning escrow to the auction owner.
func (s *AuctionService) ClaimWinnings(ctx context.Context, auctionID, caller string) (decimal.Decimal, error) {
	if err := checkCall(auctionID, caller); err != nil {
		return decimal.Zero, err
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: %w", err)
	}

	amount, err := a.ClaimWinnings(ctx, caller)
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: claim winnings of auction %s: %w", auctionID, err)
	}

	s.publish(auctionID, models.EventWinningsClaimed, caller, amount, a.Snapshot().Status)
	return amount, nil
}

// GetAuction returns a read-only snapshot of one auction.
func (s *AuctionService) GetAuction(auctionID string) (models.AuctionSnapshot, error) {
	if auctionID == "" {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w", err)
	}
	return a.Snapshot(), nil
}

// ListAuctions returns snapshots of every listed auction.
func (s *AuctionService) ListAuctions() []models.AuctionSnapshot {
	instances := s.store.ListAuctions()
	snapshots := make([]models.AuctionSnapshot, 0, len(instances))
	for _, a := range instances {
		snapshots = append(snapshots, a.Snapshot())
	}
	return snapshots
}

// GetEvents returns the append-only event log of one auction.
func (s *AuctionService) GetEvents(auctionID string) ([]models.Event, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	return a.Events(), nil
}

// GetEscrow returns the caller's recoverable balance on one auction.
func (s *AuctionService) GetEscrow(auctionID, caller string) (decimal.Decimal, error) {
	if err := checkCall(auctionID, caller); err != nil {
		return decimal.Zero, err
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: %w", err)
	}
	return a.Escrow(caller), nil
}

// checkCall rejects calls with a missing auction ID or caller identity.
func checkCall(auctionID, caller string) error {
	if auctionID == "" {
		return fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}
	if caller == "" {
		return fmt.Errorf("service: %w - empty caller identity", auctionerrors.ErrInvalidInput)
	}
	return nil
}

// publish fans an accepted operation out to stream subscribers.
func (s *AuctionService) publish(auctionID string, kind models.EventKind, actor string, amount decimal.Decimal, status models.Status) {
	if s.hub == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"kind":       kind,
		"auction_id": auctionID,
		"actor":      actor,
		"amount":     amount,
		"status":     status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		utils.Error("failed to marshal stream payload", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}
	s.hub.Broadcast(auctionID, payload)
}
