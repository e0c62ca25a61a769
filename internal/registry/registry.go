package registry

import (
	"fmt"
	"sync"

	"auction-escrow/internal/auction"
	"auction-escrow/internal/auctionerrors"
	"auction-escrow/internal/payout"
	"auction-escrow/utils"
)

// AuctionStore defines the factory/index layer over auction instances.
// It is a thin CRUD surface: every invariant lives inside the auction
// state machine itself.
type AuctionStore interface {
	CreateAuction(cfg auction.Config) (*auction.Auction, error)
	GetAuction(auctionID string) (*auction.Auction, error)
	ListAuctions() []*auction.Auction
}

// MemoryRegistry is a concurrency-safe in-memory implementation of AuctionStore.
type MemoryRegistry struct {
	mu       sync.RWMutex
	auctions map[string]*auction.Auction // key: auctionID
	order    []string                    // creation order for stable listing
	payer    *payout.Engine
}

// NewMemoryRegistry creates a new in-memory registry whose auctions pay
// out through the given engine.
func NewMemoryRegistry(payer *payout.Engine) *MemoryRegistry {
	return &MemoryRegistry{
		auctions: make(map[string]*auction.Auction),
		payer:    payer,
	}
}

// CreateAuction assigns an opaque identifier, constructs the auction
// and indexes it.
func (r *MemoryRegistry) CreateAuction(cfg auction.Config) (*auction.Auction, error) {
	cfg.ID = utils.GenerateID()

	a, err := auction.New(cfg, r.payer)
	if err != nil {
		return nil, fmt.Errorf("create auction for owner %s: %w", cfg.Owner, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[cfg.ID] = a
	r.order = append(r.order, cfg.ID)
	return a, nil
}

// GetAuction returns the auction with the given identifier.
func (r *MemoryRegistry) GetAuction(auctionID string) (*auction.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// ListAuctions returns all auctions in creation order.
func (r *MemoryRegistry) ListAuctions() []*auction.Auction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*auction.Auction, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.auctions[id])
	}
	return list
}
