package registry

import (
	"testing"
	"time"

	"auction-escrow/internal/auction"
	"auction-escrow/internal/auctionerrors"
	"auction-escrow/internal/models"
	"auction-escrow/internal/payout"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newConfig(owner string) auction.Config {
	return auction.Config{
		Owner:    owner,
		Duration: time.Hour,
		Mode:     models.ModePublic,
		Pricing:  models.Pricing{StartingBid: decimal.NewFromInt(10)},
		Item:     models.Item{Name: "clock"},
	}
}

func newRegistry() *MemoryRegistry {
	return NewMemoryRegistry(payout.NewEngine(payout.LogTransferer{}))
}

// Test CreateAuction
func TestMemoryRegistry_CreateAuction(t *testing.T) {
	t.Parallel()

	t.Run("assigns_uuid_identifier", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()
		a, err := r.CreateAuction(newConfig("seller"))
		require.NoError(t, err)
		require.NotNil(t, a)

		_, parseErr := uuid.Parse(a.ID())
		require.NoError(t, parseErr, "auction ID should be a valid UUID")
		require.Equal(t, models.StatusOngoing, a.Snapshot().Status)
	})

	t.Run("invalid_config_rejected", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()
		cfg := newConfig("")
		_, err := r.CreateAuction(cfg)
		require.ErrorIs(t, err, auctionerrors.ErrInvalidInput)
		require.Empty(t, r.ListAuctions())
	})
}

// Test GetAuction
func TestMemoryRegistry_GetAuction(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	created, err := r.CreateAuction(newConfig("seller"))
	require.NoError(t, err)

	got, err := r.GetAuction(created.ID())
	require.NoError(t, err)
	require.Same(t, created, got)

	_, err = r.GetAuction("no-such-id")
	require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)
}

// Test ListAuctions
func TestMemoryRegistry_ListAuctions(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	require.Empty(t, r.ListAuctions())

	first, err := r.CreateAuction(newConfig("seller1"))
	require.NoError(t, err)
	second, err := r.CreateAuction(newConfig("seller2"))
	require.NoError(t, err)

	list := r.ListAuctions()
	require.Len(t, list, 2)
	require.Same(t, first, list[0], "listing preserves creation order")
	require.Same(t, second, list[1])
}
