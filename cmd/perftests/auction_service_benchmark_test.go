package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	auctions "auction-escrow/internal/auctionService"
	model "auction-escrow/internal/models"
	"auction-escrow/internal/payout"
	"auction-escrow/internal/registry"
	"auction-escrow/internal/stream"

	"github.com/shopspring/decimal"
)

// noopTransferer accepts every transfer without side effects so the
// benchmarks measure the engine rather than payout plumbing.
type noopTransferer struct{}

func (noopTransferer) Transfer(context.Context, string, decimal.Decimal) error { return nil }

func newBenchService(numAuctions int) (*auctions.AuctionService, []string) {
	engine := payout.NewEngine(noopTransferer{})
	store := registry.NewMemoryRegistry(engine)
	hub := stream.NewHub()
	go hub.Run()

	svc := auctions.NewAuctionService(store, hub)

	ids := make([]string, 0, numAuctions)
	for i := 0; i < numAuctions; i++ {
		snap, err := svc.CreateAuction(
			fmt.Sprintf("seller_%d", i),
			"",
			time.Hour,
			model.Pricing{StartingBid: decimal.NewFromInt(100), BidIncrement: decimal.NewFromInt(1)},
			model.ModePublic,
			model.Item{Name: fmt.Sprintf("benchmark item %d", i)},
		)
		if err != nil {
			panic(err)
		}
		ids = append(ids, snap.ID)
	}
	return svc, ids
}

// Benchmark 1: PlaceBid - Isolated Auctions (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	svc, ids := newBenchService(b.N)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		caller := fmt.Sprintf("user_%d", i)
		amount := decimal.NewFromInt(int64(100 + rand.Intn(100)))
		if _, err := svc.PlaceBid(ctx, ids[i], caller, amount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Auction (High Contention - Concurrency Benchmark)
func Benchmark_PlaceBid_ConcurrentSharedAuction(b *testing.B) {
	svc, ids := newBenchService(1)
	ctx := context.Background()
	auctionID := ids[0]

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 100

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			caller := fmt.Sprintf("user_parallel_%d", rnd.Int())

			nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
			_, _ = svc.PlaceBid(ctx, auctionID, caller, decimal.NewFromInt(nextBid))
		}
	})
}

// Benchmark 3: GetAuction - Single-Threaded (Low Contention)
func Benchmark_GetAuction_SingleThreaded(b *testing.B) {
	svc, ids := newBenchService(b.N)
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		for j := 0; j < 10; j++ {
			caller := fmt.Sprintf("user_%d_%d", i, j)
			amount := decimal.NewFromInt(int64(100 + j*10))
			_, _ = svc.PlaceBid(ctx, ids[i], caller, amount)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.GetAuction(ids[i]); err != nil {
			b.Fatalf("failed to get auction: %v", err)
		}
	}
}

// Benchmark 4: GetAuction - Concurrent (High Contention)
func Benchmark_GetAuction_ConcurrentSharedAuction(b *testing.B) {
	svc, ids := newBenchService(1)
	ctx := context.Background()
	auctionID := ids[0]

	for j := 0; j < 100; j++ {
		caller := fmt.Sprintf("user_%d", j)
		amount := decimal.NewFromInt(int64(100 + j))
		_, _ = svc.PlaceBid(ctx, auctionID, caller, amount)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var counter int64

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.GetAuction(auctionID); err != nil {
				b.Fatalf("failed to get auction: %v", err)
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}

// Benchmark 5: Mixed Workload (Readers + Writers concurrently)
func Benchmark_MixedWorkload_SharedAuction(b *testing.B) {
	svc, ids := newBenchService(1)
	ctx := context.Background()
	auctionID := ids[0]

	for j := 0; j < 50; j++ {
		caller := fmt.Sprintf("user_seed_%d", j)
		amount := decimal.NewFromInt(int64(100 + j*2))
		_, _ = svc.PlaceBid(ctx, auctionID, caller, amount)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 200
	var counter int64

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			opType := rnd.Intn(10)
			switch {
			case opType < 3:
				// Writer: place a new bid
				caller := fmt.Sprintf("user_writer_%d", rnd.Int())
				nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
				_, _ = svc.PlaceBid(ctx, auctionID, caller, decimal.NewFromInt(nextBid))
			default:
				// Reader: snapshot the auction
				_, _ = svc.GetAuction(auctionID)
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}
