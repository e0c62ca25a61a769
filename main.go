package main

import (
	auctions "auction-escrow/internal/auctionService"
	"auction-escrow/internal/auth"
	"auction-escrow/internal/payout"
	"auction-escrow/internal/registry"
	"auction-escrow/internal/server"
	"auction-escrow/internal/stream"
	"fmt"
	"os"
)

func main() {

	engine := payout.NewEngine(payout.LogTransferer{})

	store := registry.NewMemoryRegistry(engine)

	hub := stream.NewHub()
	go hub.Run()

	auctionSvc := auctions.NewAuctionService(store, hub)
	authSvc := auth.NewService(getJWTSecret())

	router := server.SetupRouter(auctionSvc, authSvc, hub)

	port := getPort()
	fmt.Printf("Starting auction server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// getJWTSecret returns the token signing secret from env or a development default
func getJWTSecret() string {
	if s := os.Getenv("AUCTION_JWT_SECRET"); s != "" {
		return s
	}
	return "dev-secret-change-me"
}

// getPort returns the server port from env or defaults to ":8080"
func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return fmt.Sprintf(":%s", p)
	}
	return ":8080"
}
