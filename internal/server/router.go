package server

import (
	auctions "auction-escrow/internal/auctionService"
	"auction-escrow/internal/auth"
	"auction-escrow/internal/stream"
	handler "auction-escrow/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auctions.AuctionService, authService *auth.Service, hub *stream.Hub) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)
	authHandler := handler.NewAuthHandler(authService)
	streamHandler := handler.NewStreamHandler(auctionService, hub)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterHandler)
		authRoutes.POST("/login", authHandler.LoginHandler)
	}

	public := router.Group("/auctions")
	{
		public.GET("", auctionHandler.ListAuctionsHandler)
		public.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		public.GET("/:auction_id/events", auctionHandler.GetEventsHandler)
		public.GET("/:auction_id/stream", streamHandler.EventsStreamHandler)
	}

	protected := router.Group("/auctions")
	protected.Use(AuthRequired(authService))
	{
		protected.POST("", auctionHandler.CreateAuctionHandler)
		protected.POST("/:auction_id/bids", auctionHandler.PlaceBidHandler)
		protected.POST("/:auction_id/buyout", auctionHandler.BuyoutHandler)
		protected.POST("/:auction_id/end", auctionHandler.EndAuctionHandler)
		protected.POST("/:auction_id/cancel", auctionHandler.CancelAuctionHandler)
		protected.POST("/:auction_id/withdrawal", auctionHandler.WithdrawBidHandler)
		protected.POST("/:auction_id/claim", auctionHandler.ClaimWinningsHandler)
		protected.GET("/:auction_id/escrow", auctionHandler.GetEscrowHandler)
	}

	return router
}
