package server

import (
	"auction-escrow/internal/auth"
	"auction-escrow/services/auction/handler"
	"auction-escrow/utils"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AuthRequired verifies the Bearer token and stores the caller's
// username in the request context for downstream handlers.
func AuthRequired(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			utils.JSONError(c, http.StatusUnauthorized, errors.New("missing bearer token"), "authentication required")
			c.Abort()
			return
		}

		username, err := authService.VerifyToken(token)
		if err != nil {
			utils.Warn("Rejected request with invalid token", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			utils.JSONError(c, http.StatusUnauthorized, err, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(handler.CallerContextKey, username)
		c.Next()
	}
}
