package utils

import (
	"github.com/gin-gonic/gin"
)

// Every handler responds with the same envelope: "status" echoes the
// HTTP code, "message" is a short human-readable outcome, and either
// "data" (success payload) or "error" (failure detail) carries the body.

// JSONResponse sends a successful envelope with the given payload.
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a failure envelope carrying the error detail.
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}
