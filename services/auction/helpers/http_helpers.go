package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-escrow/internal/auctionerrors"
	"auction-escrow/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, auctionerrors.ErrUnauthorized):
		return http.StatusForbidden, "caller lacks the required role"
	case errors.Is(err, auctionerrors.ErrWinnerCannotWithdraw):
		return http.StatusForbidden, "winning bidder cannot withdraw"
	case errors.Is(err, auctionerrors.ErrInvalidState):
		return http.StatusConflict, "operation not valid for current auction status"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrPriceMismatch):
		return http.StatusConflict, "amount does not match the selling price"
	case errors.Is(err, auctionerrors.ErrNothingToWithdraw):
		return http.StatusConflict, "no escrowed funds to withdraw"
	case errors.Is(err, auctionerrors.ErrNoWinningFunds):
		return http.StatusConflict, "no winning funds to claim"
	case errors.Is(err, auctionerrors.ErrTransferFailed):
		return http.StatusBadGateway, "value transfer failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
