package auctionerrors

import "errors"

// State machine errors
var (
	ErrInvalidState = errors.New("operation not valid for current auction status")
	ErrUnauthorized = errors.New("caller lacks the required role")
)

// Validator rejections
var (
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrPriceMismatch = errors.New("amount does not match the selling price")
)

// Ledger and payout errors
var (
	ErrNothingToWithdraw    = errors.New("no escrowed funds to withdraw")
	ErrNoWinningFunds       = errors.New("no winning funds to claim")
	ErrWinnerCannotWithdraw = errors.New("winning bidder cannot withdraw from an ended auction")
	ErrTransferFailed       = errors.New("value transfer failed")
)

// Surrounding-layer errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrInvalidInput    = errors.New("invalid input")
)
