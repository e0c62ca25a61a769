package payout

import (
	"context"
	"fmt"

	"auction-escrow/internal/auctionerrors"
	"auction-escrow/utils"

	"github.com/shopspring/decimal"
)

// Transferer is the native value-transfer primitive supplied by the
// execution environment. A transfer either fully succeeds or fails;
// the target may refuse funds.
type Transferer interface {
	Transfer(ctx context.Context, to string, amount decimal.Decimal) error
}

// Engine executes external value transfers for ledger-debited amounts.
// It must only be invoked after the corresponding ledger mutation is
// committed (mutate-then-transfer), so no transfer is ever issued
// against a still-positive ledger entry.
type Engine struct {
	transferer Transferer
}

// NewEngine creates a payout engine backed by the given transferer.
func NewEngine(t Transferer) *Engine {
	return &Engine{transferer: t}
}

// Pay transfers an already-debited amount to the target identity.
// Failures are surfaced as ErrTransferFailed so the enclosing operation
// can roll back as if it never started.
func (e *Engine) Pay(ctx context.Context, to string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := e.transferer.Transfer(ctx, to, amount); err != nil {
		return fmt.Errorf("pay %s to %s: %w: %v", amount, to, auctionerrors.ErrTransferFailed, err)
	}
	return nil
}

// LogTransferer is the default transferer: it records each transfer in
// the application log. It stands in for the environment's native
// value-transfer primitive when the engine runs standalone.
type LogTransferer struct{}

// Transfer logs the transfer and reports success.
func (LogTransferer) Transfer(_ context.Context, to string, amount decimal.Decimal) error {
	utils.Info("value transfer executed", map[string]any{
		"to":     to,
		"amount": amount.String(),
	})
	return nil
}
