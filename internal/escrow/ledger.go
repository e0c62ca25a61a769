package escrow

import (
	"auction-escrow/internal/auctionerrors"

	"github.com/shopspring/decimal"
)

// Ledger tracks each participant's currently recoverable escrow balance.
// It is pure bookkeeping: no value transfer ever happens here, only the
// number that the payout engine later honors. Entries never go negative.
//
// The Ledger is not safe for concurrent use on its own; it is always
// accessed under the owning auction's lock.
type Ledger struct {
	balances map[string]decimal.Decimal
}

// NewLedger creates an empty escrow ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]decimal.Decimal)}
}

// Credit adds amount to the participant's recoverable balance.
// Non-positive amounts are ignored.
func (l *Ledger) Credit(participant string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	l.balances[participant] = l.balances[participant].Add(amount)
}

// Sweep zeroes the participant's balance and returns the prior value.
// A zero balance sweeps to zero without error.
func (l *Ledger) Sweep(participant string) decimal.Decimal {
	prior := l.balances[participant]
	delete(l.balances, participant)
	return prior
}

// Debit atomically reads and zeroes the participant's balance, returning
// the prior value. It fails with ErrNothingToWithdraw when the balance
// is zero, so a repeated withdrawal can never pay out twice.
func (l *Ledger) Debit(participant string) (decimal.Decimal, error) {
	prior := l.Sweep(participant)
	if !prior.IsPositive() {
		return decimal.Zero, auctionerrors.ErrNothingToWithdraw
	}
	return prior, nil
}

// Balance returns the participant's current recoverable balance.
func (l *Ledger) Balance(participant string) decimal.Decimal {
	return l.balances[participant]
}

// Total returns the sum of all recoverable balances.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.balances {
		total = total.Add(b)
	}
	return total
}
