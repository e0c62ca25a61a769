package auction

import (
	"fmt"

	"auction-escrow/internal/auctionerrors"
	"auction-escrow/internal/models"

	"github.com/shopspring/decimal"
)

// bidDecision is the outcome of a successful validation: the caller's
// resulting escrow total and whether they take the lead.
type bidDecision struct {
	newTotal  decimal.Decimal
	takesLead bool
}

// validateBid is the stateless bid-acceptance rule set. It decides,
// from the auction mode, pricing, the caller's prior escrow and the
// current leader, whether the attempted amount is acceptable and what
// the leader update is. It never mutates anything.
func validateBid(mode models.Mode, pricing models.Pricing, priorEscrow decimal.Decimal, leader models.Leader, amount decimal.Decimal) (bidDecision, error) {
	switch mode {
	case models.ModePublic:
		return validatePublicBid(pricing, leader, amount)
	case models.ModePrivate:
		return validatePrivateBid(pricing, priorEscrow, leader, amount)
	default:
		return bidDecision{}, fmt.Errorf("mode %q: %w", mode, auctionerrors.ErrInvalidInput)
	}
}

// validatePublicBid: open ascending rules. The attempted amount is the
// full new bid; acceptance makes the caller sole leader.
func validatePublicBid(pricing models.Pricing, leader models.Leader, amount decimal.Decimal) (bidDecision, error) {
	if pricing.StartingBid.IsPositive() && amount.LessThan(pricing.StartingBid) {
		return bidDecision{}, fmt.Errorf("bid %s below starting bid %s: %w",
			amount, pricing.StartingBid, auctionerrors.ErrBidTooLow)
	}

	if pricing.BidIncrement.IsPositive() {
		floor := leader.HighestBid.Add(pricing.BidIncrement)
		if amount.LessThan(floor) {
			return bidDecision{}, fmt.Errorf("bid %s needs at least %s: %w",
				amount, floor, auctionerrors.ErrBidTooLow)
		}
	} else if !amount.GreaterThan(leader.HighestBid) {
		return bidDecision{}, fmt.Errorf("bid %s does not beat current highest %s: %w",
			amount, leader.HighestBid, auctionerrors.ErrBidTooLow)
	}

	return bidDecision{newTotal: amount, takesLead: true}, nil
}

// validatePrivateBid: sealed-bid rules. The attempted amount is a delta
// on the caller's accumulated total. A repeat bid must raise the total
// by at least the increment. On a tie with the current leader's total
// the incumbent keeps the lead: first to reach a total wins it.
func validatePrivateBid(pricing models.Pricing, priorEscrow decimal.Decimal, leader models.Leader, amount decimal.Decimal) (bidDecision, error) {
	newTotal := priorEscrow.Add(amount)

	if priorEscrow.IsPositive() {
		if pricing.BidIncrement.IsPositive() && amount.LessThan(pricing.BidIncrement) {
			return bidDecision{}, fmt.Errorf("raise %s below increment %s: %w",
				amount, pricing.BidIncrement, auctionerrors.ErrBidTooLow)
		}
	} else if pricing.StartingBid.IsPositive() && newTotal.LessThan(pricing.StartingBid) {
		// The starting bid floors first-time bids only.
		return bidDecision{}, fmt.Errorf("first bid %s below starting bid %s: %w",
			newTotal, pricing.StartingBid, auctionerrors.ErrBidTooLow)
	}

	return bidDecision{
		newTotal:  newTotal,
		takesLead: newTotal.GreaterThan(leader.HighestBid),
	}, nil
}
