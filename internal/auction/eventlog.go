package auction

import (
	"time"

	"auction-escrow/internal/models"

	"github.com/shopspring/decimal"
)

// eventLog is the append-only record of accepted operations on one
// auction. It is an observability artifact: the state machine never
// reads it back to make decisions. Access happens under the owning
// auction's lock.
type eventLog struct {
	records []models.Event
}

func (l *eventLog) append(kind models.EventKind, actor string, amount decimal.Decimal, status models.Status) {
	l.records = append(l.records, models.Event{
		Kind:      kind,
		Actor:     actor,
		Amount:    amount,
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
}

func (l *eventLog) snapshot() []models.Event {
	return append([]models.Event(nil), l.records...)
}
