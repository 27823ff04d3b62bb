package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Totals aggregates posted lines: signed amount, signed quantity, and the
// per-account distribution of both.
type Totals struct {
	Amount    decimal.Decimal
	Quantity  decimal.Decimal
	ByAccount map[string]AccountTotal
}

// AccountTotal is the contribution of one concrete account to a total.
type AccountTotal struct {
	Amount   decimal.Decimal
	Quantity decimal.Decimal
}

func sumLines(lines []*PostedLine) Totals {
	t := Totals{
		Amount:    decimal.Zero,
		Quantity:  decimal.Zero,
		ByAccount: make(map[string]AccountTotal),
	}

	for _, line := range lines {
		t.Amount = t.Amount.Add(line.Entry.Amount)
		t.Quantity = t.Quantity.Add(line.Entry.Quantity)

		at := t.ByAccount[line.Entry.Account]
		at.Amount = at.Amount.Add(line.Entry.Amount)
		at.Quantity = at.Quantity.Add(line.Entry.Quantity)
		t.ByAccount[line.Entry.Account] = at
	}

	return t
}

// Ledger is the read surface visitors compute deltas against. LedgerQuery
// serves it from persisted state; AccountingSession overlays the pass's own
// pending writes.
type Ledger interface {
	// TotalUntil sums posted lines with document date <= thru, restricted
	// by the filter.
	TotalUntil(ctx context.Context, scheduleID string, thru time.Time, filter LineFilter) (Totals, error)
	// TotalAt sums posted lines at the exact document date.
	TotalAt(ctx context.Context, scheduleID string, documentDate time.Time, filter LineFilter) (Totals, error)
	// Lines returns the posted lines matching the filter, in posting order.
	Lines(ctx context.Context, scheduleID string, filter LineFilter) ([]*PostedLine, error)
}

// LedgerQuery answers read-only queries over confirmed posted state. All
// results are deterministic for a fixed persisted state; queries filtered
// by associated fulfillment id return only lines fulfilling that causal
// link, never a superset.
type LedgerQuery struct {
	fulfillments FulfillmentRepository
}

// NewLedgerQuery creates a new LedgerQuery.
func NewLedgerQuery(fulfillments FulfillmentRepository) *LedgerQuery {
	return &LedgerQuery{fulfillments: fulfillments}
}

// TotalUntil implements Ledger.
func (q *LedgerQuery) TotalUntil(ctx context.Context, scheduleID string, thru time.Time, filter LineFilter) (Totals, error) {
	filter.ThruDocumentDate = &thru

	lines, err := q.fulfillments.ListForSchedule(ctx, scheduleID, filter)
	if err != nil {
		return Totals{}, err
	}

	return sumLines(lines), nil
}

// TotalAt implements Ledger.
func (q *LedgerQuery) TotalAt(ctx context.Context, scheduleID string, documentDate time.Time, filter LineFilter) (Totals, error) {
	filter.AtDocumentDate = &documentDate

	lines, err := q.fulfillments.ListForSchedule(ctx, scheduleID, filter)
	if err != nil {
		return Totals{}, err
	}

	return sumLines(lines), nil
}

// Lines implements Ledger.
func (q *LedgerQuery) Lines(ctx context.Context, scheduleID string, filter LineFilter) ([]*PostedLine, error) {
	return q.fulfillments.ListForSchedule(ctx, scheduleID, filter)
}
