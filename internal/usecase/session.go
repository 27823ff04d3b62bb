package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/contractledger/internal/domain"
)

// AccountingSession scopes one schedule pass: every booking request is
// forwarded to the accounting sink inside the pass transaction, and reads
// observe confirmed state plus the pass's own not-yet-committed writes in
// write order.
type AccountingSession struct {
	tx        Transaction
	sink      AccountingSink
	queries   *LedgerQuery
	maxBooked *time.Time
	pending   []*PostedLine
}

// NewAccountingSession creates a session bound to an open transaction.
// maxBooked is the latest confirmed document date for the schedule before
// the pass started; postings dated before it are out of order.
func NewAccountingSession(tx Transaction, sink AccountingSink, queries *LedgerQuery, maxBooked *time.Time) *AccountingSession {
	return &AccountingSession{tx: tx, sink: sink, queries: queries, maxBooked: maxBooked}
}

// Tx returns the pass transaction.
func (s *AccountingSession) Tx() Transaction {
	return s.tx
}

// Register forwards booking requests to the sink and records them in the
// session overlay.
func (s *AccountingSession) Register(ctx context.Context, requests ...*BookingRequest) error {
	for _, req := range requests {
		if err := s.checkOrdering(req); err != nil {
			return err
		}

		if err := s.sink.Register(ctx, s.tx, req); err != nil {
			return err
		}

		s.pending = append(s.pending, &PostedLine{Entry: req.Entry, Fulfillment: req.Fulfillment})
	}

	return nil
}

// checkOrdering rejects postings dated before already-confirmed postings
// of the schedule. Order lines keyed to a transaction through the within
// link are exempt: the retraction flow nets their stale later lines to
// zero before re-inserting at the earlier date.
func (s *AccountingSession) checkOrdering(req *BookingRequest) error {
	if s.maxBooked == nil || !req.Entry.DocumentDate.Before(*s.maxBooked) {
		return nil
	}

	if req.Fulfillment.WithinID != nil {
		return nil
	}

	return domain.NewRuleViolation(domain.RuleOutOfOrderBooking,
		fmt.Sprintf("posting dated %s precedes postings confirmed thru %s",
			req.Entry.DocumentDate.Format("2006-01-02"), s.maxBooked.Format("2006-01-02")),
		"retract the later postings first or book the correction at a later date")
}

// Pending returns the count of lines registered so far in this pass.
func (s *AccountingSession) Pending() int {
	return len(s.pending)
}

func (s *AccountingSession) pendingFor(scheduleID string, filter LineFilter) []*PostedLine {
	var lines []*PostedLine
	for _, line := range s.pending {
		if line.Fulfillment.BookingOfID != scheduleID {
			continue
		}

		if filter.Matches(line) {
			lines = append(lines, line)
		}
	}

	return lines
}

// TotalUntil implements Ledger with the session overlay applied.
func (s *AccountingSession) TotalUntil(ctx context.Context, scheduleID string, thru time.Time, filter LineFilter) (Totals, error) {
	lines, err := s.Lines(ctx, scheduleID, withThru(filter, thru))
	if err != nil {
		return Totals{}, err
	}

	return sumLines(lines), nil
}

// TotalAt implements Ledger with the session overlay applied.
func (s *AccountingSession) TotalAt(ctx context.Context, scheduleID string, documentDate time.Time, filter LineFilter) (Totals, error) {
	filter.AtDocumentDate = &documentDate

	lines, err := s.Lines(ctx, scheduleID, filter)
	if err != nil {
		return Totals{}, err
	}

	return sumLines(lines), nil
}

// Lines implements Ledger: persisted lines first, then the pass's own
// writes in write order.
func (s *AccountingSession) Lines(ctx context.Context, scheduleID string, filter LineFilter) ([]*PostedLine, error) {
	persisted, err := s.queries.Lines(ctx, scheduleID, filter)
	if err != nil {
		return nil, err
	}

	return append(persisted, s.pendingFor(scheduleID, filter)...), nil
}

func withThru(filter LineFilter, thru time.Time) LineFilter {
	filter.ThruDocumentDate = &thru
	return filter
}
