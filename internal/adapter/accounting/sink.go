package accounting

import (
	"context"
	"fmt"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

// Sink implements usecase.AccountingSink by mirroring booking requests into
// the ledger tables. The external accounting package confirms postings in
// its own run; the mirror records them as confirmed the moment the pass
// transaction commits.
type Sink struct {
	entries      usecase.EntryRepository
	fulfillments usecase.FulfillmentRepository
}

// NewSink creates a new Sink.
func NewSink(entries usecase.EntryRepository, fulfillments usecase.FulfillmentRepository) *Sink {
	return &Sink{entries: entries, fulfillments: fulfillments}
}

// Register persists one booking request inside the pass transaction.
func (s *Sink) Register(ctx context.Context, tx usecase.Transaction, request *usecase.BookingRequest) error {
	entry := *request.Entry
	entry.State = domain.StateConfirmed

	if err := s.entries.Create(ctx, tx, &entry); err != nil {
		return fmt.Errorf("mirror entry %s: %w", entry.Key(), err)
	}

	if err := s.fulfillments.Create(ctx, tx, request.Fulfillment); err != nil {
		return fmt.Errorf("link fulfillment %s: %w", request.Fulfillment.ID, err)
	}

	return nil
}
