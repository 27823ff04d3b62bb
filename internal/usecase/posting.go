package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// BookingRequest is an opaque posting unit handed to the accounting sink:
// one mirrored entry plus its fulfillment link.
type BookingRequest struct {
	Entry       *domain.LedgerEntry
	Fulfillment *domain.Fulfillment
}

// Line is one signed posting leg before resolution to a concrete account.
type Line struct {
	AssociatedToID *string
	WithinID       *string
	Remark         string
	Account        domain.BookingAccount
	Type           domain.FulfillmentType
	Amount         decimal.Decimal
	Quantity       decimal.Decimal
}

// SalesInput describes one balanced, dated, booked transaction addressed to
// a ledger book. TotalAmount, when non-zero, becomes the balancing customer
// leg; the signed line amounts plus TotalAmount must sum to zero.
type SalesInput struct {
	BookDate     time.Time
	DocumentDate time.Time
	Schedule     *domain.Schedule
	WithinID     *string
	Book         string
	Remark       string
	BookingOfID  string
	Type         domain.FulfillmentType
	TotalAmount  decimal.Decimal
	Lines        []Line
}

// PostingBuilder constructs balanced booking requests. It never talks to
// storage: callers forward the requests through a transaction-scoped
// accounting session.
type PostingBuilder struct {
	scheme *domain.AccountScheme
	idGen  IDGenerator
}

// NewPostingBuilder creates a new PostingBuilder.
func NewPostingBuilder(scheme *domain.AccountScheme, idGen IDGenerator) *PostingBuilder {
	return &PostingBuilder{scheme: scheme, idGen: idGen}
}

// Resolve maps an abstract booking account to its concrete number.
func (b *PostingBuilder) Resolve(account domain.BookingAccount) (string, error) {
	return b.scheme.Resolve(account)
}

// EnteredBookDate is the date a posting is recorded under when entered
// after the fact: never before its document date.
func EnteredBookDate(documentDate, today time.Time) time.Time {
	if today.After(documentDate) {
		return today
	}

	return documentDate
}

// Sales builds the booking requests for one balanced transaction. An
// unbalanced input is a programming fault, not a business outcome.
func (b *PostingBuilder) Sales(in SalesInput) ([]*BookingRequest, error) {
	sum := in.TotalAmount
	for _, line := range in.Lines {
		sum = sum.Add(line.Amount)
	}

	if !sum.IsZero() {
		return nil, fmt.Errorf("book %s, document date %s, off by %s: %w",
			in.Book, in.DocumentDate.Format("2006-01-02"), sum, domain.ErrUnbalancedPosting)
	}

	bookingOf := in.BookingOfID
	if bookingOf == "" {
		bookingOf = in.Schedule.ID
	}

	documentNumber := b.idGen.Generate()
	bookDate := EnteredBookDate(in.DocumentDate, in.BookDate)

	lines := in.Lines
	if !in.TotalAmount.IsZero() {
		customer := Line{
			Account:  domain.CustomerAccount(in.Schedule.CustomerID),
			Amount:   in.TotalAmount,
			Remark:   in.Remark,
			Type:     in.Type,
			WithinID: in.WithinID,
		}
		lines = append([]Line{customer}, in.Lines...)
	}

	requests := make([]*BookingRequest, 0, len(lines))
	for i, line := range lines {
		account, err := b.scheme.Resolve(line.Account)
		if err != nil {
			return nil, err
		}

		remark := line.Remark
		if remark == "" {
			remark = in.Remark
		}

		fulfillmentType := line.Type
		if fulfillmentType == "" {
			fulfillmentType = in.Type
		}

		withinID := line.WithinID
		if withinID == nil {
			withinID = in.WithinID
		}

		entry := &domain.LedgerEntry{
			Account:        account,
			Book:           in.Book,
			DocumentNumber: documentNumber,
			BookDate:       bookDate,
			LineNumber:     i + 1,
			Amount:         line.Amount,
			Quantity:       line.Quantity,
			DocumentDate:   in.DocumentDate,
			State:          domain.StateRequested,
			Remark:         remark,
		}

		fulfillment := &domain.Fulfillment{
			ID:             b.idGen.Generate(),
			Entry:          entry.Key(),
			Type:           fulfillmentType,
			BookingOfID:    bookingOf,
			AssociatedToID: line.AssociatedToID,
			WithinID:       withinID,
		}

		requests = append(requests, &BookingRequest{Entry: entry, Fulfillment: fulfillment})
	}

	return requests, nil
}
