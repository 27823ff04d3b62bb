package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/contractledger/internal/domain"
)

// QuotationRevaluationVisitor recomputes each fund holding's booked value
// as quantity held times the quotation value at the date, and posts only
// the signed difference versus the currently booked value.
type QuotationRevaluationVisitor struct {
	builder    *PostingBuilder
	quotations QuotationRepository
	book       string
}

// NewQuotationRevaluationVisitor creates a new QuotationRevaluationVisitor.
func NewQuotationRevaluationVisitor(builder *PostingBuilder, quotations QuotationRepository, book string) *QuotationRevaluationVisitor {
	return &QuotationRevaluationVisitor{builder: builder, quotations: quotations, book: book}
}

func (v *QuotationRevaluationVisitor) Name() string { return VisitorQuotationRevaluation }

func (v *QuotationRevaluationVisitor) Dependencies() []string {
	return []string{VisitorSecurityOrder}
}

// DocumentDates yields one date per distinct verified quotation from-date
// of every fund referenced by the schedule's distributions.
func (v *QuotationRevaluationVisitor) DocumentDates(ctx context.Context, schedule *domain.Schedule, from, thru time.Time) ([]time.Time, error) {
	if schedule.Kind != domain.KindPremium || len(schedule.Distributions) == 0 {
		return nil, nil
	}

	var sets [][]time.Time
	for _, dist := range schedule.Distributions {
		quotations, err := v.quotations.ListVerified(ctx, dist.FundID, from, thru)
		if err != nil {
			return nil, err
		}

		var dates []time.Time
		for _, q := range quotations {
			dates = append(dates, q.FromDate)
		}

		sets = append(sets, dates)
	}

	return MergeDates(sets...), nil
}

// VisitAt revalues every distributed fund holding at the document date.
func (v *QuotationRevaluationVisitor) VisitAt(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate, lastVisited time.Time) error {
	if schedule.Kind != domain.KindPremium {
		return nil
	}

	for _, dist := range schedule.Distributions {
		if err := v.revalueFund(ctx, session, schedule, dist.FundID, documentDate, bookDate); err != nil {
			return err
		}
	}

	return nil
}

func (v *QuotationRevaluationVisitor) revalueFund(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, fundID string, documentDate, bookDate time.Time) error {
	fundAccount, err := v.builder.Resolve(domain.FundAccount(fundID))
	if err != nil {
		return err
	}

	booked, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
		Account: fundAccount,
		Types: []domain.FulfillmentType{
			domain.FulfillmentSecurityOrder,
			domain.FulfillmentSecurityQuotation,
		},
	})
	if err != nil {
		return err
	}

	if booked.Quantity.IsZero() && booked.Amount.IsZero() {
		return nil
	}

	quotation, err := v.quotations.ValueAt(ctx, fundID, documentDate)
	if err != nil {
		return err
	}

	target := domain.RoundHalfUp(booked.Quantity.Mul(quotation.Value), 2)

	delta := target.Sub(booked.Amount)
	if !exceedsTolerance(delta) {
		return nil
	}

	requests, err := v.builder.Sales(SalesInput{
		Schedule:     schedule,
		BookDate:     bookDate,
		DocumentDate: documentDate,
		Book:         v.book,
		Type:         domain.FulfillmentSecurityQuotation,
		Remark:       fmt.Sprintf("revaluation of %s at %s", fundID, quotation.Value),
		Lines: []Line{
			{Account: domain.FundAccount(fundID), Amount: delta},
			{Account: domain.ProductAccount(schedule.ProductID, "revaluation"), Amount: delta.Neg()},
		},
	})
	if err != nil {
		return err
	}

	return session.Register(ctx, requests...)
}
