package usecase

import (
	"context"
	"time"

	"github.com/iho/contractledger/internal/domain"
)

// AttributionVisitor attributes due premiums from the customer to the
// schedule's internal account.
type AttributionVisitor struct {
	builder      *PostingBuilder
	transactions TransactionRepository
	book         string
}

// NewAttributionVisitor creates a new AttributionVisitor.
func NewAttributionVisitor(builder *PostingBuilder, transactions TransactionRepository, book string) *AttributionVisitor {
	return &AttributionVisitor{builder: builder, transactions: transactions, book: book}
}

func (v *AttributionVisitor) Name() string { return VisitorAccountAttribution }

func (v *AttributionVisitor) Dependencies() []string { return nil }

// DocumentDates yields the schedule's premium due dates plus verified
// transaction effective dates in range.
func (v *AttributionVisitor) DocumentDates(ctx context.Context, schedule *domain.Schedule, from, thru time.Time) ([]time.Time, error) {
	if schedule.Kind != domain.KindPremium {
		return nil, nil
	}

	txs, err := v.transactions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}

	return MergeDates(
		schedule.PeriodDueDates(from, thru),
		verifiedEffectiveDates(txs, from, thru),
	), nil
}

// VisitAt posts the difference between the premium contractually due and
// the premium already attributed.
func (v *AttributionVisitor) VisitAt(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate, lastVisited time.Time) error {
	if schedule.Kind != domain.KindPremium {
		return nil
	}

	scheduleAccount, err := v.builder.Resolve(domain.ScheduleAccount(schedule.ID))
	if err != nil {
		return err
	}

	target := schedule.PremiumDueUntil(documentDate)

	booked, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
		Account: scheduleAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentAccountAttribution},
	})
	if err != nil {
		return err
	}

	delta := target.Sub(booked.Amount)
	if !exceedsTolerance(delta) {
		return nil
	}

	requests, err := v.builder.Sales(SalesInput{
		Schedule:     schedule,
		BookDate:     bookDate,
		DocumentDate: documentDate,
		Book:         v.book,
		Type:         domain.FulfillmentAccountAttribution,
		Remark:       "premium attribution",
		TotalAmount:  delta.Neg(),
		Lines: []Line{
			{Account: domain.ScheduleAccount(schedule.ID), Amount: delta},
		},
	})
	if err != nil {
		return err
	}

	return session.Register(ctx, requests...)
}
