package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// InterestVisitor attributes monthly interest on the schedule's internal
// cash balance, per the product's account interest-rate feature.
type InterestVisitor struct {
	builder      *PostingBuilder
	transactions TransactionRepository
	catalog      FeatureCatalog
	book         string
}

// NewInterestVisitor creates a new InterestVisitor.
func NewInterestVisitor(builder *PostingBuilder, transactions TransactionRepository, catalog FeatureCatalog, book string) *InterestVisitor {
	return &InterestVisitor{builder: builder, transactions: transactions, catalog: catalog, book: book}
}

func (v *InterestVisitor) Name() string { return VisitorInterest }

func (v *InterestVisitor) Dependencies() []string {
	return []string{VisitorAccountAttribution}
}

// DocumentDates follows the month-end policy.
func (v *InterestVisitor) DocumentDates(ctx context.Context, schedule *domain.Schedule, from, thru time.Time) ([]time.Time, error) {
	if schedule.Kind != domain.KindPremium {
		return nil, nil
	}

	has, err := v.catalog.HasFeatureAt(ctx, schedule.ProductID, domain.FeatureAccountInterestRate, thru)
	if err != nil {
		return nil, err
	}

	if !has {
		return nil, nil
	}

	txs, err := v.transactions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}

	return monthEndDocumentDates(schedule, txs, from, thru), nil
}

// VisitAt posts the month's interest on the balance held before the
// document date. Interest is recognized at month ends and at the
// schedule's valid-thru date only; the chain may call the visitor at other
// merged dates, where it is a no-op.
func (v *InterestVisitor) VisitAt(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate, lastVisited time.Time) error {
	if schedule.Kind != domain.KindPremium {
		return nil
	}

	if !documentDate.Equal(EndOfMonth(documentDate)) && !documentDate.Equal(schedule.ValidThru) {
		return nil
	}

	scheduleAccount, err := v.builder.Resolve(domain.ScheduleAccount(schedule.ID))
	if err != nil {
		return err
	}

	before, err := session.TotalUntil(ctx, schedule.ID, documentDate.AddDate(0, 0, -1), LineFilter{
		Account: scheduleAccount,
	})
	if err != nil {
		return err
	}

	if !before.Amount.IsPositive() {
		return nil
	}

	annual, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureAccountInterestRate,
		documentDate, schedule.EffectiveDate, before.Amount, decimal.Zero)
	if err != nil {
		return err
	}

	target := domain.RoundHalfUp(annual.Div(decimal.New(12, 0)), 2)

	booked, err := session.TotalAt(ctx, schedule.ID, documentDate, LineFilter{
		Account: scheduleAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentInterest},
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
		Type:         domain.FulfillmentInterest,
		Remark:       "interest attribution",
		Lines: []Line{
			{Account: domain.ScheduleAccount(schedule.ID), Amount: delta},
			{Account: domain.ProductAccount(schedule.ProductID, "interest"), Amount: delta.Neg()},
		},
	})
	if err != nil {
		return err
	}

	return session.Register(ctx, requests...)
}
