package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// Deduction is the outcome of one financed-commission deduction step.
type Deduction struct {
	Total     decimal.Decimal
	Interest  decimal.Decimal
	Capital   decimal.Decimal
	Remaining decimal.Decimal
}

// DeduceAt computes one periodic financed-commission deduction.
//
// remaining is the commission capital still to recover, maxTotalBase the
// unrounded principal-times-rate product, interest the interest amount for
// the period, and deducedInterestPct the share of the deduction treated as
// interest. The total is rounded half up and the capital share half down;
// the asymmetry reproduces the contractual figures and must not be
// "fixed". In the final recovery years the rate cap can fall below the
// period interest, making the capital share negative: the total then
// equals the cap and the shortfall is carried in remaining.
func DeduceAt(remaining, maxTotalBase, interest, deducedInterestPct decimal.Decimal) (Deduction, error) {
	if deducedInterestPct.IsNegative() || deducedInterestPct.GreaterThanOrEqual(hundredBase) {
		return Deduction{}, fmt.Errorf("deduced interest share %s: %w",
			deducedInterestPct, domain.ErrInvalidDeducedInterest)
	}

	maxTotal := domain.RoundHalfUp(maxTotalBase, 2)

	share := decimal.New(1, 0).Sub(deducedInterestPct.Div(hundredBase))
	maxCapital := domain.RoundHalfDown(maxTotal.Mul(share), 2).Sub(interest)

	capital := decimal.Min(remaining, maxCapital)

	if !deducedInterestPct.IsZero() {
		interest = interest.Add(domain.RoundHalfUp(
			capital.Mul(deducedInterestPct).Div(hundredBase.Sub(deducedInterestPct)), 2))
	}

	return Deduction{
		Total:     capital.Add(interest),
		Interest:  interest,
		Capital:   capital,
		Remaining: remaining.Sub(capital),
	}, nil
}

// FinancedCommissionVisitor recovers a financed commission from the
// customer's holdings through periodic deductions.
type FinancedCommissionVisitor struct {
	builder      *PostingBuilder
	transactions TransactionRepository
	catalog      FeatureCatalog
	book         string
}

// NewFinancedCommissionVisitor creates a new FinancedCommissionVisitor.
func NewFinancedCommissionVisitor(builder *PostingBuilder, transactions TransactionRepository, catalog FeatureCatalog, book string) *FinancedCommissionVisitor {
	return &FinancedCommissionVisitor{builder: builder, transactions: transactions, catalog: catalog, book: book}
}

func (v *FinancedCommissionVisitor) Name() string { return VisitorFinancedCommission }

func (v *FinancedCommissionVisitor) Dependencies() []string {
	return []string{VisitorAccountAttribution}
}

// DocumentDates follows the month-end policy. A schedule that never had an
// activation and has no applicable deduction-rate feature yields nothing.
func (v *FinancedCommissionVisitor) DocumentDates(ctx context.Context, schedule *domain.Schedule, from, thru time.Time) ([]time.Time, error) {
	if schedule.Kind != domain.KindPremium {
		return nil, nil
	}

	if !schedule.Activated() {
		has, err := v.catalog.HasFeatureAt(ctx, schedule.ProductID, domain.FeatureDeductionRate, thru)
		if err != nil {
			return nil, err
		}

		if !has {
			return nil, nil
		}
	}

	txs, err := v.transactions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}

	return monthEndDocumentDates(schedule, txs, from, thru), nil
}

// VisitAt books the deduction due at the document date, gated by the
// product's deduction periodicity.
func (v *FinancedCommissionVisitor) VisitAt(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate, lastVisited time.Time) error {
	if schedule.Kind != domain.KindPremium {
		return nil
	}

	if !documentDate.Equal(EndOfMonth(documentDate)) && !documentDate.Equal(schedule.ValidThru) {
		return nil
	}

	periodicity, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureDeductionPeriodicity,
		documentDate, schedule.EffectiveDate, decimal.Zero, decimal.New(1, 0))
	if err != nil {
		return err
	}

	month := schedule.MonthIndexAt(documentDate)
	if p := int(periodicity.IntPart()); p > 1 && month%p != 0 {
		return nil
	}

	principal, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureCommissionPrincipal,
		documentDate, schedule.EffectiveDate, schedule.Principal, decimal.Zero)
	if err != nil {
		return err
	}

	if principal.IsZero() {
		return nil
	}

	commissionAccount, err := v.builder.Resolve(domain.ProductAccount(schedule.ProductID, "commission"))
	if err != nil {
		return err
	}

	interestAccount, err := v.builder.Resolve(domain.ProductAccount(schedule.ProductID, "commission_interest"))
	if err != nil {
		return err
	}

	recovered, err := session.TotalUntil(ctx, schedule.ID, documentDate.AddDate(0, 0, -1), LineFilter{
		Account: commissionAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentCommissionCapital},
	})
	if err != nil {
		return err
	}

	remaining := principal.Sub(recovered.Amount)
	if !remaining.IsPositive() {
		return nil
	}

	maxTotalBase, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureDeductionRate,
		documentDate, schedule.EffectiveDate, principal, decimal.Zero)
	if err != nil {
		return err
	}

	if maxTotalBase.IsZero() {
		return nil
	}

	interest, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureInterestRate,
		documentDate, schedule.EffectiveDate, remaining, decimal.Zero)
	if err != nil {
		return err
	}

	deducedPct, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureDeducedInterest,
		documentDate, schedule.EffectiveDate, hundredBase, decimal.Zero)
	if err != nil {
		return err
	}

	deduction, err := DeduceAt(remaining, maxTotalBase, interest, deducedPct)
	if err != nil {
		return err
	}

	bookedCapital, err := session.TotalAt(ctx, schedule.ID, documentDate, LineFilter{
		Account: commissionAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentCommissionCapital},
	})
	if err != nil {
		return err
	}

	bookedInterest, err := session.TotalAt(ctx, schedule.ID, documentDate, LineFilter{
		Account: interestAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentCommissionInterest},
	})
	if err != nil {
		return err
	}

	deltaCapital := deduction.Capital.Sub(bookedCapital.Amount)
	deltaInterest := deduction.Interest.Sub(bookedInterest.Amount)

	if !exceedsTolerance(deltaCapital) && !exceedsTolerance(deltaInterest) {
		return nil
	}

	requests, err := v.builder.Sales(SalesInput{
		Schedule:     schedule,
		BookDate:     bookDate,
		DocumentDate: documentDate,
		Book:         v.book,
		Type:         domain.FulfillmentCommissionCapital,
		Remark:       "financed commission deduction",
		Lines: []Line{
			{Account: domain.ScheduleAccount(schedule.ID), Amount: deltaCapital.Add(deltaInterest).Neg()},
			{Account: domain.ProductAccount(schedule.ProductID, "commission"), Amount: deltaCapital},
			{Account: domain.ProductAccount(schedule.ProductID, "commission_interest"), Amount: deltaInterest, Type: domain.FulfillmentCommissionInterest},
		},
	})
	if err != nil {
		return err
	}

	return session.Register(ctx, requests...)
}
