package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// TransactionCompletionVisitor settles verified contract transactions whose
// security orders are booked: it pays out redemption proceeds net of the
// product's fees, books switch exit revenue, and marks the transaction
// completed.
type TransactionCompletionVisitor struct {
	builder      *PostingBuilder
	transactions TransactionRepository
	catalog      FeatureCatalog
	book         string
}

// NewTransactionCompletionVisitor creates a new TransactionCompletionVisitor.
func NewTransactionCompletionVisitor(builder *PostingBuilder, transactions TransactionRepository, catalog FeatureCatalog, book string) *TransactionCompletionVisitor {
	return &TransactionCompletionVisitor{builder: builder, transactions: transactions, catalog: catalog, book: book}
}

func (v *TransactionCompletionVisitor) Name() string { return VisitorCompletion }

func (v *TransactionCompletionVisitor) Dependencies() []string {
	return []string{VisitorSecurityOrder}
}

// DocumentDates yields the effective date of every verified transaction in
// range, plus the dates of verified transactions behind the range so a
// moved transaction gets re-settled.
func (v *TransactionCompletionVisitor) DocumentDates(ctx context.Context, schedule *domain.Schedule, from, thru time.Time) ([]time.Time, error) {
	if schedule.Kind != domain.KindPremium {
		return nil, nil
	}

	txs, err := v.transactions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}

	return MergeDates(
		verifiedEffectiveDates(txs, from, thru),
		backdatedEffectiveDates(txs, from, thru),
	), nil
}

// VisitAt settles every verified transaction effective on or before the
// document date. Settlement waits for the security order: a transaction
// without a booked order is left for a later pass.
func (v *TransactionCompletionVisitor) VisitAt(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate, lastVisited time.Time) error {
	if schedule.Kind != domain.KindPremium {
		return nil
	}

	txs, err := v.transactions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return err
	}

	for _, tx := range txs {
		if !tx.IsVerified() || tx.EffectiveDate.After(documentDate) {
			continue
		}

		order, err := v.orderLine(ctx, session, schedule, tx, documentDate)
		if err != nil {
			return err
		}

		if order == nil {
			continue
		}

		switch tx.Kind {
		case domain.TransactionRedemption:
			err = v.settleRedemption(ctx, session, schedule, tx, order, documentDate, bookDate)
		case domain.TransactionSwitch:
			err = v.settleSwitch(ctx, session, schedule, tx, order, documentDate, bookDate)
		}

		if err != nil {
			return err
		}

		if tx.Status != domain.TransactionCompleted {
			if err := v.transactions.UpdateStatus(ctx, session.Tx(), tx.ID, domain.TransactionCompleted, bookDate); err != nil {
				return err
			}
		}
	}

	return nil
}

// orderLine finds the fund-side order leg booked for the transaction. Fee
// and revenue postings are associated to its fulfillment for traceability;
// settled totals key on the within link, which survives a re-sequenced
// order where the fulfillment id does not.
func (v *TransactionCompletionVisitor) orderLine(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, tx *domain.ContractTransaction, documentDate time.Time) (*PostedLine, error) {
	fundAccount, err := v.builder.Resolve(domain.FundAccount(tx.FromFundID))
	if err != nil {
		return nil, err
	}

	lines, err := session.Lines(ctx, schedule.ID, withThru(LineFilter{
		Account:  fundAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentSecurityOrder},
		WithinID: &tx.ID,
	}, documentDate))
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, nil
	}

	return lines[0], nil
}

// settleRedemption pays out the proceeds held on the schedule account, net
// of the product's flat redemption fee and its rate over the net amount.
// Every leg is posted as the delta against what is already booked for this
// transaction, so corrections to the order re-settle instead of stacking.
func (v *TransactionCompletionVisitor) settleRedemption(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, tx *domain.ContractTransaction, order *PostedLine, documentDate, bookDate time.Time) error {
	scheduleAccount, err := v.builder.Resolve(domain.ScheduleAccount(schedule.ID))
	if err != nil {
		return err
	}

	revenueAccount, err := v.builder.Resolve(domain.ProductAccount(schedule.ProductID, "revenue"))
	if err != nil {
		return err
	}

	// Proceeds the order moved onto the schedule account.
	proceeds, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
		Account:  scheduleAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentSecurityOrder},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	net := proceeds.Amount

	fee, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureRedemptionFee,
		documentDate, schedule.EffectiveDate, net, decimal.Zero)
	if err != nil {
		return err
	}

	rate, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureRedemptionRate,
		documentDate, schedule.EffectiveDate, net, decimal.Zero)
	if err != nil {
		return err
	}

	fee = domain.RoundHalfUp(fee, 2)
	rate = domain.RoundHalfUp(rate, 2)

	paidOut, err := settledTotal(ctx, session, schedule.ID, LineFilter{
		Account:  scheduleAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentRedemption},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	bookedFee, err := settledTotal(ctx, session, schedule.ID, LineFilter{
		Account:  revenueAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentRedemptionFee},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	bookedRate, err := settledTotal(ctx, session, schedule.ID, LineFilter{
		Account:  revenueAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentRedemptionRate},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	deltaPayout := net.Neg().Sub(paidOut.Amount)
	deltaFee := fee.Neg().Sub(bookedFee.Amount)
	deltaRate := rate.Neg().Sub(bookedRate.Amount)

	if !exceedsTolerance(deltaPayout) && !exceedsTolerance(deltaFee) && !exceedsTolerance(deltaRate) {
		return nil
	}

	requests, err := v.builder.Sales(SalesInput{
		Schedule:     schedule,
		BookDate:     bookDate,
		DocumentDate: documentDate,
		Book:         v.book,
		Type:         domain.FulfillmentRedemption,
		WithinID:     &tx.ID,
		Remark:       fmt.Sprintf("redemption payout for transaction %s", tx.ID),
		TotalAmount:  deltaPayout.Neg().Sub(deltaFee).Sub(deltaRate),
		Lines: []Line{
			{Account: domain.ScheduleAccount(schedule.ID), Amount: deltaPayout},
			{Account: domain.ProductAccount(schedule.ProductID, "revenue"), Amount: deltaFee,
				Type: domain.FulfillmentRedemptionFee, AssociatedToID: &order.Fulfillment.ID},
			{Account: domain.ProductAccount(schedule.ProductID, "revenue"), Amount: deltaRate,
				Type: domain.FulfillmentRedemptionRate, AssociatedToID: &order.Fulfillment.ID},
		},
	})
	if err != nil {
		return err
	}

	return session.Register(ctx, requests...)
}

// settledTotal sums a transaction's settlement legs regardless of document
// date. A re-sequenced settlement keeps its booked legs dated where they
// were; only the remaining delta is posted at the new date.
func settledTotal(ctx context.Context, session *AccountingSession, scheduleID string, filter LineFilter) (Totals, error) {
	lines, err := session.Lines(ctx, scheduleID, filter)
	if err != nil {
		return Totals{}, err
	}

	return sumLines(lines), nil
}

// settleSwitch books the switch exit revenue: the product's exit rate on
// the per-hundred contract base plus its switch-out rate over the units
// leaving the fund.
func (v *TransactionCompletionVisitor) settleSwitch(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, tx *domain.ContractTransaction, order *PostedLine, documentDate, bookDate time.Time) error {
	revenueAccount, err := v.builder.Resolve(domain.ProductAccount(schedule.ProductID, "revenue"))
	if err != nil {
		return err
	}

	fundAccount, err := v.builder.Resolve(domain.FundAccount(tx.FromFundID))
	if err != nil {
		return err
	}

	ordered, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
		Account:  fundAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentSecurityOrder},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	unitsOut := ordered.Quantity.Neg()

	exit, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureExitRate,
		documentDate, schedule.EffectiveDate, hundredBase, decimal.Zero)
	if err != nil {
		return err
	}

	switchOut, err := v.catalog.AppliedFeatureAt(ctx, schedule.ProductID, domain.FeatureSwitchOutRate,
		documentDate, schedule.EffectiveDate, unitsOut, decimal.Zero)
	if err != nil {
		return err
	}

	revenue := domain.RoundHalfUp(exit.Add(switchOut), 2)

	booked, err := settledTotal(ctx, session, schedule.ID, LineFilter{
		Account:  revenueAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentSwitchRevenue},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	delta := revenue.Neg().Sub(booked.Amount)
	if !exceedsTolerance(delta) {
		return nil
	}

	requests, err := v.builder.Sales(SalesInput{
		Schedule:     schedule,
		BookDate:     bookDate,
		DocumentDate: documentDate,
		Book:         v.book,
		Type:         domain.FulfillmentSwitchRevenue,
		WithinID:     &tx.ID,
		Remark:       fmt.Sprintf("switch revenue for transaction %s", tx.ID),
		TotalAmount:  delta.Neg(),
		Lines: []Line{
			{Account: domain.ProductAccount(schedule.ProductID, "revenue"), Amount: delta,
				AssociatedToID: &order.Fulfillment.ID},
		},
	})
	if err != nil {
		return err
	}

	return session.Register(ctx, requests...)
}
