package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// SecurityOrderVisitor converts attributed cash into fund units per the
// schedule's distributions, and generates the unit orders required by
// verified redemption and switch transactions.
type SecurityOrderVisitor struct {
	builder      *PostingBuilder
	transactions TransactionRepository
	quotations   QuotationRepository
	book         string
}

// NewSecurityOrderVisitor creates a new SecurityOrderVisitor.
func NewSecurityOrderVisitor(builder *PostingBuilder, transactions TransactionRepository, quotations QuotationRepository, book string) *SecurityOrderVisitor {
	return &SecurityOrderVisitor{builder: builder, transactions: transactions, quotations: quotations, book: book}
}

func (v *SecurityOrderVisitor) Name() string { return VisitorSecurityOrder }

func (v *SecurityOrderVisitor) Dependencies() []string {
	return []string{VisitorAccountAttribution}
}

// DocumentDates yields the verified quotation from-dates of every
// distributed fund, the premium due dates, and verified transaction
// effective dates in range.
func (v *SecurityOrderVisitor) DocumentDates(ctx context.Context, schedule *domain.Schedule, from, thru time.Time) ([]time.Time, error) {
	if schedule.Kind != domain.KindPremium || len(schedule.Distributions) == 0 {
		return nil, nil
	}

	sets := [][]time.Time{schedule.PeriodDueDates(from, thru)}

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

	txs, err := v.transactions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}

	sets = append(sets, verifiedEffectiveDates(txs, from, thru))
	sets = append(sets, backdatedEffectiveDates(txs, from, thru))

	return MergeDates(sets...), nil
}

// VisitAt reconciles investment orders per distribution, then unit orders
// per verified transaction effective on or before the document date.
func (v *SecurityOrderVisitor) VisitAt(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate, lastVisited time.Time) error {
	if schedule.Kind != domain.KindPremium || len(schedule.Distributions) == 0 {
		return nil
	}

	if err := v.reconcileInvestments(ctx, session, schedule, documentDate, bookDate); err != nil {
		return err
	}

	txs, err := v.transactions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return err
	}

	for _, tx := range txs {
		if !tx.IsVerified() || tx.EffectiveDate.After(documentDate) {
			continue
		}

		if err := v.reconcileTransactionOrder(ctx, session, schedule, tx, documentDate, bookDate); err != nil {
			return err
		}
	}

	return nil
}

func (v *SecurityOrderVisitor) reconcileInvestments(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate time.Time) error {
	scheduleAccount, err := v.builder.Resolve(domain.ScheduleAccount(schedule.ID))
	if err != nil {
		return err
	}

	attributed, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
		Account: scheduleAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentAccountAttribution},
	})
	if err != nil {
		return err
	}

	for _, dist := range schedule.Distributions {
		fundAccount, err := v.builder.Resolve(domain.FundAccount(dist.FundID))
		if err != nil {
			return err
		}

		target := domain.RoundHalfUp(attributed.Amount.Mul(dist.Percentage).Div(hundredBase), 2)

		booked, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
			Account:       fundAccount,
			Types:         []domain.FulfillmentType{domain.FulfillmentSecurityOrder},
			WithoutWithin: true,
		})
		if err != nil {
			return err
		}

		delta := target.Sub(booked.Amount)
		if !exceedsTolerance(delta) {
			continue
		}

		quotation, err := v.valueAt(ctx, dist.FundID, documentDate)
		if err != nil {
			return err
		}

		units := quotation.UnitsFor(delta)
		if units.IsZero() {
			continue
		}

		requests, err := v.builder.Sales(SalesInput{
			Schedule:     schedule,
			BookDate:     bookDate,
			DocumentDate: documentDate,
			Book:         v.book,
			Type:         domain.FulfillmentSecurityOrder,
			Remark:       fmt.Sprintf("order %s units of %s", units, dist.FundID),
			Lines: []Line{
				{Account: domain.FundAccount(dist.FundID), Amount: delta, Quantity: units},
				{Account: domain.ScheduleAccount(schedule.ID), Amount: delta.Neg()},
			},
		})
		if err != nil {
			return err
		}

		if err := session.Register(ctx, requests...); err != nil {
			return err
		}
	}

	return nil
}

// reconcileTransactionOrder books the out-leg (and, for switches, the
// in-leg) of one contract transaction. Orders are keyed to the transaction
// through the within link, so re-visits and backdated effective-date moves
// settle to the correct net quantity instead of double-redeeming.
func (v *SecurityOrderVisitor) reconcileTransactionOrder(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, tx *domain.ContractTransaction, documentDate, bookDate time.Time) error {
	if err := v.retractMovedOrders(ctx, session, schedule, tx, bookDate); err != nil {
		return err
	}

	fundAccount, err := v.builder.Resolve(domain.FundAccount(tx.FromFundID))
	if err != nil {
		return err
	}

	bookedTx, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
		Account:  fundAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentSecurityOrder},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	held, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
		Account: fundAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentSecurityOrder},
	})
	if err != nil {
		return err
	}

	// Units attributed to the fund before this transaction's own orders.
	available := held.Quantity.Sub(bookedTx.Quantity)

	quotation, err := v.valueAt(ctx, tx.FromFundID, documentDate)
	if err != nil {
		return err
	}

	target, err := v.targetUnits(tx, quotation, available)
	if err != nil {
		return err
	}

	deltaUnits := target.Sub(bookedTx.Quantity)
	if !deltaUnits.IsZero() {
		amount := domain.RoundHalfUp(deltaUnits.Mul(quotation.Value), 2)

		requests, err := v.builder.Sales(SalesInput{
			Schedule:     schedule,
			BookDate:     bookDate,
			DocumentDate: documentDate,
			Book:         v.book,
			Type:         domain.FulfillmentSecurityOrder,
			WithinID:     &tx.ID,
			Remark:       fmt.Sprintf("%s order for transaction %s", tx.Kind, tx.ID),
			Lines: []Line{
				{Account: domain.FundAccount(tx.FromFundID), Amount: amount, Quantity: deltaUnits},
				{Account: domain.ScheduleAccount(schedule.ID), Amount: amount.Neg()},
			},
		})
		if err != nil {
			return err
		}

		if err := session.Register(ctx, requests...); err != nil {
			return err
		}
	}

	if tx.Kind == domain.TransactionSwitch && tx.ToFundID != "" {
		return v.reconcileSwitchIn(ctx, session, schedule, tx, documentDate, bookDate)
	}

	return nil
}

// retractMovedOrders reverses order lines left behind at a previous
// effective date after the transaction's date moved. Retraction always
// precedes the new order, so a backdated re-insertion never coexists with
// live lines at the later date and the net quantity across both equals a
// single correct run.
func (v *SecurityOrderVisitor) retractMovedOrders(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, tx *domain.ContractTransaction, bookDate time.Time) error {
	lines, err := session.Lines(ctx, schedule.ID, LineFilter{
		Types:    []domain.FulfillmentType{domain.FulfillmentSecurityOrder},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	type accountNet struct {
		amount   decimal.Decimal
		quantity decimal.Decimal
	}

	stale := make(map[int64]map[string]*accountNet)
	var staleDates []time.Time
	for _, line := range lines {
		d := line.Entry.DocumentDate
		if d.Equal(tx.EffectiveDate) {
			continue
		}

		key := d.Unix()
		if _, ok := stale[key]; !ok {
			stale[key] = make(map[string]*accountNet)
			staleDates = append(staleDates, d)
		}

		n, ok := stale[key][line.Entry.Account]
		if !ok {
			n = &accountNet{amount: decimal.Zero, quantity: decimal.Zero}
			stale[key][line.Entry.Account] = n
		}

		n.amount = n.amount.Add(line.Entry.Amount)
		n.quantity = n.quantity.Add(line.Entry.Quantity)
	}

	sort.Slice(staleDates, func(i, j int) bool { return staleDates[i].Before(staleDates[j]) })

	for _, d := range staleDates {
		var reversal []Line
		for _, role := range orderAccounts(schedule, tx) {
			number, err := v.builder.Resolve(role)
			if err != nil {
				return err
			}

			n, ok := stale[d.Unix()][number]
			if !ok || (n.amount.IsZero() && n.quantity.IsZero()) {
				continue
			}

			reversal = append(reversal, Line{
				Account:  role,
				Amount:   n.amount.Neg(),
				Quantity: n.quantity.Neg(),
			})
		}

		if len(reversal) == 0 {
			continue
		}

		requests, err := v.builder.Sales(SalesInput{
			Schedule:     schedule,
			BookDate:     bookDate,
			DocumentDate: d,
			Book:         v.book,
			Type:         domain.FulfillmentSecurityOrder,
			WithinID:     &tx.ID,
			Remark: fmt.Sprintf("retract order for transaction %s moved to %s",
				tx.ID, tx.EffectiveDate.Format("2006-01-02")),
			Lines: reversal,
		})
		if err != nil {
			return err
		}

		if err := session.Register(ctx, requests...); err != nil {
			return err
		}
	}

	return nil
}

// orderAccounts is the fixed set of accounts a transaction's order lines
// can touch.
func orderAccounts(schedule *domain.Schedule, tx *domain.ContractTransaction) []domain.BookingAccount {
	accounts := []domain.BookingAccount{
		domain.FundAccount(tx.FromFundID),
		domain.ScheduleAccount(schedule.ID),
	}

	if tx.ToFundID != "" && tx.ToFundID != tx.FromFundID {
		accounts = append(accounts, domain.FundAccount(tx.ToFundID))
	}

	return accounts
}

// targetUnits computes the signed unit target for a transaction's out-leg.
// A redemption never orders more units than are attributed to the fund:
// over-ordering due to rounding is clamped down, never up.
func (v *SecurityOrderVisitor) targetUnits(tx *domain.ContractTransaction, quotation *domain.Quotation, available decimal.Decimal) (decimal.Decimal, error) {
	if tx.FullRedeem {
		return available.Neg(), nil
	}

	var units decimal.Decimal

	switch {
	case !tx.Units.IsZero():
		units = tx.Units.Neg()
	case !tx.Amount.IsZero():
		units = quotation.UnitsFor(tx.Amount.Neg())
	default:
		return decimal.Zero, nil
	}

	if available.IsNegative() || available.IsZero() {
		return decimal.Zero, nil
	}

	if units.Abs().GreaterThan(available) {
		units = available.Neg()
	}

	return units, nil
}

func (v *SecurityOrderVisitor) reconcileSwitchIn(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, tx *domain.ContractTransaction, documentDate, bookDate time.Time) error {
	fundAccount, err := v.builder.Resolve(domain.FundAccount(tx.ToFundID))
	if err != nil {
		return err
	}

	booked, err := session.TotalUntil(ctx, schedule.ID, documentDate, LineFilter{
		Account:  fundAccount,
		Types:    []domain.FulfillmentType{domain.FulfillmentSecurityOrder},
		WithinID: &tx.ID,
	})
	if err != nil {
		return err
	}

	deltaUnits := tx.UnitsIn.Sub(booked.Quantity)
	if deltaUnits.IsZero() {
		return nil
	}

	quotation, err := v.valueAt(ctx, tx.ToFundID, documentDate)
	if err != nil {
		return err
	}

	amount := domain.RoundHalfUp(deltaUnits.Mul(quotation.Value), 2)

	requests, err := v.builder.Sales(SalesInput{
		Schedule:     schedule,
		BookDate:     bookDate,
		DocumentDate: documentDate,
		Book:         v.book,
		Type:         domain.FulfillmentSecurityOrder,
		WithinID:     &tx.ID,
		Remark:       fmt.Sprintf("switch-in order for transaction %s", tx.ID),
		Lines: []Line{
			{Account: domain.FundAccount(tx.ToFundID), Amount: amount, Quantity: deltaUnits},
			{Account: domain.ScheduleAccount(schedule.ID), Amount: amount.Neg()},
		},
	})
	if err != nil {
		return err
	}

	return session.Register(ctx, requests...)
}

func (v *SecurityOrderVisitor) valueAt(ctx context.Context, fundID string, at time.Time) (*domain.Quotation, error) {
	quotation, err := v.quotations.ValueAt(ctx, fundID, at)
	if err != nil {
		if errors.Is(err, domain.ErrQuotationNotFound) {
			return nil, domain.NewRuleViolation(domain.RuleMissingQuotation,
				fmt.Sprintf("could not verify security %s at %s", fundID, at.Format("2006-01-02")),
				"enter and verify a quotation for the fund first")
		}

		return nil, err
	}

	return quotation, nil
}
