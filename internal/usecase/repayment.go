package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// Instalment is one row of an amortization table.
type Instalment struct {
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// AmortizationSchedule builds the annuity table for a loan: equal monthly
// payments, interest on the declining balance, the last instalment absorbs
// the rounding remainder so the balance closes at exactly zero.
func AmortizationSchedule(principal, annualRatePct decimal.Decimal, termMonths int) []Instalment {
	if termMonths <= 0 || !principal.IsPositive() {
		return nil
	}

	monthlyRate := annualRatePct.Div(decimal.New(1200, 0))

	var payment decimal.Decimal
	if monthlyRate.IsZero() {
		payment = domain.RoundHalfUp(principal.Div(decimal.NewFromInt(int64(termMonths))), 2)
	} else {
		compound := decimal.New(1, 0).Add(monthlyRate).Pow(decimal.NewFromInt(int64(termMonths)))
		payment = domain.RoundHalfUp(
			principal.Mul(monthlyRate).Mul(compound).Div(compound.Sub(decimal.New(1, 0))), 2)
	}

	table := make([]Instalment, 0, termMonths)
	balance := principal

	for k := 1; k <= termMonths; k++ {
		interest := domain.RoundHalfUp(balance.Mul(monthlyRate), 2)
		repaid := payment.Sub(interest)

		if k == termMonths || repaid.GreaterThan(balance) {
			repaid = balance
		}

		balance = balance.Sub(repaid)
		table = append(table, Instalment{
			Payment:   repaid.Add(interest),
			Interest:  interest,
			Principal: repaid,
			Balance:   balance,
		})
	}

	return table
}

// LoanRepaymentVisitor books the monthly instalments of a loan schedule:
// the principal share extinguishes the outstanding balance on the schedule
// account, the interest share is product revenue.
type LoanRepaymentVisitor struct {
	builder      *PostingBuilder
	transactions TransactionRepository
	book         string
}

// NewLoanRepaymentVisitor creates a new LoanRepaymentVisitor.
func NewLoanRepaymentVisitor(builder *PostingBuilder, transactions TransactionRepository, book string) *LoanRepaymentVisitor {
	return &LoanRepaymentVisitor{builder: builder, transactions: transactions, book: book}
}

func (v *LoanRepaymentVisitor) Name() string { return VisitorLoanRepayment }

func (v *LoanRepaymentVisitor) Dependencies() []string { return nil }

// DocumentDates follows the month-end policy for loan schedules.
func (v *LoanRepaymentVisitor) DocumentDates(ctx context.Context, schedule *domain.Schedule, from, thru time.Time) ([]time.Time, error) {
	if schedule.Kind != domain.KindLoan {
		return nil, nil
	}

	txs, err := v.transactions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}

	return monthEndDocumentDates(schedule, txs, from, thru), nil
}

// VisitAt books the instalment due at the document date's month.
func (v *LoanRepaymentVisitor) VisitAt(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate, lastVisited time.Time) error {
	if schedule.Kind != domain.KindLoan {
		return nil
	}

	if !documentDate.Equal(EndOfMonth(documentDate)) && !documentDate.Equal(schedule.ValidThru) {
		return nil
	}

	month := schedule.MonthIndexAt(documentDate)
	if month < 1 || month > schedule.TermMonths {
		return nil
	}

	table := AmortizationSchedule(schedule.Principal, schedule.AnnualRate, schedule.TermMonths)
	if len(table) < month {
		return nil
	}

	instalment := table[month-1]

	scheduleAccount, err := v.builder.Resolve(domain.ScheduleAccount(schedule.ID))
	if err != nil {
		return err
	}

	interestAccount, err := v.builder.Resolve(domain.ProductAccount(schedule.ProductID, "loan_interest"))
	if err != nil {
		return err
	}

	bookedPrincipal, err := session.TotalAt(ctx, schedule.ID, documentDate, LineFilter{
		Account: scheduleAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentRepaymentInstalment},
	})
	if err != nil {
		return err
	}

	bookedInterest, err := session.TotalAt(ctx, schedule.ID, documentDate, LineFilter{
		Account: interestAccount,
		Types:   []domain.FulfillmentType{domain.FulfillmentRepaymentInstalment},
	})
	if err != nil {
		return err
	}

	deltaPrincipal := instalment.Principal.Sub(bookedPrincipal.Amount)
	deltaInterest := instalment.Interest.Sub(bookedInterest.Amount)

	if !exceedsTolerance(deltaPrincipal) && !exceedsTolerance(deltaInterest) {
		return nil
	}

	requests, err := v.builder.Sales(SalesInput{
		Schedule:     schedule,
		BookDate:     bookDate,
		DocumentDate: documentDate,
		Book:         v.book,
		Type:         domain.FulfillmentRepaymentInstalment,
		Remark:       "loan instalment",
		TotalAmount:  deltaPrincipal.Add(deltaInterest).Neg(),
		Lines: []Line{
			{Account: domain.ScheduleAccount(schedule.ID), Amount: deltaPrincipal},
			{Account: domain.ProductAccount(schedule.ProductID, "loan_interest"), Amount: deltaInterest},
		},
	})
	if err != nil {
		return err
	}

	return session.Register(ctx, requests...)
}
