package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// Visitor names, also used as chain-state keys.
const (
	VisitorAccountAttribution   = "account_attribution"
	VisitorSecurityOrder        = "security_order"
	VisitorQuotationRevaluation = "quotation_revaluation"
	VisitorInterest             = "interest_attribution"
	VisitorFinancedCommission   = "financed_commission"
	VisitorCompletion           = "transaction_completion"
	VisitorLoanRepayment        = "loan_repayment"
)

// DeltaTolerance is the smallest amount difference worth posting: one
// hundredth of a unit. Anything below is rounding noise, and re-posting it
// would break at-most-once booking.
var DeltaTolerance = decimal.New(1, -2)

func exceedsTolerance(d decimal.Decimal) bool {
	return d.Abs().GreaterThanOrEqual(DeltaTolerance)
}

// Visitor is a delta-based computation: for a schedule and a document date
// it posts the difference between the analytically correct state and the
// already-booked state. Visiting the same date twice emits nothing the
// second time.
type Visitor interface {
	Name() string
	// Dependencies lists visitor names that must be chained before this one.
	Dependencies() []string
	// DocumentDates returns the ascending, deduplicated dates in
	// (from, thru] at which this visitor must re-evaluate the schedule.
	DocumentDates(ctx context.Context, schedule *domain.Schedule, from, thru time.Time) ([]time.Time, error)
	// VisitAt computes the delta at one document date and registers the
	// resulting booking requests on the session.
	VisitAt(ctx context.Context, session *AccountingSession, schedule *domain.Schedule, documentDate, bookDate, lastVisited time.Time) error
}

// hundredBase is the per-hundred contract base that contract-level
// percentage features (exit rate, deduced interest) are applied to.
var hundredBase = decimal.New(100, 0)
