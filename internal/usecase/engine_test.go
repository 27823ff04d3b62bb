package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
	"github.com/iho/contractledger/internal/usecase/mocks"
)

const testBook = "SALES"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testScheme() *domain.AccountScheme {
	return &domain.AccountScheme{
		CustomerPrefix: "400.",
		SchedulePrefix: "240.",
		ProductAccounts: map[string]string{
			"prod-1": "700",
		},
		FundAccounts: map[string]string{
			"fund-1": "510",
			"fund-2": "520",
		},
	}
}

// engine wires the full visitor chain against the in-memory store.
type engine struct {
	store        *mocks.MockAccountingStore
	schedules    *mocks.MockScheduleRepository
	transactions *mocks.MockTransactionRepository
	quotations   *mocks.MockQuotationRepository
	catalog      *mocks.MockFeatureCatalog
	locker       *mocks.MockScheduleLocker
	scheme       *domain.AccountScheme
	builder      *usecase.PostingBuilder
	queries      *usecase.LedgerQuery
	chain        *usecase.Chain
}

func newEngine(t *testing.T, schedules ...*domain.Schedule) *engine {
	t.Helper()

	e := &engine{
		store:        mocks.NewMockAccountingStore(),
		schedules:    mocks.NewMockScheduleRepository(schedules...),
		transactions: mocks.NewMockTransactionRepository(),
		quotations:   mocks.NewMockQuotationRepository(),
		catalog:      mocks.NewMockFeatureCatalog(),
		locker:       mocks.NewMockScheduleLocker(),
		scheme:       testScheme(),
	}

	e.builder = usecase.NewPostingBuilder(e.scheme, mocks.NewMockIDGenerator())
	e.queries = usecase.NewLedgerQuery(e.store.FulfillmentRepo())

	visitors := []usecase.Visitor{
		usecase.NewAttributionVisitor(e.builder, e.transactions, testBook),
		usecase.NewSecurityOrderVisitor(e.builder, e.transactions, e.quotations, testBook),
		usecase.NewQuotationRevaluationVisitor(e.builder, e.quotations, testBook),
		usecase.NewInterestVisitor(e.builder, e.transactions, e.catalog, testBook),
		usecase.NewFinancedCommissionVisitor(e.builder, e.transactions, e.catalog, testBook),
		usecase.NewTransactionCompletionVisitor(e.builder, e.transactions, e.catalog, testBook),
		usecase.NewLoanRepaymentVisitor(e.builder, e.transactions, testBook),
	}

	chain, err := usecase.NewChain(
		visitors, e.schedules, e.store, e.store, e.store, e.store, e.queries, e.locker, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	e.chain = chain.WithClock(func() time.Time { return date(2026, time.June, 1) })

	return e
}

func (e *engine) visit(t *testing.T, scheduleID string, thru time.Time) *usecase.VisitResult {
	t.Helper()

	result, err := e.chain.VisitSchedule(context.Background(), scheduleID, thru)
	if err != nil {
		t.Fatalf("VisitSchedule(%s, %s): %v", scheduleID, thru.Format("2006-01-02"), err)
	}

	return result
}

func (e *engine) account(t *testing.T, account domain.BookingAccount) string {
	t.Helper()

	number, err := e.scheme.Resolve(account)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	return number
}

func (e *engine) total(t *testing.T, scheduleID string, filter usecase.LineFilter) usecase.Totals {
	t.Helper()

	totals, err := e.queries.TotalUntil(context.Background(), scheduleID, date(2100, time.January, 1), filter)
	if err != nil {
		t.Fatalf("TotalUntil: %v", err)
	}

	return totals
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func singlePremiumSchedule(principal string) *domain.Schedule {
	return &domain.Schedule{
		ID:            "sched-1",
		DossierID:     "dossier-1",
		ProductID:     "prod-1",
		CustomerID:    "cust-1",
		Kind:          domain.KindPremium,
		PeriodType:    domain.PeriodSingle,
		Status:        domain.StatusVerified,
		Principal:     dec(principal),
		EffectiveDate: date(2026, time.January, 15),
		ValidFrom:     date(2026, time.January, 15),
		ValidThru:     date(2036, time.January, 14),
	}
}

func distributed(s *domain.Schedule, fundID string, pct string) *domain.Schedule {
	s.Distributions = append(s.Distributions, domain.FundDistribution{
		FundID:     fundID,
		Percentage: dec(pct),
	})

	return s
}

func verifiedQuotation(fundID string, from time.Time, value string) *domain.Quotation {
	return &domain.Quotation{
		FundID:   fundID,
		FromDate: from,
		Value:    dec(value),
		Verified: true,
	}
}
