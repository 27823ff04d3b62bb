package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

// TestDeduceAt_TenYearLadder walks the declining yearly rate ladder of a
// ten-year recovery on a financed commission of 148.37 with a fixed 0.55
// interest per period. The half-up/half-down asymmetry is what produces
// these exact figures.
func TestDeduceAt_TenYearLadder(t *testing.T) {
	principal := dec("148.37")
	interest := dec("0.55")

	tests := []struct {
		year      int
		rate      string
		wantTotal string
	}{
		{0, "2.5", "3.71"},
		{1, "2.08", "3.09"},
		{2, "1.67", "2.48"},
		{3, "1.25", "1.85"},
		{4, "0.83", "1.23"},
		{5, "0.42", "0.62"},
		{6, "0.33", "0.49"},
		{7, "0.25", "0.37"},
		{8, "0.17", "0.25"},
		{9, "0.08", "0.12"},
	}

	for _, tt := range tests {
		maxTotalBase := principal.Mul(dec(tt.rate)).Div(dec("100"))

		got, err := usecase.DeduceAt(principal, maxTotalBase, interest, decimal.Zero)
		if err != nil {
			t.Fatalf("DeduceAt(year %d): %v", tt.year, err)
		}

		assertDecimal(t, "total", got.Total, tt.wantTotal)
		assertDecimal(t, "interest", got.Interest, "0.55")
		assertDecimal(t, "capital", got.Capital, dec(tt.wantTotal).Sub(interest).String())
	}
}

// The last recovery years cap the deduction below the period interest, so
// the capital share goes negative instead of being clamped away.
func TestDeduceAt_NegativeCapitalShare(t *testing.T) {
	got, err := usecase.DeduceAt(dec("10.00"), dec("0.4896"), dec("0.55"), decimal.Zero)
	if err != nil {
		t.Fatalf("DeduceAt: %v", err)
	}

	assertDecimal(t, "total", got.Total, "0.49")
	assertDecimal(t, "capital", got.Capital, "-0.06")
	assertDecimal(t, "remaining", got.Remaining, "10.06")
}

func TestDeduceAt_CapitalNeverExceedsRemaining(t *testing.T) {
	got, err := usecase.DeduceAt(dec("1.00"), dec("3.70925"), dec("0.55"), decimal.Zero)
	if err != nil {
		t.Fatalf("DeduceAt: %v", err)
	}

	assertDecimal(t, "capital", got.Capital, "1.00")
	assertDecimal(t, "remaining", got.Remaining, "0")
}

func TestDeduceAt_DeducedInterestShare(t *testing.T) {
	// 20% of the deduction is treated as interest on top of the period
	// interest: capital * 20/80 = a quarter of the capital share.
	got, err := usecase.DeduceAt(dec("100"), dec("10"), dec("0"), dec("20"))
	if err != nil {
		t.Fatalf("DeduceAt: %v", err)
	}

	assertDecimal(t, "capital", got.Capital, "8")
	assertDecimal(t, "interest", got.Interest, "2")
	assertDecimal(t, "total", got.Total, "10")
}

func TestDeduceAt_RejectsFullInterestShare(t *testing.T) {
	for _, pct := range []string{"100", "120", "-1"} {
		_, err := usecase.DeduceAt(dec("100"), dec("10"), dec("0"), dec(pct))
		if !errors.Is(err, domain.ErrInvalidDeducedInterest) {
			t.Fatalf("DeduceAt(pct=%s) err = %v, want ErrInvalidDeducedInterest", pct, err)
		}
	}
}

func TestFinancedCommission_FirstDeduction(t *testing.T) {
	schedule := singlePremiumSchedule("0")
	e := newEngine(t, schedule)

	e.catalog.Add("prod-1", domain.Feature{
		Name:      domain.FeatureCommissionPrincipal,
		ValidFrom: date(2020, time.January, 1),
		Fixed:     dec("148.37"),
	})
	e.catalog.Add("prod-1", domain.Feature{
		Name:      domain.FeatureDeductionRate,
		ValidFrom: date(2020, time.January, 1),
		Rate:      dec("2.5"),
	})
	e.catalog.Add("prod-1", domain.Feature{
		Name:      domain.FeatureInterestRate,
		ValidFrom: date(2020, time.January, 1),
		Fixed:     dec("0.55"),
	})

	e.visit(t, schedule.ID, date(2026, time.January, 31))

	capital := e.total(t, schedule.ID, usecase.LineFilter{
		Account: e.account(t, domain.ProductAccount("prod-1", "commission")),
		Types:   []domain.FulfillmentType{domain.FulfillmentCommissionCapital},
	})
	assertDecimal(t, "recovered capital", capital.Amount, "3.16")

	interest := e.total(t, schedule.ID, usecase.LineFilter{
		Account: e.account(t, domain.ProductAccount("prod-1", "commission_interest")),
		Types:   []domain.FulfillmentType{domain.FulfillmentCommissionInterest},
	})
	assertDecimal(t, "commission interest", interest.Amount, "0.55")

	internal := e.total(t, schedule.ID, usecase.LineFilter{
		Account: e.account(t, domain.ScheduleAccount(schedule.ID)),
		Types: []domain.FulfillmentType{
			domain.FulfillmentCommissionCapital,
			domain.FulfillmentCommissionInterest,
		},
	})
	assertDecimal(t, "deducted from holdings", internal.Amount, "-3.71")
}

func TestFinancedCommission_PeriodicityGate(t *testing.T) {
	schedule := singlePremiumSchedule("0")
	e := newEngine(t, schedule)

	e.catalog.Add("prod-1", domain.Feature{
		Name:      domain.FeatureCommissionPrincipal,
		ValidFrom: date(2020, time.January, 1),
		Fixed:     dec("148.37"),
	})
	e.catalog.Add("prod-1", domain.Feature{
		Name:      domain.FeatureDeductionRate,
		ValidFrom: date(2020, time.January, 1),
		Rate:      dec("2.5"),
	})
	e.catalog.Add("prod-1", domain.Feature{
		Name:      domain.FeatureDeductionPeriodicity,
		ValidFrom: date(2020, time.January, 1),
		Fixed:     dec("12"),
	})

	// Months 1 and 2 fall between yearly deduction dates: only the month-0
	// deduction may book.
	e.visit(t, schedule.ID, date(2026, time.March, 31))

	capital := e.total(t, schedule.ID, usecase.LineFilter{
		Account: e.account(t, domain.ProductAccount("prod-1", "commission")),
		Types:   []domain.FulfillmentType{domain.FulfillmentCommissionCapital},
	})
	assertDecimal(t, "recovered capital", capital.Amount, "3.71")
}
