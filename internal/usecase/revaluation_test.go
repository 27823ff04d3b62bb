package usecase_test

import (
	"testing"
	"time"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

func TestRevaluation_TracksQuotationChanges(t *testing.T) {
	schedule := distributed(singlePremiumSchedule("1000"), "fund-1", "100")
	e := newEngine(t, schedule)

	e.quotations.Add(verifiedQuotation("fund-1", date(2026, time.January, 1), "10"))
	e.quotations.Add(verifiedQuotation("fund-1", date(2026, time.February, 1), "12"))

	e.visit(t, schedule.ID, date(2026, time.February, 28))

	fund := e.total(t, schedule.ID, usecase.LineFilter{
		Account: e.account(t, domain.FundAccount("fund-1")),
		Types: []domain.FulfillmentType{
			domain.FulfillmentSecurityOrder,
			domain.FulfillmentSecurityQuotation,
		},
	})
	assertDecimal(t, "fund value", fund.Amount, "1200")
	assertDecimal(t, "fund units", fund.Quantity, "100")

	revaluation := e.total(t, schedule.ID, usecase.LineFilter{
		Account: e.account(t, domain.ProductAccount("prod-1", "revaluation")),
	})
	assertDecimal(t, "revaluation counterpart", revaluation.Amount, "-200")
}

func TestRevaluation_DevaluationPostsNegativeDelta(t *testing.T) {
	schedule := distributed(singlePremiumSchedule("1000"), "fund-1", "100")
	e := newEngine(t, schedule)

	e.quotations.Add(verifiedQuotation("fund-1", date(2026, time.January, 1), "10"))
	e.quotations.Add(verifiedQuotation("fund-1", date(2026, time.February, 1), "9.50"))

	e.visit(t, schedule.ID, date(2026, time.February, 28))

	fund := e.total(t, schedule.ID, usecase.LineFilter{
		Account: e.account(t, domain.FundAccount("fund-1")),
	})
	assertDecimal(t, "fund value", fund.Amount, "950")

	revaluation := e.total(t, schedule.ID, usecase.LineFilter{
		Account: e.account(t, domain.ProductAccount("prod-1", "revaluation")),
	})
	assertDecimal(t, "revaluation counterpart", revaluation.Amount, "50")
}

func TestRevaluation_EmptyHoldingIsIgnored(t *testing.T) {
	schedule := distributed(singlePremiumSchedule("0"), "fund-1", "100")
	e := newEngine(t, schedule)

	e.quotations.Add(verifiedQuotation("fund-1", date(2026, time.February, 1), "12"))

	result := e.visit(t, schedule.ID, date(2026, time.February, 28))
	if result.Postings != 0 {
		t.Fatalf("posted %d lines for an empty holding, want 0", result.Postings)
	}
}
