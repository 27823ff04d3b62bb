package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

func TestPostedLineFromUseCase(t *testing.T) {
	documentDate := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	within := "tx-1"

	entry := &domain.LedgerEntry{
		Account:        "510",
		Book:           "SALES",
		DocumentNumber: "doc-1",
		BookDate:       documentDate,
		LineNumber:     2,
		Amount:         decimal.RequireFromString("-1000"),
		Quantity:       decimal.RequireFromString("-100"),
		DocumentDate:   documentDate,
		State:          domain.StateConfirmed,
	}

	resp := PostedLineFromUseCase(&usecase.PostedLine{
		Entry: entry,
		Fulfillment: &domain.Fulfillment{
			ID:          "ful-1",
			Entry:       entry.Key(),
			Type:        domain.FulfillmentSecurityOrder,
			BookingOfID: "sched-1",
			WithinID:    &within,
		},
	})

	assert.Equal(t, "510", resp.Account)
	assert.Equal(t, 2, resp.LineNumber)
	assert.Equal(t, string(domain.FulfillmentSecurityOrder), resp.Type)
	require.NotNil(t, resp.WithinID)
	assert.Equal(t, "tx-1", *resp.WithinID)
	assert.Nil(t, resp.AssociatedToID)
}

func TestTotalsFromUseCase(t *testing.T) {
	totals := usecase.Totals{
		Amount:   decimal.RequireFromString("150.50"),
		Quantity: decimal.Zero,
		ByAccount: map[string]usecase.AccountTotal{
			"510": {Amount: decimal.RequireFromString("150.50"), Quantity: decimal.Zero},
		},
	}

	resp := TotalsFromUseCase(totals)

	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("150.50")))
	require.Contains(t, resp.ByAccount, "510")
	assert.True(t, resp.ByAccount["510"].Amount.Equal(decimal.RequireFromString("150.50")))
}

func TestBatchResultFromUseCase(t *testing.T) {
	result := &usecase.BatchResult{
		RunID:   "run-1",
		Thru:    time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
		Visited: 12,
		Skipped: 1,
		Failures: []usecase.ScheduleFailure{
			{ScheduleID: "sched-9", Reason: "missing_quotation: no verified quotation", Business: true},
		},
	}

	resp := BatchResultFromUseCase(result)

	assert.Equal(t, 12, resp.Visited)
	require.Len(t, resp.Failures, 1)
	assert.True(t, resp.Failures[0].Business)
}
