package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/adapter/http/dto"
	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

type stubLedger struct {
	lines []*usecase.PostedLine

	gotFilter usecase.LineFilter
}

func (s *stubLedger) Lines(_ context.Context, _ string, filter usecase.LineFilter) ([]*usecase.PostedLine, error) {
	s.gotFilter = filter

	var matched []*usecase.PostedLine
	for _, line := range s.lines {
		if filter.Matches(line) {
			matched = append(matched, line)
		}
	}

	return matched, nil
}

func (s *stubLedger) TotalUntil(ctx context.Context, scheduleID string, thru time.Time, filter usecase.LineFilter) (usecase.Totals, error) {
	filter.ThruDocumentDate = &thru

	lines, err := s.Lines(ctx, scheduleID, filter)
	if err != nil {
		return usecase.Totals{}, err
	}

	totals := usecase.Totals{Amount: decimal.Zero, Quantity: decimal.Zero}
	for _, line := range lines {
		totals.Amount = totals.Amount.Add(line.Entry.Amount)
		totals.Quantity = totals.Quantity.Add(line.Entry.Quantity)
	}

	return totals, nil
}

func (s *stubLedger) TotalAt(ctx context.Context, scheduleID string, documentDate time.Time, filter usecase.LineFilter) (usecase.Totals, error) {
	filter.AtDocumentDate = &documentDate
	return s.TotalUntil(ctx, scheduleID, documentDate, filter)
}

func postedLine(account string, amount string, documentDate time.Time, fulfillmentType domain.FulfillmentType) *usecase.PostedLine {
	entry := &domain.LedgerEntry{
		Account:        account,
		Book:           "SALES",
		DocumentNumber: "doc-1",
		BookDate:       documentDate,
		LineNumber:     1,
		Amount:         decimal.RequireFromString(amount),
		DocumentDate:   documentDate,
		State:          domain.StateConfirmed,
	}

	return &usecase.PostedLine{
		Entry: entry,
		Fulfillment: &domain.Fulfillment{
			ID:          "ful-" + account,
			Entry:       entry.Key(),
			Type:        fulfillmentType,
			BookingOfID: "sched-1",
		},
	}
}

func ledgerRequest(t *testing.T, target string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "sched-1")

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestLedgerHandlerListsFilteredLines(t *testing.T) {
	jan := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)

	ledger := &stubLedger{lines: []*usecase.PostedLine{
		postedLine("240.sched-1", "1000", jan, domain.FulfillmentPremium),
		postedLine("510", "-1000", feb, domain.FulfillmentSecurityOrder),
	}}

	h := NewLedgerHandler(ledger)
	rr := httptest.NewRecorder()

	h.ListLines(rr, ledgerRequest(t, "/api/v1/schedules/sched-1/entries?account=510&type=security_order"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp dto.ListLinesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
	if resp.Lines[0].Account != "510" {
		t.Fatalf("account = %s, want 510", resp.Lines[0].Account)
	}
}

func TestLedgerHandlerTotalsRequireThru(t *testing.T) {
	h := NewLedgerHandler(&stubLedger{})
	rr := httptest.NewRecorder()

	h.GetTotals(rr, ledgerRequest(t, "/api/v1/schedules/sched-1/totals"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestLedgerHandlerTotalsSumThruDate(t *testing.T) {
	jan := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	ledger := &stubLedger{lines: []*usecase.PostedLine{
		postedLine("240.sched-1", "1000", jan, domain.FulfillmentPremium),
		postedLine("240.sched-1", "500", mar, domain.FulfillmentPremium),
	}}

	h := NewLedgerHandler(ledger)
	rr := httptest.NewRecorder()

	h.GetTotals(rr, ledgerRequest(t, "/api/v1/schedules/sched-1/totals?thru=2026-02-28"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp dto.TotalsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !resp.Amount.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("amount = %s, want 1000", resp.Amount)
	}
}
