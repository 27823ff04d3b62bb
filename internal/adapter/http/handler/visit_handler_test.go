package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/contractledger/internal/adapter/http/dto"
	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

type stubChain struct {
	result *usecase.VisitResult
	err    error

	gotScheduleID string
	gotThru       time.Time
}

func (s *stubChain) VisitSchedule(_ context.Context, scheduleID string, thru time.Time) (*usecase.VisitResult, error) {
	s.gotScheduleID = scheduleID
	s.gotThru = thru

	if s.err != nil {
		return nil, s.err
	}

	return s.result, nil
}

func visitRequest(t *testing.T, scheduleID, body string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedules/"+scheduleID+"/visit", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", scheduleID)

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestVisitHandlerSuccess(t *testing.T) {
	chainSvc := &stubChain{
		result: &usecase.VisitResult{
			ScheduleID: "sched-1",
			Thru:       time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
			Dates:      3,
			Postings:   7,
		},
	}

	h := NewVisitHandler(chainSvc)
	rr := httptest.NewRecorder()

	h.Visit(rr, visitRequest(t, "sched-1", `{"thru":"2026-03-31"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	if chainSvc.gotScheduleID != "sched-1" {
		t.Fatalf("schedule id = %s, want sched-1", chainSvc.gotScheduleID)
	}

	want := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	if !chainSvc.gotThru.Equal(want) {
		t.Fatalf("thru = %s, want %s", chainSvc.gotThru, want)
	}

	var resp dto.VisitResultResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Postings != 7 {
		t.Fatalf("postings = %d, want 7", resp.Postings)
	}
}

func TestVisitHandlerRejectsBadDate(t *testing.T) {
	h := NewVisitHandler(&stubChain{})
	rr := httptest.NewRecorder()

	h.Visit(rr, visitRequest(t, "sched-1", `{"thru":"31-03-2026"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestVisitHandlerMapsRuleViolation(t *testing.T) {
	chainSvc := &stubChain{
		err: domain.NewRuleViolation(domain.RuleMissingQuotation,
			"no verified quotation for fund fund-1",
			"enter and verify a quotation for the fund first"),
	}

	h := NewVisitHandler(chainSvc)
	rr := httptest.NewRecorder()

	h.Visit(rr, visitRequest(t, "sched-1", `{"thru":"2026-03-31"}`))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Rule != string(domain.RuleMissingQuotation) {
		t.Fatalf("rule = %s, want %s", resp.Rule, domain.RuleMissingQuotation)
	}
	if resp.Action == "" {
		t.Fatal("expected a suggested resolution")
	}
}

func TestVisitHandlerMapsNotFound(t *testing.T) {
	h := NewVisitHandler(&stubChain{err: domain.ErrScheduleNotFound})
	rr := httptest.NewRecorder()

	h.Visit(rr, visitRequest(t, "missing", `{"thru":"2026-03-31"}`))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestVisitHandlerMapsLockConflict(t *testing.T) {
	h := NewVisitHandler(&stubChain{err: domain.ErrScheduleLocked})
	rr := httptest.NewRecorder()

	h.Visit(rr, visitRequest(t, "sched-1", `{"thru":"2026-03-31"}`))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusConflict)
	}
}
