package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/contractledger/internal/adapter/http/dto"
	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

// LedgerHandler serves read-only posted-line queries for a schedule.
type LedgerHandler struct {
	ledger usecase.Ledger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger usecase.Ledger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// ListLines lists the posted lines of a schedule, restricted by optional
// account, type, and date-range query parameters.
func (h *LedgerHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		writeError(w, http.StatusBadRequest, "missing schedule ID", "")
		return
	}

	filter, err := lineFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	lines, err := h.ledger.Lines(r.Context(), scheduleID, filter)
	if err != nil {
		writeDomainError(w, "failed to list lines", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLinesResponse{
		Lines: dto.PostedLinesFromUseCase(lines),
		Total: len(lines),
	})
}

// GetTotals sums the posted lines of a schedule thru a date, restricted by
// the same optional filters as ListLines.
func (h *LedgerHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		writeError(w, http.StatusBadRequest, "missing schedule ID", "")
		return
	}

	thru, ok, err := parseDateQuery(r, "thru")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid thru date", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "missing thru date", "pass ?thru=YYYY-MM-DD")
		return
	}

	filter, err := lineFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	totals, err := h.ledger.TotalUntil(r.Context(), scheduleID, thru, filter)
	if err != nil {
		writeDomainError(w, "failed to sum lines", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalsFromUseCase(totals))
}

func lineFilterFromQuery(r *http.Request) (usecase.LineFilter, error) {
	var filter usecase.LineFilter

	filter.Account = r.URL.Query().Get("account")

	if t := r.URL.Query().Get("type"); t != "" {
		filter.Types = []domain.FulfillmentType{domain.FulfillmentType(t)}
	}

	if from, ok, err := parseDateQuery(r, "from"); err != nil {
		return filter, err
	} else if ok {
		filter.FromDocumentDate = &from
	}

	if thru, ok, err := parseDateQuery(r, "thru"); err != nil {
		return filter, err
	} else if ok {
		filter.ThruDocumentDate = &thru
	}

	return filter, nil
}
