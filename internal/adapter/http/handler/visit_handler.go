package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/contractledger/internal/adapter/http/dto"
	"github.com/iho/contractledger/internal/usecase"
)

// ChainService defines the behavior needed by VisitHandler.
type ChainService interface {
	VisitSchedule(ctx context.Context, scheduleID string, thru time.Time) (*usecase.VisitResult, error)
}

// VisitHandler handles ledger-pass requests for one schedule.
type VisitHandler struct {
	chain ChainService
}

// NewVisitHandler creates a new VisitHandler.
func NewVisitHandler(chain ChainService) *VisitHandler {
	return &VisitHandler{chain: chain}
}

// Visit runs one ledger pass over a schedule up to the requested date.
func (h *VisitHandler) Visit(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		writeError(w, http.StatusBadRequest, "missing schedule ID", "")
		return
	}

	var req dto.VisitScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	thru, err := req.ParseThru()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid thru date", err.Error())
		return
	}

	result, err := h.chain.VisitSchedule(r.Context(), scheduleID, thru)
	if err != nil {
		writeDomainError(w, "ledger pass failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VisitResultFromUseCase(result))
}
