package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/contractledger/internal/adapter/http/dto"
	"github.com/iho/contractledger/internal/usecase"
)

// BatchService defines the behavior needed by BatchHandler.
type BatchService interface {
	Run(ctx context.Context, thru time.Time) (*usecase.BatchResult, error)
}

// BatchHandler handles batch-run requests.
type BatchHandler struct {
	runner BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(runner BatchService) *BatchHandler {
	return &BatchHandler{runner: runner}
}

// Run visits every schedule needing a pass up to the requested date.
func (h *BatchHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	thru, err := req.ParseThru()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid thru date", err.Error())
		return
	}

	result, err := h.runner.Run(r.Context(), thru)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "batch run failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchResultFromUseCase(result))
}
