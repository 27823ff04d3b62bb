package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/usecase"
)

// VisitResultResponse summarizes one ledger pass in API responses.
type VisitResultResponse struct {
	ScheduleID string    `json:"schedule_id"`
	Thru       time.Time `json:"thru"`
	Dates      int       `json:"dates"`
	Postings   int       `json:"postings"`
}

// VisitResultFromUseCase converts a visit result to a response.
func VisitResultFromUseCase(r *usecase.VisitResult) *VisitResultResponse {
	return &VisitResultResponse{
		ScheduleID: r.ScheduleID,
		Thru:       r.Thru,
		Dates:      r.Dates,
		Postings:   r.Postings,
	}
}

// ScheduleFailureResponse represents one failed schedule of a batch run.
type ScheduleFailureResponse struct {
	ScheduleID string `json:"schedule_id"`
	Reason     string `json:"reason"`
	Business   bool   `json:"business"`
}

// BatchResultResponse summarizes a batch run in API responses.
type BatchResultResponse struct {
	RunID    string                    `json:"run_id"`
	Thru     time.Time                 `json:"thru"`
	Visited  int                       `json:"visited"`
	Skipped  int                       `json:"skipped"`
	Failures []ScheduleFailureResponse `json:"failures,omitempty"`
}

// BatchResultFromUseCase converts a batch result to a response.
func BatchResultFromUseCase(r *usecase.BatchResult) *BatchResultResponse {
	resp := &BatchResultResponse{
		RunID:   r.RunID,
		Thru:    r.Thru,
		Visited: r.Visited,
		Skipped: r.Skipped,
	}

	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, ScheduleFailureResponse{
			ScheduleID: f.ScheduleID,
			Reason:     f.Reason,
			Business:   f.Business,
		})
	}

	return resp
}

// PostedLineResponse represents one posted ledger line in API responses.
type PostedLineResponse struct {
	Account        string          `json:"account"`
	Book           string          `json:"book"`
	DocumentNumber string          `json:"document_number"`
	BookDate       time.Time       `json:"book_date"`
	LineNumber     int             `json:"line_number"`
	Amount         decimal.Decimal `json:"amount"`
	Quantity       decimal.Decimal `json:"quantity"`
	DocumentDate   time.Time       `json:"document_date"`
	State          string          `json:"state"`
	Remark         string          `json:"remark,omitempty"`
	Type           string          `json:"type"`
	AssociatedToID *string         `json:"associated_to_id,omitempty"`
	WithinID       *string         `json:"within_id,omitempty"`
}

// PostedLineFromUseCase converts a posted line to a response.
func PostedLineFromUseCase(line *usecase.PostedLine) *PostedLineResponse {
	return &PostedLineResponse{
		Account:        line.Entry.Account,
		Book:           line.Entry.Book,
		DocumentNumber: line.Entry.DocumentNumber,
		BookDate:       line.Entry.BookDate,
		LineNumber:     line.Entry.LineNumber,
		Amount:         line.Entry.Amount,
		Quantity:       line.Entry.Quantity,
		DocumentDate:   line.Entry.DocumentDate,
		State:          string(line.Entry.State),
		Remark:         line.Entry.Remark,
		Type:           string(line.Fulfillment.Type),
		AssociatedToID: line.Fulfillment.AssociatedToID,
		WithinID:       line.Fulfillment.WithinID,
	}
}

// PostedLinesFromUseCase converts posted lines to responses.
func PostedLinesFromUseCase(lines []*usecase.PostedLine) []*PostedLineResponse {
	result := make([]*PostedLineResponse, len(lines))
	for i, line := range lines {
		result[i] = PostedLineFromUseCase(line)
	}
	return result
}

// ListLinesResponse wraps a posted-line listing.
type ListLinesResponse struct {
	Lines []*PostedLineResponse `json:"lines"`
	Total int                   `json:"total"`
}

// AccountTotalResponse is the contribution of one account to a total.
type AccountTotalResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TotalsResponse represents summed posted lines in API responses.
type TotalsResponse struct {
	Amount    decimal.Decimal                 `json:"amount"`
	Quantity  decimal.Decimal                 `json:"quantity"`
	ByAccount map[string]AccountTotalResponse `json:"by_account,omitempty"`
}

// TotalsFromUseCase converts totals to a response.
func TotalsFromUseCase(t usecase.Totals) *TotalsResponse {
	resp := &TotalsResponse{
		Amount:   t.Amount,
		Quantity: t.Quantity,
	}

	if len(t.ByAccount) > 0 {
		resp.ByAccount = make(map[string]AccountTotalResponse, len(t.ByAccount))
		for account, at := range t.ByAccount {
			resp.ByAccount[account] = AccountTotalResponse{Amount: at.Amount, Quantity: at.Quantity}
		}
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Action  string `json:"action,omitempty"`
}
