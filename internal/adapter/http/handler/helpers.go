package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/contractledger/internal/adapter/http/dto"
	"github.com/iho/contractledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps engine errors to HTTP responses. Business-rule
// violations carry their code and resolution so operators can act on them.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	if violation, ok := domain.AsRuleViolation(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(dto.ErrorResponse{
			Error:   message,
			Message: violation.Message,
			Rule:    string(violation.Code),
			Action:  violation.Resolution,
		})

		return
	}

	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrScheduleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFulfillmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuotationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrScheduleLocked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses a YYYY-MM-DD query parameter. A missing parameter
// returns ok=false with no error.
func parseDateQuery(r *http.Request, key string) (time.Time, bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return time.Time{}, false, nil
	}

	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return time.Time{}, false, err
	}

	return t, true, nil
}
