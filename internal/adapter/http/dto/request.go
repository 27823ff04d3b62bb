package dto

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// VisitScheduleRequest asks for one ledger pass over a schedule.
type VisitScheduleRequest struct {
	Thru string `json:"thru"`
}

// ParseThru parses the thru date.
func (r *VisitScheduleRequest) ParseThru() (time.Time, error) {
	return parseDate(r.Thru)
}

// BatchRunRequest asks for a batch run over every schedule needing a visit.
type BatchRunRequest struct {
	Thru string `json:"thru"`
}

// ParseThru parses the thru date.
func (r *BatchRunRequest) ParseThru() (time.Time, error) {
	return parseDate(r.Thru)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}

	return t, nil
}
