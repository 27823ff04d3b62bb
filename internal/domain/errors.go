package domain

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrFulfillmentNotFound = errors.New("fulfillment not found")
	ErrQuotationNotFound   = errors.New("no verified quotation valid at date")
	ErrUnmappedAccount     = errors.New("no ledger account mapped for booking role")

	// Engine faults. These indicate a programming or configuration error
	// and must abort the pass, never be handled as business outcomes.
	ErrUnbalancedPosting      = errors.New("posting lines do not sum to zero")
	ErrDependencyCycle        = errors.New("visitor dependency cycle")
	ErrUnknownDependency      = errors.New("visitor depends on an unregistered visitor")
	ErrInvalidDeducedInterest = errors.New("deduced interest share must stay below one hundred percent")

	// ErrScheduleLocked means a concurrent pass holds the schedule.
	ErrScheduleLocked = errors.New("schedule pass already in progress")
)

// RuleCode identifies an expected business outcome.
type RuleCode string

const (
	RuleInsufficientUnits   RuleCode = "insufficient_units"
	RuleMissingQuotation    RuleCode = "missing_quotation"
	RuleMissingMandate      RuleCode = "missing_mandate"
	RuleOutOfOrderBooking   RuleCode = "out_of_order_booking"
	RuleScheduleNotVerified RuleCode = "schedule_not_verified"
)

// RuleViolation is a recoverable, user-visible business failure. It aborts
// the current pass for one schedule only; other schedules are unaffected.
type RuleViolation struct {
	Code       RuleCode
	Message    string
	Resolution string
}

func (v *RuleViolation) Error() string {
	if v.Resolution == "" {
		return fmt.Sprintf("%s: %s", v.Code, v.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", v.Code, v.Message, v.Resolution)
}

// NewRuleViolation builds a business failure with a suggested resolution.
func NewRuleViolation(code RuleCode, message, resolution string) *RuleViolation {
	return &RuleViolation{Code: code, Message: message, Resolution: resolution}
}

// AsRuleViolation reports whether err is a business-rule violation.
func AsRuleViolation(err error) (*RuleViolation, bool) {
	var v *RuleViolation
	if errors.As(err, &v) {
		return v, true
	}

	return nil, false
}
