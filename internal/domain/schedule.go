package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleKind distinguishes premium schedules from loan schedules.
type ScheduleKind string

const (
	KindPremium ScheduleKind = "premium"
	KindLoan    ScheduleKind = "loan"
)

// PeriodType is the payment periodicity of a schedule.
type PeriodType string

const (
	PeriodSingle  PeriodType = "single"
	PeriodYearly  PeriodType = "yearly"
	PeriodMonthly PeriodType = "monthly"
)

// ScheduleStatus is the lifecycle state of a schedule.
type ScheduleStatus string

const (
	StatusDraft    ScheduleStatus = "draft"
	StatusComplete ScheduleStatus = "complete"
	StatusVerified ScheduleStatus = "verified"
	StatusExpired  ScheduleStatus = "expired"
	StatusEnded    ScheduleStatus = "ended"
)

// Schedule is the unit of computation: a premium or loan schedule owned by
// a dossier. Immutable once verified except through dated transactions.
type Schedule struct {
	EffectiveDate time.Time
	ValidFrom     time.Time
	ValidThru     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ActivatedAt   *time.Time
	ID            string
	DossierID     string
	ProductID     string
	CustomerID    string
	Kind          ScheduleKind
	PeriodType    PeriodType
	Status        ScheduleStatus
	Principal     decimal.Decimal
	AnnualRate    decimal.Decimal
	Distributions []FundDistribution
	TermMonths    int
}

// IsVerified reports whether the schedule participates in ledger passes.
func (s *Schedule) IsVerified() bool {
	return s.Status == StatusVerified || s.Status == StatusExpired || s.Status == StatusEnded
}

// Activated reports whether the schedule ever had an activation.
func (s *Schedule) Activated() bool {
	return s.ActivatedAt != nil
}

// PeriodDueDates returns the premium due dates inside (from, thru],
// ascending. For a single-premium schedule this is at most the effective
// date itself.
func (s *Schedule) PeriodDueDates(from, thru time.Time) []time.Time {
	var dates []time.Time

	switch s.PeriodType {
	case PeriodSingle:
		if s.EffectiveDate.After(from) && !s.EffectiveDate.After(thru) {
			dates = append(dates, s.EffectiveDate)
		}
	case PeriodYearly:
		for d := s.EffectiveDate; !d.After(thru) && !d.After(s.ValidThru); d = d.AddDate(1, 0, 0) {
			if d.After(from) {
				dates = append(dates, d)
			}
		}
	case PeriodMonthly:
		for d := s.EffectiveDate; !d.After(thru) && !d.After(s.ValidThru); d = d.AddDate(0, 1, 0) {
			if d.After(from) {
				dates = append(dates, d)
			}
		}
	}

	return dates
}

// PremiumDueUntil returns the cumulative premium contractually due as of
// date. Delta-based visitors compare this target against the booked total.
func (s *Schedule) PremiumDueUntil(date time.Time) decimal.Decimal {
	if date.Before(s.EffectiveDate) {
		return decimal.Zero
	}

	switch s.PeriodType {
	case PeriodYearly:
		periods := 0
		for d := s.EffectiveDate; !d.After(date) && !d.After(s.ValidThru); d = d.AddDate(1, 0, 0) {
			periods++
		}

		return s.Principal.Mul(decimal.NewFromInt(int64(periods)))
	case PeriodMonthly:
		periods := 0
		for d := s.EffectiveDate; !d.After(date) && !d.After(s.ValidThru); d = d.AddDate(0, 1, 0) {
			periods++
		}

		return s.Principal.Mul(decimal.NewFromInt(int64(periods)))
	default:
		return s.Principal
	}
}

// MonthIndexAt returns the zero-based month index of date relative to the
// schedule's effective date, used to gate periodic deductions.
func (s *Schedule) MonthIndexAt(date time.Time) int {
	years := date.Year() - s.EffectiveDate.Year()
	months := int(date.Month()) - int(s.EffectiveDate.Month())

	return years*12 + months
}
