package usecase

import (
	"sort"
	"time"

	"github.com/iho/contractledger/internal/domain"
)

// EndOfMonth returns the last day of t's month, at midnight UTC.
func EndOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// MonthEnds returns every calendar month-end in (from, thru], ascending.
func MonthEnds(from, thru time.Time) []time.Time {
	var dates []time.Time

	for d := EndOfMonth(from); !d.After(thru); d = EndOfMonth(d.AddDate(0, 0, 1)) {
		if d.After(from) {
			dates = append(dates, d)
		}
	}

	return dates
}

// MergeDates merges date sets into one ascending, deduplicated sequence.
func MergeDates(sets ...[]time.Time) []time.Time {
	seen := make(map[int64]bool)

	var merged []time.Time
	for _, set := range sets {
		for _, d := range set {
			if !seen[d.Unix()] {
				seen[d.Unix()] = true
				merged = append(merged, d)
			}
		}
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Before(merged[j]) })

	return merged
}

// monthEndDocumentDates is the month-end visitor policy: one date per
// month-end inside the range, plus the schedule's valid-thru date if it
// falls in range and is not already a month end, plus any verified
// transaction effective date in range.
func monthEndDocumentDates(schedule *domain.Schedule, transactions []*domain.ContractTransaction, from, thru time.Time) []time.Time {
	dates := MonthEnds(from, thru)

	if schedule.ValidThru.After(from) && !schedule.ValidThru.After(thru) {
		dates = MergeDates(dates, []time.Time{schedule.ValidThru})
	}

	return MergeDates(dates, verifiedEffectiveDates(transactions, from, thru))
}

// verifiedEffectiveDates collects effective dates of verified transactions
// inside (from, thru].
func verifiedEffectiveDates(transactions []*domain.ContractTransaction, from, thru time.Time) []time.Time {
	var dates []time.Time
	for _, t := range transactions {
		if !t.IsVerified() {
			continue
		}

		if t.EffectiveDate.After(from) && !t.EffectiveDate.After(thru) {
			dates = append(dates, t.EffectiveDate)
		}
	}

	return dates
}

// backdatedEffectiveDates collects effective dates of verified transactions
// at or before from. A verified transaction behind the visited range was
// either booked there already, or moved there after the fact; re-declaring
// its date lets the pass re-sequence it, and an unmoved transaction
// reconciles to a zero delta.
func backdatedEffectiveDates(transactions []*domain.ContractTransaction, from, thru time.Time) []time.Time {
	var dates []time.Time
	for _, t := range transactions {
		if !t.IsVerified() {
			continue
		}

		if !t.EffectiveDate.After(from) && !t.EffectiveDate.After(thru) {
			dates = append(dates, t.EffectiveDate)
		}
	}

	return dates
}
