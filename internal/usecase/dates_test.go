package usecase

import (
	"testing"
	"time"

	"github.com/iho/contractledger/internal/domain"
	"github.com/shopspring/decimal"
)

func TestEndOfMonth(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{testDate(2026, time.January, 1), testDate(2026, time.January, 31)},
		{testDate(2026, time.January, 31), testDate(2026, time.January, 31)},
		{testDate(2024, time.February, 10), testDate(2024, time.February, 29)},
		{testDate(2026, time.February, 10), testDate(2026, time.February, 28)},
		{testDate(2026, time.December, 5), testDate(2026, time.December, 31)},
	}

	for _, tt := range tests {
		if got := EndOfMonth(tt.in); !got.Equal(tt.want) {
			t.Fatalf("EndOfMonth(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMonthEnds(t *testing.T) {
	got := MonthEnds(testDate(2026, time.January, 31), testDate(2026, time.April, 30))

	want := []time.Time{
		testDate(2026, time.February, 28),
		testDate(2026, time.March, 31),
		testDate(2026, time.April, 30),
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}

	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestMergeDates(t *testing.T) {
	a := []time.Time{testDate(2026, time.March, 1), testDate(2026, time.January, 1)}
	b := []time.Time{testDate(2026, time.January, 1), testDate(2026, time.February, 1)}

	got := MergeDates(a, b)

	want := []time.Time{
		testDate(2026, time.January, 1),
		testDate(2026, time.February, 1),
		testDate(2026, time.March, 1),
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestMonthEndDocumentDates(t *testing.T) {
	schedule := &domain.Schedule{
		EffectiveDate: testDate(2026, time.January, 15),
		ValidThru:     testDate(2026, time.March, 10),
	}

	transactions := []*domain.ContractTransaction{
		{
			Status:        domain.TransactionVerified,
			EffectiveDate: testDate(2026, time.February, 5),
			Amount:        decimal.NewFromInt(100),
		},
		{
			Status:        domain.TransactionDraft,
			EffectiveDate: testDate(2026, time.February, 20),
		},
	}

	got := monthEndDocumentDates(schedule, transactions, testDate(2026, time.January, 14), testDate(2026, time.March, 31))

	// Month ends, the valid-thru date, and the verified transaction date.
	// The draft transaction contributes nothing.
	want := []time.Time{
		testDate(2026, time.January, 31),
		testDate(2026, time.February, 5),
		testDate(2026, time.February, 28),
		testDate(2026, time.March, 10),
		testDate(2026, time.March, 31),
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}

	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
