package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountingState tracks the lifecycle of a mirrored ledger line.
type AccountingState string

const (
	StateRequested AccountingState = "requested"
	StateDraft     AccountingState = "draft"
	StateConfirmed AccountingState = "confirmed"
	StateFrozen    AccountingState = "frozen"
)

// EntryKey uniquely identifies a ledger line in the external ledger.
type EntryKey struct {
	BookDate       time.Time
	Account        string
	Book           string
	DocumentNumber string
	LineNumber     int
}

func (k EntryKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%d",
		k.Account, k.Book, k.DocumentNumber, k.BookDate.Format("2006-01-02"), k.LineNumber)
}

// LedgerEntry is an immutable, append-only mirror of a posted ledger line.
// Only the accounting state may change after creation, and only through the
// external-sync collaborator.
type LedgerEntry struct {
	CreatedAt      time.Time
	DocumentDate   time.Time
	BookDate       time.Time
	Account        string
	Book           string
	DocumentNumber string
	Remark         string
	State          AccountingState
	Amount         decimal.Decimal
	Quantity       decimal.Decimal
	LineNumber     int
}

// Key returns the uniqueness key of the entry.
func (e *LedgerEntry) Key() EntryKey {
	return EntryKey{
		Account:        e.Account,
		Book:           e.Book,
		DocumentNumber: e.DocumentNumber,
		BookDate:       e.BookDate,
		LineNumber:     e.LineNumber,
	}
}
