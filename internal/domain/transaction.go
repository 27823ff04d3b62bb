package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies dated contract transactions.
type TransactionKind string

const (
	TransactionRedemption TransactionKind = "redemption"
	TransactionSwitch     TransactionKind = "switch"
)

// TransactionStatus is the lifecycle state of a contract transaction.
type TransactionStatus string

const (
	TransactionDraft     TransactionStatus = "draft"
	TransactionVerified  TransactionStatus = "verified"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// ContractTransaction supersedes a verified schedule from its effective
// date: a (partial) redemption or a switch between funds.
type ContractTransaction struct {
	EffectiveDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ID            string
	ScheduleID    string
	FromFundID    string
	ToFundID      string
	Kind          TransactionKind
	Status        TransactionStatus
	Amount        decimal.Decimal
	Units         decimal.Decimal
	UnitsIn       decimal.Decimal
	FullRedeem    bool
}

// IsVerified reports whether the transaction takes part in ledger passes.
func (t *ContractTransaction) IsVerified() bool {
	return t.Status == TransactionVerified || t.Status == TransactionCompleted
}
