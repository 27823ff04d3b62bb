package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// PostedLine pairs a mirrored ledger entry with its fulfillment link.
type PostedLine struct {
	Entry       *domain.LedgerEntry
	Fulfillment *domain.Fulfillment
}

// LineFilter restricts posted-line queries. Zero-valued fields do not
// filter. AtDocumentDate matches the exact document date only.
type LineFilter struct {
	FromDocumentDate *time.Time
	ThruDocumentDate *time.Time
	AtDocumentDate   *time.Time
	ThruBookDate     *time.Time
	AssociatedToID   *string
	WithinID         *string
	Types            []domain.FulfillmentType
	Account          string
	// WithoutWithin selects only lines not caused by a transaction,
	// separating periodic investment orders from transaction orders.
	WithoutWithin bool
}

// Matches reports whether a posted line satisfies the filter. Repositories
// filter in SQL; the session overlay and the in-memory test store reuse
// this to guarantee identical semantics.
func (f LineFilter) Matches(line *PostedLine) bool {
	e, ful := line.Entry, line.Fulfillment

	if f.FromDocumentDate != nil && e.DocumentDate.Before(*f.FromDocumentDate) {
		return false
	}

	if f.ThruDocumentDate != nil && e.DocumentDate.After(*f.ThruDocumentDate) {
		return false
	}

	if f.AtDocumentDate != nil && !e.DocumentDate.Equal(*f.AtDocumentDate) {
		return false
	}

	if f.ThruBookDate != nil && e.BookDate.After(*f.ThruBookDate) {
		return false
	}

	if f.Account != "" && e.Account != f.Account {
		return false
	}

	if f.AssociatedToID != nil {
		if ful.AssociatedToID == nil || *ful.AssociatedToID != *f.AssociatedToID {
			return false
		}
	}

	if f.WithinID != nil {
		if ful.WithinID == nil || *ful.WithinID != *f.WithinID {
			return false
		}
	}

	if f.WithoutWithin && ful.WithinID != nil {
		return false
	}

	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if ful.Type == t {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

// EntryRepository persists the append-only mirror of posted ledger lines.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	MaxDocumentDate(ctx context.Context, scheduleID string) (*time.Time, error)
}

// FulfillmentRepository persists fulfillment links and serves joined
// posted-line queries for a schedule.
type FulfillmentRepository interface {
	Create(ctx context.Context, tx Transaction, fulfillment *domain.Fulfillment) error
	// GetByEntryKey resolves a fulfillment from its entry key. When no row
	// matches, the lookup retries with line number -1 (legacy rows were
	// stored without a line number) before reporting not-found.
	GetByEntryKey(ctx context.Context, key domain.EntryKey) (*domain.Fulfillment, error)
	ListForSchedule(ctx context.Context, scheduleID string, filter LineFilter) ([]*PostedLine, error)
}

// ScheduleRepository provides read access to contract schedules.
type ScheduleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	// ListNeedingVisit returns verified schedules whose chain state lags
	// thru, paged for batch consumption.
	ListNeedingVisit(ctx context.Context, thru time.Time, limit, offset int) ([]*domain.Schedule, error)
}

// TransactionRepository provides access to dated contract transactions.
type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ContractTransaction, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.ContractTransaction, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error
}

// QuotationRepository provides verified fund quotations.
type QuotationRepository interface {
	// ValueAt returns the verified quotation in force at the date.
	ValueAt(ctx context.Context, fundID string, at time.Time) (*domain.Quotation, error)
	// ListVerified returns verified quotations with from-date in (from, thru].
	ListVerified(ctx context.Context, fundID string, from, thru time.Time) ([]*domain.Quotation, error)
}

// ChainStateRepository tracks the last visited document date per visitor
// and schedule.
type ChainStateRepository interface {
	LastVisited(ctx context.Context, scheduleID, visitor string) (*time.Time, error)
	SetLastVisited(ctx context.Context, tx Transaction, scheduleID, visitor string, date time.Time) error
}

// FeatureCatalog is the read-only product configuration collaborator.
type FeatureCatalog interface {
	// AppliedFeatureAt resolves the feature valid at documentDate for the
	// product and applies it to base. Returns def when no feature applies.
	AppliedFeatureAt(ctx context.Context, productID string, name domain.FeatureName, documentDate, effectiveFrom time.Time, base, def decimal.Decimal) (decimal.Decimal, error)
	// HasFeatureAt reports whether a feature is in force at the date.
	HasFeatureAt(ctx context.Context, productID string, name domain.FeatureName, documentDate time.Time) (bool, error)
}

// AccountingSink is the boundary to the external accounting package: it
// consumes booking requests inside the pass transaction. The engine never
// talks to the ledger package directly.
type AccountingSink interface {
	Register(ctx context.Context, tx Transaction, request *BookingRequest) error
}

// ScheduleLocker serializes passes on one schedule. Acquire returns
// domain.ErrScheduleLocked when another pass holds the schedule.
type ScheduleLocker interface {
	Acquire(ctx context.Context, scheduleID string) (token string, err error)
	Release(ctx context.Context, scheduleID, token string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
