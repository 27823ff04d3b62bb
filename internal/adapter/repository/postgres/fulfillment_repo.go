package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

// FulfillmentRepository implements usecase.FulfillmentRepository. Posted
// lines are served by joining fulfillments with their mirrored entries.
type FulfillmentRepository struct {
	pool *pgxpool.Pool
}

// NewFulfillmentRepository creates a new FulfillmentRepository.
func NewFulfillmentRepository(pool *pgxpool.Pool) *FulfillmentRepository {
	return &FulfillmentRepository{pool: pool}
}

// Create inserts a fulfillment link inside the pass transaction.
func (r *FulfillmentRepository) Create(ctx context.Context, tx usecase.Transaction, fulfillment *domain.Fulfillment) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO fulfillments (
			id, booking_of_id, type, associated_to_id, within_id,
			entry_account, entry_book, entry_document_number,
			entry_book_date, entry_line_number, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	`

	_, err := pgxTx.Exec(ctx, query,
		fulfillment.ID,
		fulfillment.BookingOfID,
		string(fulfillment.Type),
		fulfillment.AssociatedToID,
		fulfillment.WithinID,
		fulfillment.Entry.Account,
		fulfillment.Entry.Book,
		fulfillment.Entry.DocumentNumber,
		timeToPgDate(fulfillment.Entry.BookDate),
		fulfillment.Entry.LineNumber,
	)

	return err
}

// GetByEntryKey resolves a fulfillment from its entry key. Legacy rows
// were stored without a line number; when the exact key misses, the lookup
// retries with line number -1 before reporting not-found.
func (r *FulfillmentRepository) GetByEntryKey(ctx context.Context, key domain.EntryKey) (*domain.Fulfillment, error) {
	fulfillment, err := r.getByKey(ctx, key)
	if err == nil {
		return fulfillment, nil
	}

	if !errors.Is(err, domain.ErrFulfillmentNotFound) {
		return nil, err
	}

	legacy := key
	legacy.LineNumber = -1

	return r.getByKey(ctx, legacy)
}

func (r *FulfillmentRepository) getByKey(ctx context.Context, key domain.EntryKey) (*domain.Fulfillment, error) {
	query := `
		SELECT id, booking_of_id, type, associated_to_id, within_id, created_at
		FROM fulfillments
		WHERE entry_account = $1
		  AND entry_book = $2
		  AND entry_document_number = $3
		  AND entry_book_date = $4
		  AND entry_line_number = $5
	`

	f := &domain.Fulfillment{Entry: key}

	var fulfillmentType string
	err := r.pool.QueryRow(ctx, query,
		key.Account, key.Book, key.DocumentNumber, timeToPgDate(key.BookDate), key.LineNumber,
	).Scan(&f.ID, &f.BookingOfID, &fulfillmentType, &f.AssociatedToID, &f.WithinID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFulfillmentNotFound
		}

		return nil, err
	}

	f.Type = domain.FulfillmentType(fulfillmentType)

	return f, nil
}

// ListForSchedule returns the posted lines of a schedule matching the
// filter, in posting order.
func (r *FulfillmentRepository) ListForSchedule(ctx context.Context, scheduleID string, filter usecase.LineFilter) ([]*usecase.PostedLine, error) {
	query := `
		SELECT
			e.account, e.book, e.document_number, e.book_date, e.line_number,
			e.amount, e.quantity, e.document_date, e.state, e.remark, e.created_at,
			f.id, f.booking_of_id, f.type, f.associated_to_id, f.within_id, f.created_at
		FROM fulfillments f
		JOIN ledger_entries e
		  ON e.account = f.entry_account
		 AND e.book = f.entry_book
		 AND e.document_number = f.entry_document_number
		 AND e.book_date = f.entry_book_date
		 AND e.line_number = f.entry_line_number
		WHERE f.booking_of_id = $1
	`

	args := []any{scheduleID}

	appendArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.FromDocumentDate != nil {
		appendArg(` AND e.document_date >= $%d`, timeToPgDate(*filter.FromDocumentDate))
	}

	if filter.ThruDocumentDate != nil {
		appendArg(` AND e.document_date <= $%d`, timeToPgDate(*filter.ThruDocumentDate))
	}

	if filter.AtDocumentDate != nil {
		appendArg(` AND e.document_date = $%d`, timeToPgDate(*filter.AtDocumentDate))
	}

	if filter.ThruBookDate != nil {
		appendArg(` AND e.book_date <= $%d`, timeToPgDate(*filter.ThruBookDate))
	}

	if filter.Account != "" {
		appendArg(` AND e.account = $%d`, filter.Account)
	}

	if filter.AssociatedToID != nil {
		appendArg(` AND f.associated_to_id = $%d`, *filter.AssociatedToID)
	}

	if filter.WithinID != nil {
		appendArg(` AND f.within_id = $%d`, *filter.WithinID)
	}

	if filter.WithoutWithin {
		query += ` AND f.within_id IS NULL`
	}

	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}

		appendArg(` AND f.type = ANY($%d)`, types)
	}

	query += ` ORDER BY f.seq`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*usecase.PostedLine
	for rows.Next() {
		entry := &domain.LedgerEntry{}
		fulfillment := &domain.Fulfillment{}

		var (
			amount, quantity       pgtype.Numeric
			bookDate, documentDate pgtype.Date
			state, fulfillmentType string
		)

		if err := rows.Scan(
			&entry.Account, &entry.Book, &entry.DocumentNumber, &bookDate, &entry.LineNumber,
			&amount, &quantity, &documentDate, &state, &entry.Remark, &entry.CreatedAt,
			&fulfillment.ID, &fulfillment.BookingOfID, &fulfillmentType,
			&fulfillment.AssociatedToID, &fulfillment.WithinID, &fulfillment.CreatedAt,
		); err != nil {
			return nil, err
		}

		entry.BookDate = bookDate.Time
		entry.DocumentDate = documentDate.Time
		entry.Amount = numericToDecimal(amount)
		entry.Quantity = numericToDecimal(quantity)
		entry.State = domain.AccountingState(state)

		fulfillment.Type = domain.FulfillmentType(fulfillmentType)
		fulfillment.Entry = entry.Key()

		lines = append(lines, &usecase.PostedLine{Entry: entry, Fulfillment: fulfillment})
	}

	return lines, rows.Err()
}
