package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository over the append-only
// ledger mirror.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a mirrored ledger line inside the pass transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO ledger_entries (
			account, book, document_number, book_date, line_number,
			amount, quantity, document_date, state, remark, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.Account,
		entry.Book,
		entry.DocumentNumber,
		timeToPgDate(entry.BookDate),
		entry.LineNumber,
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.Quantity),
		timeToPgDate(entry.DocumentDate),
		string(entry.State),
		entry.Remark,
	)

	return err
}

// MaxDocumentDate returns the latest document date posted for a schedule,
// or nil when nothing is posted yet.
func (r *EntryRepository) MaxDocumentDate(ctx context.Context, scheduleID string) (*time.Time, error) {
	query := `
		SELECT MAX(e.document_date)
		FROM ledger_entries e
		JOIN fulfillments f
		  ON f.entry_account = e.account
		 AND f.entry_book = e.book
		 AND f.entry_document_number = e.document_number
		 AND f.entry_book_date = e.book_date
		 AND f.entry_line_number = e.line_number
		WHERE f.booking_of_id = $1
	`

	var max *time.Time
	if err := r.pool.QueryRow(ctx, query, scheduleID).Scan(&max); err != nil {
		return nil, err
	}

	return max, nil
}
