package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	id, schedule_id, kind, status, effective_date,
	amount, units, units_in, full_redeem, from_fund_id, to_fund_id,
	created_at, updated_at
`

// GetByID retrieves a contract transaction.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.ContractTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM contract_transactions WHERE id = $1`

	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return tx, nil
}

// ListBySchedule returns the transactions of a schedule in effective-date
// order, oldest first.
func (r *TransactionRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.ContractTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM contract_transactions
		WHERE schedule_id = $1
		ORDER BY effective_date, created_at
	`

	rows, err := r.pool.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.ContractTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

// UpdateStatus moves a transaction to a new status inside the pass
// transaction.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, at time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE contract_transactions
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id, string(status), timeToPgTimestamptz(at))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func scanTransaction(row pgx.Row) (*domain.ContractTransaction, error) {
	tx := &domain.ContractTransaction{}

	var (
		kind, status           string
		effectiveDate          pgtype.Date
		amount, units, unitsIn pgtype.Numeric
	)

	if err := row.Scan(
		&tx.ID, &tx.ScheduleID, &kind, &status, &effectiveDate,
		&amount, &units, &unitsIn, &tx.FullRedeem, &tx.FromFundID, &tx.ToFundID,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Kind = domain.TransactionKind(kind)
	tx.Status = domain.TransactionStatus(status)
	tx.EffectiveDate = effectiveDate.Time
	tx.Amount = numericToDecimal(amount)
	tx.Units = numericToDecimal(units)
	tx.UnitsIn = numericToDecimal(unitsIn)

	return tx, nil
}
