package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/contractledger/internal/usecase"
)

// ChainStateRepository implements usecase.ChainStateRepository.
type ChainStateRepository struct {
	pool *pgxpool.Pool
}

// NewChainStateRepository creates a new ChainStateRepository.
func NewChainStateRepository(pool *pgxpool.Pool) *ChainStateRepository {
	return &ChainStateRepository{pool: pool}
}

// LastVisited returns the last visited document date for a visitor on a
// schedule, or nil when the visitor never ran.
func (r *ChainStateRepository) LastVisited(ctx context.Context, scheduleID, visitor string) (*time.Time, error) {
	query := `
		SELECT last_visited
		FROM chain_state
		WHERE schedule_id = $1 AND visitor = $2
	`

	var last pgtype.Date
	err := r.pool.QueryRow(ctx, query, scheduleID, visitor).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	t := last.Time

	return &t, nil
}

// SetLastVisited upserts the chain state inside the pass transaction.
func (r *ChainStateRepository) SetLastVisited(ctx context.Context, tx usecase.Transaction, scheduleID, visitor string, date time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO chain_state (schedule_id, visitor, last_visited, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (schedule_id, visitor)
		DO UPDATE SET last_visited = EXCLUDED.last_visited, updated_at = now()
	`

	_, err := pgxTx.Exec(ctx, query, scheduleID, visitor, timeToPgDate(date))

	return err
}
