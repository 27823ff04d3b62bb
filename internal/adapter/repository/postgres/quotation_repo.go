package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/contractledger/internal/domain"
)

// QuotationRepository implements usecase.QuotationRepository.
type QuotationRepository struct {
	pool *pgxpool.Pool
}

// NewQuotationRepository creates a new QuotationRepository.
func NewQuotationRepository(pool *pgxpool.Pool) *QuotationRepository {
	return &QuotationRepository{pool: pool}
}

// ValueAt returns the verified quotation in force at the given date, which
// is the latest one starting on or before it.
func (r *QuotationRepository) ValueAt(ctx context.Context, fundID string, at time.Time) (*domain.Quotation, error) {
	query := `
		SELECT fund_id, from_date, value, verified
		FROM fund_quotations
		WHERE fund_id = $1
		  AND verified
		  AND from_date <= $2
		ORDER BY from_date DESC
		LIMIT 1
	`

	q, err := scanQuotation(r.pool.QueryRow(ctx, query, fundID, timeToPgDate(at)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuotationNotFound
		}

		return nil, err
	}

	return q, nil
}

// ListVerified returns the verified quotations of a fund starting after
// from and no later than thru, oldest first.
func (r *QuotationRepository) ListVerified(ctx context.Context, fundID string, from, thru time.Time) ([]*domain.Quotation, error) {
	query := `
		SELECT fund_id, from_date, value, verified
		FROM fund_quotations
		WHERE fund_id = $1
		  AND verified
		  AND from_date > $2
		  AND from_date <= $3
		ORDER BY from_date
	`

	rows, err := r.pool.Query(ctx, query, fundID, timeToPgDate(from), timeToPgDate(thru))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotations []*domain.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}

		quotations = append(quotations, q)
	}

	return quotations, rows.Err()
}

func scanQuotation(row pgx.Row) (*domain.Quotation, error) {
	q := &domain.Quotation{}

	var (
		fromDate pgtype.Date
		value    pgtype.Numeric
	)

	if err := row.Scan(&q.FundID, &fromDate, &value, &q.Verified); err != nil {
		return nil, err
	}

	q.FromDate = fromDate.Time
	q.Value = numericToDecimal(value)

	return q, nil
}
