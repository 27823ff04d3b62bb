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

// ScheduleRepository implements usecase.ScheduleRepository.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `
	id, dossier_id, product_id, customer_id, kind, period_type, status,
	principal, annual_rate, term_months,
	effective_date, valid_from, valid_thru, activated_at,
	created_at, updated_at
`

// GetByID retrieves a schedule with its fund distributions.
func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	schedule, err := scanSchedule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}

		return nil, err
	}

	if err := r.loadDistributions(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// ListNeedingVisit pages through verified schedules whose chain state lags
// thru. A schedule with no chain state at all has never been visited and
// always qualifies.
func (r *ScheduleRepository) ListNeedingVisit(ctx context.Context, thru time.Time, limit, offset int) ([]*domain.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules s
		WHERE s.status IN ('verified', 'expired', 'ended')
		  AND COALESCE(
			(SELECT MIN(cs.last_visited) FROM chain_state cs WHERE cs.schedule_id = s.id),
			'0001-01-01'::date
		  ) < $1
		ORDER BY s.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, timeToPgDate(thru), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*domain.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}

		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, schedule := range schedules {
		if err := r.loadDistributions(ctx, schedule); err != nil {
			return nil, err
		}
	}

	return schedules, nil
}

func (r *ScheduleRepository) loadDistributions(ctx context.Context, schedule *domain.Schedule) error {
	query := `
		SELECT fund_id, percentage
		FROM schedule_distributions
		WHERE schedule_id = $1
		ORDER BY fund_id
	`

	rows, err := r.pool.Query(ctx, query, schedule.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			dist domain.FundDistribution
			pct  pgtype.Numeric
		)

		if err := rows.Scan(&dist.FundID, &pct); err != nil {
			return err
		}

		dist.Percentage = numericToDecimal(pct)
		schedule.Distributions = append(schedule.Distributions, dist)
	}

	return rows.Err()
}

func scanSchedule(row pgx.Row) (*domain.Schedule, error) {
	s := &domain.Schedule{}

	var (
		kind, periodType, status            string
		principal, annualRate               pgtype.Numeric
		effectiveDate, validFrom, validThru pgtype.Date
		activatedAt                         pgtype.Timestamptz
	)

	if err := row.Scan(
		&s.ID, &s.DossierID, &s.ProductID, &s.CustomerID, &kind, &periodType, &status,
		&principal, &annualRate, &s.TermMonths,
		&effectiveDate, &validFrom, &validThru, &activatedAt,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.Kind = domain.ScheduleKind(kind)
	s.PeriodType = domain.PeriodType(periodType)
	s.Status = domain.ScheduleStatus(status)
	s.Principal = numericToDecimal(principal)
	s.AnnualRate = numericToDecimal(annualRate)
	s.EffectiveDate = effectiveDate.Time
	s.ValidFrom = validFrom.Time
	s.ValidThru = validThru.Time
	s.ActivatedAt = pgTimestamptzToTimePtr(activatedAt)

	return s, nil
}
