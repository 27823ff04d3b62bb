package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
)

// FeatureRepository implements usecase.FeatureCatalog over the
// product_features table.
type FeatureRepository struct {
	pool *pgxpool.Pool
}

// NewFeatureRepository creates a new FeatureRepository.
func NewFeatureRepository(pool *pgxpool.Pool) *FeatureRepository {
	return &FeatureRepository{pool: pool}
}

// AppliedFeatureAt resolves the feature in force at documentDate and applies
// it to base. Features introduced after the schedule took effect do not bind
// it: rows starting after effectiveFrom are ignored unless effectiveFrom is
// zero. Returns def when no feature applies.
func (r *FeatureRepository) AppliedFeatureAt(ctx context.Context, productID string, name domain.FeatureName, documentDate, effectiveFrom time.Time, base, def decimal.Decimal) (decimal.Decimal, error) {
	feature, err := r.featureAt(ctx, productID, name, documentDate, effectiveFrom)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return def, nil
		}

		return decimal.Zero, err
	}

	return feature.Apply(base), nil
}

// HasFeatureAt reports whether a feature is in force at the date.
func (r *FeatureRepository) HasFeatureAt(ctx context.Context, productID string, name domain.FeatureName, documentDate time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM product_features
			WHERE product_id = $1
			  AND name = $2
			  AND valid_from <= $3
			  AND (valid_thru IS NULL OR valid_thru >= $3)
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, productID, string(name), timeToPgDate(documentDate)).Scan(&exists)

	return exists, err
}

func (r *FeatureRepository) featureAt(ctx context.Context, productID string, name domain.FeatureName, documentDate, effectiveFrom time.Time) (*domain.Feature, error) {
	query := `
		SELECT name, valid_from, valid_thru, fixed, rate
		FROM product_features
		WHERE product_id = $1
		  AND name = $2
		  AND valid_from <= $3
		  AND (valid_thru IS NULL OR valid_thru >= $3)
		  AND ($4::date IS NULL OR valid_from <= $4)
		ORDER BY valid_from DESC
		LIMIT 1
	`

	var grandfather any
	if !effectiveFrom.IsZero() {
		grandfather = timeToPgDate(effectiveFrom)
	}

	f := &domain.Feature{}

	var (
		featureName string
		validFrom   pgtype.Date
		validThru   pgtype.Date
		fixed, rate pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, query, productID, string(name), timeToPgDate(documentDate), grandfather).
		Scan(&featureName, &validFrom, &validThru, &fixed, &rate)
	if err != nil {
		return nil, err
	}

	f.Name = domain.FeatureName(featureName)
	f.ValidFrom = validFrom.Time
	if validThru.Valid {
		t := validThru.Time
		f.ValidThru = &t
	}
	f.Fixed = numericToDecimal(fixed)
	f.Rate = numericToDecimal(rate)

	return f, nil
}
