package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/contractledger/internal/domain"
)

// LoadAccountScheme builds the account scheme from the product and fund
// account mappings. The mappings are immutable configuration; the scheme is
// loaded once at startup.
func LoadAccountScheme(ctx context.Context, pool *pgxpool.Pool, customerPrefix, schedulePrefix string) (*domain.AccountScheme, error) {
	scheme := &domain.AccountScheme{
		CustomerPrefix:  customerPrefix,
		SchedulePrefix:  schedulePrefix,
		ProductAccounts: make(map[string]string),
		FundAccounts:    make(map[string]string),
	}

	if err := loadMapping(ctx, pool, `SELECT product_id, account FROM product_accounts`, scheme.ProductAccounts); err != nil {
		return nil, err
	}

	if err := loadMapping(ctx, pool, `SELECT fund_id, account FROM fund_accounts`, scheme.FundAccounts); err != nil {
		return nil, err
	}

	return scheme, nil
}

func loadMapping(ctx context.Context, pool *pgxpool.Pool, query string, into map[string]string) error {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, account string
		if err := rows.Scan(&id, &account); err != nil {
			return err
		}

		into[id] = account
	}

	return rows.Err()
}
