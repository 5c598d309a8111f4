package driver

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPool is the part of *pgxpool.Pool the ledger uses.
type PostgresPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS coupons (
    id             TEXT PRIMARY KEY,
    name           TEXT,
    percent_off    DOUBLE PRECISION,
    duration       TEXT,
    times_redeemed BIGINT,
    valid          BOOLEAN,
    redeem_by      TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS promotion_codes (
    id                     TEXT PRIMARY KEY,
    code                   TEXT NOT NULL,
    coupon_id              TEXT REFERENCES coupons (id),
    active                 BOOLEAN,
    max_redemptions        BIGINT,
    times_redeemed         BIGINT,
    first_time_transaction BOOLEAN,
    expires_at             TIMESTAMPTZ,
    created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// ConnectSQL opens a pool on url and makes sure the ledger tables exist.
func ConnectSQL(ctx context.Context, url string) (*pgxpool.Pool, error) {

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if err = EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func EnsureSchema(ctx context.Context, pool PostgresPool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}
