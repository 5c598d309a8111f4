package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrNoDatabase is returned by ExecuteTransaction when no pool is configured.
var ErrNoDatabase = errors.New("no database configured")

type TransactionManager struct {
	pool   PostgresPool
	logger *zap.Logger
}

// NewTransactionManager accepts a nil pool; Enabled then reports false.
func NewTransactionManager(pool PostgresPool, logger *zap.Logger) *TransactionManager {
	return &TransactionManager{
		pool:   pool,
		logger: logger,
	}
}

func (tm *TransactionManager) Enabled() bool {
	return tm != nil && tm.pool != nil
}

// ExecuteTransaction runs fn inside a transaction, committing when fn returns
// nil and rolling back otherwise.
func (tm *TransactionManager) ExecuteTransaction(ctx context.Context, fn func(pgx.Tx) error) error {

	if !tm.Enabled() {
		return ErrNoDatabase
	}

	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			tm.logger.Error("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
