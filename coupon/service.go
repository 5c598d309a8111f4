package coupon

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/voucher/driver"
	"goflare.io/voucher/models"
)

type Service interface {
	// Record stores the created coupon in the ledger. It is a no-op when no
	// database is configured.
	Record(ctx context.Context, coupon *models.Coupon) error
}

type service struct {
	repo               Repository
	transactionManager *driver.TransactionManager
	logger             *zap.Logger
}

func NewService(repo Repository, tm *driver.TransactionManager, logger *zap.Logger) Service {
	return &service{
		repo:               repo,
		transactionManager: tm,
		logger:             logger,
	}
}

func (s *service) Record(ctx context.Context, coupon *models.Coupon) error {

	if !s.transactionManager.Enabled() {
		return nil
	}

	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Upsert(ctx, tx, coupon.Partial())
	}); err != nil {
		return fmt.Errorf("failed to record coupon %s: %w", coupon.ID, err)
	}

	s.logger.Info("coupon recorded", zap.String("coupon_id", coupon.ID))

	return nil
}
