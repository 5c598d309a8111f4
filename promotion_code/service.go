package promotion_code

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/voucher/driver"
	"goflare.io/voucher/models"
)

type Service interface {
	// Record stores a created promotion code in the ledger. It is a no-op
	// when no database is configured.
	Record(ctx context.Context, promotionCode *models.PromotionCode) error
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

func (s *service) Record(ctx context.Context, promotionCode *models.PromotionCode) error {

	if !s.transactionManager.Enabled() {
		return nil
	}

	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Upsert(ctx, tx, promotionCode.Partial())
	}); err != nil {
		return fmt.Errorf("failed to record promotion code %s: %w", promotionCode.Code, err)
	}

	s.logger.Debug("promotion code recorded",
		zap.String("promotion_code_id", promotionCode.ID),
		zap.String("coupon_id", promotionCode.CouponID))

	return nil
}
