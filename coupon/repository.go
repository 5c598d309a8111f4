package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"goflare.io/voucher/models"
)

type Repository interface {
	Upsert(ctx context.Context, tx pgx.Tx, coupon *models.PartialCoupon) error
}

type repository struct{}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Upsert(ctx context.Context, tx pgx.Tx, coupon *models.PartialCoupon) error {
	const query = `
    INSERT INTO coupons (id, name, percent_off, duration, times_redeemed, valid, redeem_by, created_at, updated_at)
    VALUES (@id, @name, @percent_off, @duration, @times_redeemed, @valid, @redeem_by, COALESCE(@created_at, NOW()), @updated_at)
    ON CONFLICT (id) DO UPDATE SET
        name = COALESCE(@name, coupons.name),
        percent_off = COALESCE(@percent_off, coupons.percent_off),
        duration = COALESCE(@duration, coupons.duration),
        times_redeemed = COALESCE(@times_redeemed, coupons.times_redeemed),
        valid = COALESCE(@valid, coupons.valid),
        redeem_by = COALESCE(@redeem_by, coupons.redeem_by),
        updated_at = @updated_at
    WHERE coupons.id = @id
    `

	args := pgx.NamedArgs{
		"id":             coupon.ID,
		"name":           coupon.Name,
		"percent_off":    coupon.PercentOff,
		"duration":       coupon.Duration,
		"times_redeemed": coupon.TimesRedeemed,
		"valid":          coupon.Valid,
		"redeem_by":      coupon.RedeemBy,
		"created_at":     coupon.CreatedAt,
		"updated_at":     time.Now(),
	}

	if _, err := tx.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("failed to upsert coupon: %w", err)
	}

	return nil
}
