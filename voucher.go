package voucher

import (
	"context"

	"goflare.io/voucher/models"
)

// Voucher is the subset of the Stripe API needed to mint promotion codes.
type Voucher interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)                                             // Interacts with Stripe
	CreateCoupon(ctx context.Context, req models.CouponRequest) (*models.Coupon, error)                      // Interacts with Stripe
	CreatePromotionCode(ctx context.Context, req models.PromotionCodeRequest) (*models.PromotionCode, error) // Interacts with Stripe
}

// Factory builds a Voucher authenticated with secretKey.
type Factory func(secretKey string) Voucher
