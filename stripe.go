package voucher

import (
	"context"
	"net/http"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"goflare.io/voucher/config"
	"goflare.io/voucher/models"
)

// productPageSize is the page size used while walking the product list.
const productPageSize = 100

type StripeVoucher struct {
	client *client.API
	logger *zap.Logger
}

// NewFactory returns a Factory whose vouchers talk to the Stripe backend
// described by appConfig.
func NewFactory(appConfig *config.Config, logger *zap.Logger) Factory {

	backends := newBackends(appConfig.Stripe, logger)

	return func(secretKey string) Voucher {
		return NewStripeVoucher(secretKey, backends, logger)
	}
}

func NewStripeVoucher(secretKey string, backends *stripe.Backends, logger *zap.Logger) *StripeVoucher {
	return &StripeVoucher{
		client: client.New(secretKey, backends),
		logger: logger,
	}
}

func newBackends(stripeConfig config.StripeConfig, logger *zap.Logger) *stripe.Backends {

	httpClient := &http.Client{Timeout: stripeConfig.Timeout}

	apiConfig := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		LeveledLogger:     logger.Sugar(),
		MaxNetworkRetries: stripe.Int64(stripeConfig.MaxNetworkRetries),
	}
	if stripeConfig.APIURL != "" {
		apiConfig.URL = stripe.String(stripeConfig.APIURL)
	}

	uploadsConfig := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		LeveledLogger:     logger.Sugar(),
		MaxNetworkRetries: stripe.Int64(stripeConfig.MaxNetworkRetries),
	}

	return &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, apiConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, apiConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, uploadsConfig),
	}
}

// ListProducts lists every product of the account, following pagination.
func (sv *StripeVoucher) ListProducts(ctx context.Context) ([]*models.Product, error) {

	params := &stripe.ProductListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(productPageSize)

	products := make([]*models.Product, 0)
	iter := sv.client.Products.List(params)
	for iter.Next() {
		products = append(products, models.NewProduct().ConvertFromStripeProduct(iter.Product()))
	}
	if err := iter.Err(); err != nil {
		sv.logger.Error("failed to list Stripe products", zap.Error(err))
		return nil, classify("list Stripe products", err)
	}

	sv.logger.Info("Stripe products listed", zap.Int("count", len(products)))

	return products, nil
}

// CreateCoupon creates a coupon restricted to req.Products.
func (sv *StripeVoucher) CreateCoupon(ctx context.Context, req models.CouponRequest) (*models.Coupon, error) {

	params := &stripe.CouponParams{
		Name:       stripe.String(req.Name),
		PercentOff: stripe.Float64(req.PercentOff),
		RedeemBy:   stripe.Int64(req.RedeemBy.Unix()),
		AppliesTo: &stripe.CouponAppliesToParams{
			Products: stripe.StringSlice(req.Products),
		},
	}
	params.Context = ctx

	stripeCoupon, err := sv.client.Coupons.New(params)
	if err != nil {
		sv.logger.Error("failed to create Stripe coupon", zap.Error(err), zap.Strings("products", req.Products))
		return nil, classify("create Stripe coupon", err)
	}

	sv.logger.Info("Stripe coupon created", zap.String("coupon_id", stripeCoupon.ID))

	return models.NewCoupon().ConvertFromStripeCoupon(stripeCoupon), nil
}

// CreatePromotionCode registers req.Code as a promotion code of req.CouponID.
func (sv *StripeVoucher) CreatePromotionCode(ctx context.Context, req models.PromotionCodeRequest) (*models.PromotionCode, error) {

	params := &stripe.PromotionCodeParams{
		Coupon:         stripe.String(req.CouponID),
		Code:           stripe.String(req.Code),
		ExpiresAt:      stripe.Int64(req.ExpiresAt.Unix()),
		MaxRedemptions: stripe.Int64(req.MaxRedemptions),
		Restrictions: &stripe.PromotionCodeRestrictionsParams{
			FirstTimeTransaction: stripe.Bool(req.FirstTimeTransaction),
		},
	}
	params.Context = ctx

	stripePromotionCode, err := sv.client.PromotionCodes.New(params)
	if err != nil {
		sv.logger.Warn("failed to create Stripe promotion code",
			zap.Error(err),
			zap.String("coupon_id", req.CouponID),
			zap.String("code", req.Code))
		return nil, classify("create Stripe promotion code", err)
	}

	promotionCode := models.NewPromotionCode().ConvertFromStripePromotionCode(stripePromotionCode)
	if promotionCode.Code == "" {
		promotionCode.Code = req.Code
	}
	if promotionCode.CouponID == "" {
		promotionCode.CouponID = req.CouponID
	}

	return promotionCode, nil
}
