package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"goflare.io/voucher"
	"goflare.io/voucher/config"
	"goflare.io/voucher/console"
	"goflare.io/voucher/coupon"
	"goflare.io/voucher/models"
	"goflare.io/voucher/product"
	"goflare.io/voucher/promotion_code"
)

// ErrCouponRejected is returned when Stripe refuses to create the coupon.
var ErrCouponRejected = errors.New("coupon cannot be created")

type Runner struct {
	config        *config.Config
	console       *console.Console
	factory       voucher.Factory
	generator     promotion_code.Generator
	coupon        coupon.Service
	promotionCode promotion_code.Service
	logger        *zap.Logger
}

// Result describes a completed run.
type Result struct {
	Coupon     *models.Coupon
	Product    *models.Product
	Codes      []string
	OutputPath string
}

// input holds the operator's answers, already validated.
type input struct {
	secretKey  string
	couponName string
	expiresAt  time.Time
	codeCount  int
}

func NewRunner(
	appConfig *config.Config,
	con *console.Console,
	factory voucher.Factory,
	generator promotion_code.Generator,
	cs coupon.Service,
	pcs promotion_code.Service,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		config:        appConfig,
		console:       con,
		factory:       factory,
		generator:     generator,
		coupon:        cs,
		promotionCode: pcs,
		logger:        logger,
	}
}

// Run collects the operator's input, creates the coupon for the chosen
// product and mints the requested number of promotion codes into the output
// file. Codes written before a failure stay in the file.
func (r *Runner) Run(ctx context.Context) (*Result, error) {

	result, err := r.run(ctx)
	if err != nil {
		r.logger.Error("voucher run aborted", zap.Error(err))
		return result, err
	}

	r.logger.Info("voucher run completed",
		zap.String("coupon_id", result.Coupon.ID),
		zap.Int("codes", len(result.Codes)),
		zap.String("output", result.OutputPath))

	return result, nil
}

func (r *Runner) run(ctx context.Context) (*Result, error) {

	r.console.Println("[ Voucher ]")

	in, err := r.collectInput(ctx)
	if err != nil {
		return nil, err
	}

	v := r.factory(in.secretKey)

	selected, err := r.selectProduct(ctx, v)
	if err != nil {
		return nil, err
	}

	r.console.Printf("Creating a coupon...")
	createdCoupon, err := v.CreateCoupon(ctx, models.NewCouponRequest(in.couponName, selected.ID, in.expiresAt))
	if err != nil {
		r.console.Println()
		if errors.Is(err, voucher.ErrRejected) {
			return nil, fmt.Errorf("%w: %w", ErrCouponRejected, err)
		}
		return nil, err
	}
	r.console.Println("[ DONE ]")

	result := &Result{
		Coupon:     createdCoupon,
		Product:    selected,
		OutputPath: r.config.Output.Path,
	}

	if err = r.coupon.Record(ctx, createdCoupon); err != nil {
		return result, err
	}

	result.Codes, err = r.mint(ctx, v, createdCoupon.ID, in.expiresAt, in.codeCount)

	return result, err
}

func (r *Runner) collectInput(ctx context.Context) (*input, error) {

	in := &input{secretKey: r.config.Stripe.SecretKey}

	if in.secretKey == "" {
		answer, err := r.console.Prompt(ctx, "Enter your Stripe key:")
		if err != nil {
			return nil, err
		}
		if in.secretKey, err = console.ParseSecretKey(answer); err != nil {
			return nil, err
		}
	}

	answer, err := r.console.Prompt(ctx, "Coupon name: ")
	if err != nil {
		return nil, err
	}
	in.couponName = strings.TrimSpace(answer)

	answer, err = r.console.Prompt(ctx, "Expiration date (YYYY-MM-DD):")
	if err != nil {
		return nil, err
	}
	if in.expiresAt, err = console.ParseExpiration(answer); err != nil {
		return nil, err
	}

	answer, err = r.console.Prompt(ctx, "How many codes do you need:")
	if err != nil {
		return nil, err
	}
	if in.codeCount, err = console.ParseCodeCount(answer); err != nil {
		return nil, err
	}

	return in, nil
}

func (r *Runner) selectProduct(ctx context.Context, v voucher.Voucher) (*models.Product, error) {

	products, err := v.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := product.NewCatalog(products)
	if err != nil {
		return nil, err
	}

	r.console.Println("Select a product from list:")
	for _, line := range catalog.Lines() {
		r.console.Println(line)
	}

	answer, err := r.console.ReadLine(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.Select(answer)
}
