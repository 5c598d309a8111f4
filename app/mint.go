package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"goflare.io/voucher"
	"goflare.io/voucher/models"
	"goflare.io/voucher/promotion_code"
)

// ErrTooManyRejections is returned when Stripe rejects more codes than
// promotion_code.max_rejections allows.
var ErrTooManyRejections = errors.New("too many promotion codes rejected")

// mint creates requested promotion codes for couponID. A code Stripe rejects
// with 400 is discarded and replaced by a fresh one; any other failure stops
// the loop. It returns the codes created so far, all of which are in the
// output file.
func (r *Runner) mint(ctx context.Context, v voucher.Voucher, couponID string, expiresAt time.Time, requested int) (codes []string, err error) {

	codeFile, err := promotion_code.CreateCodeFile(r.config.Output.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := codeFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	maxRejections := r.config.PromotionCode.MaxRejections
	firstTimeTransaction := r.config.PromotionCode.FirstTimeTransaction

	codes = make([]string, 0, requested)
	rejected := 0

	for len(codes) < requested {
		if err = ctx.Err(); err != nil {
			return codes, err
		}

		var code string
		if code, err = r.generator.Generate(); err != nil {
			return codes, err
		}

		req := models.NewPromotionCodeRequest(couponID, code, expiresAt, firstTimeTransaction)
		var promotionCode *models.PromotionCode
		promotionCode, err = v.CreatePromotionCode(ctx, req)
		if errors.Is(err, voucher.ErrRejected) {
			rejected++
			r.logger.Warn("promotion code rejected, retrying with a new code",
				zap.String("code", code),
				zap.Int("rejected", rejected))
			if maxRejections > 0 && rejected > maxRejections {
				return codes, fmt.Errorf("%w: %d rejected, %d of %d created", ErrTooManyRejections, rejected, len(codes), requested)
			}
			continue
		}
		if err != nil {
			return codes, err
		}

		if err = codeFile.Append(code); err != nil {
			return codes, err
		}
		codes = append(codes, code)
		r.console.Printf("Promotion code %d or %d [%s]\n", len(codes), requested, code)

		if err = r.promotionCode.Record(ctx, promotionCode); err != nil {
			return codes, err
		}
	}

	return codes, nil
}
