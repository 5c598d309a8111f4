package app

import (
	"context"
	"errors"

	"goflare.io/voucher"
	"goflare.io/voucher/console"
	"goflare.io/voucher/product"
)

// Message turns an error returned by Run into the line shown to the operator.
func Message(err error) string {
	switch {
	case errors.Is(err, console.ErrNoInput):
		return "No input. Aborting."
	case errors.Is(err, console.ErrMissingKey):
		return "Stripe key must not be empty. Aborting."
	case errors.Is(err, console.ErrInvalidDate):
		return "Cannot parse date. Aborting."
	case errors.Is(err, console.ErrInvalidCodeCount):
		return "Cannot parse number of vouchers. Aborting."
	case errors.Is(err, console.ErrNonPositiveCodeCount):
		return "Number of codes must be more than zero."
	case errors.Is(err, product.ErrNoProducts):
		return "No available products"
	case errors.Is(err, product.ErrInvalidSelection):
		return "Cannot parse selected ID of product. Aborting."
	case errors.Is(err, product.ErrProductOutOfRange):
		return "Invalid product selected"
	case errors.Is(err, voucher.ErrUnauthorized):
		return "Unauthorized: Probably wrong stripe key"
	case errors.Is(err, ErrCouponRejected):
		return "Coupon cannot be created"
	case errors.Is(err, ErrTooManyRejections):
		return "Too many promotion codes rejected. Aborting."
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	case errors.Is(err, voucher.ErrUnexpected), errors.Is(err, voucher.ErrRejected):
		return "Unexpected error"
	default:
		return "Unexpected error: " + err.Error()
	}
}
