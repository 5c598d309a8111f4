package voucher

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v79"
)

var (
	// ErrUnauthorized is returned when Stripe answers 401, usually a wrong secret key.
	ErrUnauthorized = errors.New("unauthorized: probably wrong stripe key")
	// ErrRejected is returned when Stripe answers 400.
	ErrRejected = errors.New("request rejected by stripe")
	// ErrUnexpected covers every other failure, including transport errors.
	ErrUnexpected = errors.New("unexpected error")
)

// classify wraps err with the sentinel matching Stripe's HTTP status.
func classify(op string, err error) error {

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("failed to %s: %w: %w", op, ErrUnauthorized, err)
		case http.StatusBadRequest:
			return fmt.Errorf("failed to %s: %w: %w", op, ErrRejected, err)
		}
	}

	return fmt.Errorf("failed to %s: %w: %w", op, ErrUnexpected, err)
}
