package app_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"goflare.io/voucher"
	"goflare.io/voucher/app"
	"goflare.io/voucher/config"
	"goflare.io/voucher/console"
	"goflare.io/voucher/coupon"
	"goflare.io/voucher/driver"
	"goflare.io/voucher/driver/drivertest"
	"goflare.io/voucher/product"
	"goflare.io/voucher/promotion_code"
	"goflare.io/voucher/stripetest"
)

// sequenceGenerator yields CODE01, CODE02, ... so tests can tell attempts apart.
type sequenceGenerator struct {
	n int
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.n++
	return fmt.Sprintf("CODE%02d", g.n), nil
}

type harness struct {
	srv    *stripetest.Server
	config *config.Config
	out    *bytes.Buffer
	pool   *drivertest.Pool
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := stripetest.NewServer()
	t.Cleanup(srv.Close)
	srv.SetProducts(stripetest.Product{ID: "prod_1", Name: "Gold plan", Active: true})

	return &harness{
		srv: srv,
		config: &config.Config{
			Stripe: config.StripeConfig{
				APIURL:  srv.URL,
				Timeout: 5 * time.Second,
			},
			Output:        config.OutputConfig{Path: filepath.Join(t.TempDir(), "vouchers.txt")},
			PromotionCode: config.PromotionCodeConfig{MaxRejections: config.DefaultMaxRejections},
		},
		out: &bytes.Buffer{},
	}
}

func (h *harness) run(t *testing.T, answers ...string) (*app.Result, error) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	var pool driver.PostgresPool
	if h.pool != nil {
		pool = h.pool
	}
	tm := driver.NewTransactionManager(pool, logger)

	runner := app.NewRunner(
		h.config,
		console.New(strings.NewReader(strings.Join(answers, "\n")+"\n"), h.out),
		voucher.NewFactory(h.config, logger),
		&sequenceGenerator{},
		coupon.NewService(coupon.NewRepository(), tm, logger),
		promotion_code.NewService(promotion_code.NewRepository(), tm, logger),
		logger,
	)

	return runner.Run(context.Background())
}

func (h *harness) outputLines(t *testing.T) []string {
	t.Helper()
	content, err := os.ReadFile(h.config.Output.Path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

func (h *harness) outputExists() bool {
	_, err := os.Stat(h.config.Output.Path)
	return err == nil
}

func TestRunEndToEnd(t *testing.T) {
	h := newHarness(t)

	result, err := h.run(t, "sk_test_123", "  Launch  ", "2030-01-01", "3", "0")
	require.NoError(t, err)

	assert.Equal(t, stripetest.CouponID, result.Coupon.ID)
	assert.Equal(t, "prod_1", result.Product.ID)
	assert.Equal(t, []string{"CODE01", "CODE02", "CODE03"}, result.Codes)
	assert.Equal(t, []string{"CODE01", "CODE02", "CODE03"}, h.outputLines(t))

	redeemBy := time.Date(2030, time.January, 1, 23, 59, 59, 0, time.Local).Unix()

	coupons := h.srv.RequestsTo(stripetest.CouponsPath)
	require.Len(t, coupons, 1)
	assert.Equal(t, "Launch", coupons[0].Form.Get("name"))
	assert.Equal(t, strconv.FormatInt(redeemBy, 10), coupons[0].Form.Get("redeem_by"))
	assert.Equal(t, "prod_1", coupons[0].Form.Get("applies_to[products][0]"))
	percentOff, err := strconv.ParseFloat(coupons[0].Form.Get("percent_off"), 64)
	require.NoError(t, err)
	assert.Equal(t, 100.0, percentOff)

	codes := h.srv.RequestsTo(stripetest.PromotionCodesPath)
	require.Len(t, codes, 3)
	for _, req := range codes {
		assert.Equal(t, "Bearer sk_test_123", req.Authorization)
		assert.Equal(t, stripetest.CouponID, req.Form.Get("coupon"))
		assert.Equal(t, strconv.FormatInt(redeemBy, 10), req.Form.Get("expires_at"))
		assert.Equal(t, "1", req.Form.Get("max_redemptions"))
		assert.Equal(t, "false", req.Form.Get("restrictions[first_time_transaction]"))
	}

	out := h.out.String()
	assert.Contains(t, out, "Enter your Stripe key:")
	assert.Contains(t, out, "[0] Gold plan")
	assert.Contains(t, out, "Creating a coupon...[ DONE ]")
	assert.Contains(t, out, "Promotion code 1 or 3 [CODE01]")
	assert.Contains(t, out, "Promotion code 3 or 3 [CODE03]")
}

func TestRunWithRandomCodes(t *testing.T) {
	h := newHarness(t)
	logger := zaptest.NewLogger(t)
	tm := driver.NewTransactionManager(nil, logger)

	runner := app.NewRunner(
		h.config,
		console.New(strings.NewReader("sk_test_123\nLaunch\n2030-01-01\n3\n0\n"), h.out),
		voucher.NewFactory(h.config, logger),
		promotion_code.NewRandomGenerator(),
		coupon.NewService(coupon.NewRepository(), tm, logger),
		promotion_code.NewService(promotion_code.NewRepository(), tm, logger),
		logger,
	)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	lines := h.outputLines(t)
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Regexp(t, `^[A-Z0-9]{6}$`, line)
	}
}

func TestRunRetriesRejectedCodes(t *testing.T) {
	h := newHarness(t)
	h.srv.SetPromotionCodeStatuses(http.StatusOK, http.StatusBadRequest, http.StatusBadRequest)

	result, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "3", "0")
	require.NoError(t, err)

	assert.Len(t, h.srv.RequestsTo(stripetest.PromotionCodesPath), 5)
	assert.Equal(t, []string{"CODE03", "CODE04", "CODE05"}, result.Codes)
	assert.Equal(t, []string{"CODE03", "CODE04", "CODE05"}, h.outputLines(t))
	assert.NotContains(t, h.out.String(), "CODE01")
}

func TestRunStopsAfterTooManyRejections(t *testing.T) {
	h := newHarness(t)
	h.config.PromotionCode.MaxRejections = 2
	h.srv.SetPromotionCodeStatuses(http.StatusBadRequest)

	result, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "2", "0")
	assert.ErrorIs(t, err, app.ErrTooManyRejections)
	assert.Empty(t, result.Codes)
	assert.Len(t, h.srv.RequestsTo(stripetest.PromotionCodesPath), 3)
	assert.Equal(t, "Too many promotion codes rejected. Aborting.", app.Message(err))
}

func TestRunUnauthorized(t *testing.T) {
	t.Run("listing products", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SetProductsStatus(http.StatusUnauthorized)

		_, err := h.run(t, "sk_wrong", "Launch", "2030-01-01", "3", "0")
		assert.ErrorIs(t, err, voucher.ErrUnauthorized)
		assert.Equal(t, "Unauthorized: Probably wrong stripe key", app.Message(err))
		assert.Len(t, h.srv.Requests(), 1)
		assert.False(t, h.outputExists())
	})

	t.Run("creating the coupon", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SetCouponStatus(http.StatusUnauthorized)

		_, err := h.run(t, "sk_wrong", "Launch", "2030-01-01", "3", "0")
		assert.ErrorIs(t, err, voucher.ErrUnauthorized)
		assert.Len(t, h.srv.Requests(), 2)
		assert.Empty(t, h.srv.RequestsTo(stripetest.PromotionCodesPath))
		assert.False(t, h.outputExists())
	})

	t.Run("creating promotion codes", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SetPromotionCodeStatuses(http.StatusOK, http.StatusOK, http.StatusUnauthorized)

		result, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "3", "0")
		assert.ErrorIs(t, err, voucher.ErrUnauthorized)
		assert.Equal(t, []string{"CODE01"}, result.Codes)
		assert.Len(t, h.srv.RequestsTo(stripetest.PromotionCodesPath), 2)
		assert.Equal(t, []string{"CODE01"}, h.outputLines(t))
	})
}

func TestRunUnexpectedPromotionCodeError(t *testing.T) {
	h := newHarness(t)
	h.srv.SetPromotionCodeStatuses(http.StatusOK, http.StatusInternalServerError)

	result, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "3", "0")
	assert.ErrorIs(t, err, voucher.ErrUnexpected)
	assert.Equal(t, "Unexpected error", app.Message(err))
	assert.Empty(t, result.Codes)
	assert.Len(t, h.srv.RequestsTo(stripetest.PromotionCodesPath), 1)

	content, readErr := os.ReadFile(h.config.Output.Path)
	require.NoError(t, readErr)
	assert.Empty(t, content)
}

func TestRunCouponRejected(t *testing.T) {
	h := newHarness(t)
	h.srv.SetCouponStatus(http.StatusBadRequest)

	_, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "3", "0")
	assert.ErrorIs(t, err, app.ErrCouponRejected)
	assert.ErrorIs(t, err, voucher.ErrRejected)
	assert.Equal(t, "Coupon cannot be created", app.Message(err))
	assert.Empty(t, h.srv.RequestsTo(stripetest.PromotionCodesPath))
}

func TestRunCouponServerError(t *testing.T) {
	h := newHarness(t)
	h.srv.SetCouponStatus(http.StatusInternalServerError)

	_, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "3", "0")
	assert.ErrorIs(t, err, voucher.ErrUnexpected)
	assert.NotErrorIs(t, err, app.ErrCouponRejected)
}

func TestRunInvalidInputMakesNoRequests(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		want    error
		message string
	}{
		{"bad date", []string{"sk_test_123", "Launch", "01/01/2030"}, console.ErrInvalidDate, "Cannot parse date. Aborting."},
		{"bad count", []string{"sk_test_123", "Launch", "2030-01-01", "many"}, console.ErrInvalidCodeCount, "Cannot parse number of vouchers. Aborting."},
		{"zero count", []string{"sk_test_123", "Launch", "2030-01-01", "0"}, console.ErrNonPositiveCodeCount, "Number of codes must be more than zero."},
		{"negative count", []string{"sk_test_123", "Launch", "2030-01-01", "-2"}, console.ErrNonPositiveCodeCount, "Number of codes must be more than zero."},
		{"empty key", []string{"", "Launch", "2030-01-01", "3"}, console.ErrMissingKey, "Stripe key must not be empty. Aborting."},
		{"input ends early", []string{"sk_test_123", "Launch"}, console.ErrNoInput, "No input. Aborting."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.run(t, tt.answers...)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.message, app.Message(err))
			assert.Empty(t, h.srv.Requests())
			assert.False(t, h.outputExists())
		})
	}
}

func TestRunProductSelection(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		want      error
		message   string
	}{
		{"index equal to length", "2", product.ErrProductOutOfRange, "Invalid product selected"},
		{"index past length", "3", product.ErrProductOutOfRange, "Invalid product selected"},
		{"not a number", "gold", product.ErrInvalidSelection, "Cannot parse selected ID of product. Aborting."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.srv.SetProducts(
				stripetest.Product{ID: "prod_1", Name: "Gold plan"},
				stripetest.Product{ID: "prod_2", Name: "Silver plan"},
			)

			_, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "1", tt.selection)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.message, app.Message(err))
			assert.Empty(t, h.srv.RequestsTo(stripetest.CouponsPath))
		})
	}

	t.Run("last product", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SetProducts(
			stripetest.Product{ID: "prod_1", Name: "Gold plan"},
			stripetest.Product{ID: "prod_2", Name: "Silver plan"},
		)

		result, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "1", "1")
		require.NoError(t, err)
		assert.Equal(t, "prod_2", result.Product.ID)
		assert.Equal(t, "prod_2", h.srv.RequestsTo(stripetest.CouponsPath)[0].Form.Get("applies_to[products][0]"))
	})
}

func TestRunNoProducts(t *testing.T) {
	h := newHarness(t)
	h.srv.SetProducts()

	_, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "3")
	assert.ErrorIs(t, err, product.ErrNoProducts)
	assert.Equal(t, "No available products", app.Message(err))
	assert.Empty(t, h.srv.RequestsTo(stripetest.CouponsPath))
}

func TestRunConfiguredKeySkipsPrompt(t *testing.T) {
	h := newHarness(t)
	h.config.Stripe.SecretKey = "sk_test_configured"
	h.config.PromotionCode.FirstTimeTransaction = true

	result, err := h.run(t, "Launch", "2030-01-01", "1", "0")
	require.NoError(t, err)
	assert.Len(t, result.Codes, 1)

	assert.NotContains(t, h.out.String(), "Enter your Stripe key:")
	for _, req := range h.srv.Requests() {
		assert.Equal(t, "Bearer sk_test_configured", req.Authorization)
	}
	assert.Equal(t, "true", h.srv.RequestsTo(stripetest.PromotionCodesPath)[0].Form.Get("restrictions[first_time_transaction]"))
}

func TestRunOutputFileCannotBeCreated(t *testing.T) {
	h := newHarness(t)
	h.config.Output.Path = filepath.Join(t.TempDir(), "missing", "vouchers.txt")

	_, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "3", "0")
	assert.Error(t, err)
	assert.Empty(t, h.srv.RequestsTo(stripetest.PromotionCodesPath))
}

func TestRunRecordsLedger(t *testing.T) {
	h := newHarness(t)
	h.pool = &drivertest.Pool{}

	_, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "2", "0")
	require.NoError(t, err)

	// One transaction for the coupon, one per promotion code.
	require.Len(t, h.pool.Txs, 3)
	assert.Contains(t, h.pool.Txs[0].Execs[0].SQL, "INSERT INTO coupons")
	assert.Contains(t, h.pool.Txs[1].Execs[0].SQL, "INSERT INTO promotion_codes")
	assert.Contains(t, h.pool.Txs[2].Execs[0].SQL, "INSERT INTO promotion_codes")
	for _, tx := range h.pool.Txs {
		assert.True(t, tx.Committed)
	}
}

func TestRunCanceled(t *testing.T) {
	h := newHarness(t)
	logger := zaptest.NewLogger(t)
	tm := driver.NewTransactionManager(nil, logger)

	runner := app.NewRunner(
		h.config,
		console.New(strings.NewReader("sk_test_123\n"), h.out),
		voucher.NewFactory(h.config, logger),
		&sequenceGenerator{},
		coupon.NewService(coupon.NewRepository(), tm, logger),
		promotion_code.NewService(promotion_code.NewRepository(), tm, logger),
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Interrupted.", app.Message(err))
	assert.Empty(t, h.srv.Requests())
}

func TestRunProductListingRejected(t *testing.T) {
	h := newHarness(t)
	h.srv.SetProductsStatus(http.StatusBadRequest)

	_, err := h.run(t, "sk_test_123", "Launch", "2030-01-01", "3")
	assert.ErrorIs(t, err, voucher.ErrRejected)
	assert.Equal(t, "Unexpected error", app.Message(err))
	assert.Empty(t, h.srv.RequestsTo(stripetest.CouponsPath))
}
