// Package stripetest fakes the parts of the Stripe API the voucher tool
// calls: product listing, coupon creation and promotion code creation.
package stripetest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
)

const (
	ProductsPath       = "/v1/products"
	CouponsPath        = "/v1/coupons"
	PromotionCodesPath = "/v1/promotion_codes"

	CouponID = "coupon_test"
)

// Request is what the fake saw of one incoming call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Form          url.Values
}

type Product struct {
	ID     string
	Name   string
	Active bool
}

type Server struct {
	*httptest.Server

	mu                   sync.Mutex
	requests             []Request
	products             []Product
	productsStatus       int
	couponStatus         int
	promotionCodeStatus  []int
	promotionCodeDefault int
	promotionCodeCalls   int
}

// NewServer starts a fake answering 200 to everything with an empty product
// list. Close it when done.
func NewServer() *Server {

	s := &Server{
		productsStatus:       http.StatusOK,
		couponStatus:         http.StatusOK,
		promotionCodeDefault: http.StatusOK,
	}

	e := echo.New()
	e.HideBanner = true
	e.GET(ProductsPath, s.listProducts)
	e.POST(CouponsPath, s.createCoupon)
	e.POST(PromotionCodesPath, s.createPromotionCode)

	s.Server = httptest.NewServer(e)

	return s
}

func (s *Server) SetProducts(products ...Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

func (s *Server) SetProductsStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productsStatus = status
}

func (s *Server) SetCouponStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.couponStatus = status
}

// SetPromotionCodeStatuses scripts the status of the first promotion code
// attempts in order; later attempts get fallback.
func (s *Server) SetPromotionCodeStatuses(fallback int, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotionCodeDefault = fallback
	s.promotionCodeStatus = statuses
}

// Requests returns every request received so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests received on path.
func (s *Server) RequestsTo(path string) []Request {
	var matched []Request
	for _, req := range s.Requests() {
		if req.Path == path {
			matched = append(matched, req)
		}
	}
	return matched
}

func (s *Server) record(c echo.Context) (Request, error) {

	form, err := c.FormParams()
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Method:        c.Request().Method,
		Path:          c.Path(),
		Authorization: c.Request().Header.Get(echo.HeaderAuthorization),
		ContentType:   c.Request().Header.Get(echo.HeaderContentType),
		Form:          form,
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	return req, nil
}

func (s *Server) listProducts(c echo.Context) error {

	if _, err := s.record(c); err != nil {
		return err
	}

	s.mu.Lock()
	status := s.productsStatus
	products := append([]Product(nil), s.products...)
	s.mu.Unlock()

	if status != http.StatusOK {
		return stripeError(c, status)
	}

	data := make([]map[string]any, 0, len(products))
	for _, p := range products {
		data = append(data, map[string]any{
			"id":       p.ID,
			"object":   "product",
			"name":     p.Name,
			"active":   p.Active,
			"created":  1700000000,
			"updated":  1700000000,
			"livemode": false,
			"metadata": map[string]string{},
			"images":   []string{},
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"object":   "list",
		"url":      ProductsPath,
		"has_more": false,
		"data":     data,
	})
}

func (s *Server) createCoupon(c echo.Context) error {

	req, err := s.record(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	status := s.couponStatus
	s.mu.Unlock()

	if status != http.StatusOK {
		return stripeError(c, status)
	}

	percentOff, _ := strconv.ParseFloat(req.Form.Get("percent_off"), 64)
	redeemBy, _ := strconv.ParseInt(req.Form.Get("redeem_by"), 10, 64)

	return c.JSON(http.StatusOK, map[string]any{
		"id":             CouponID,
		"object":         "coupon",
		"name":           req.Form.Get("name"),
		"percent_off":    percentOff,
		"redeem_by":      redeemBy,
		"duration":       "once",
		"valid":          true,
		"times_redeemed": 0,
		"created":        1700000000,
		"livemode":       false,
		"metadata":       map[string]string{},
		"applies_to": map[string]any{
			"products": []string{req.Form.Get("applies_to[products][0]")},
		},
	})
}

func (s *Server) createPromotionCode(c echo.Context) error {

	req, err := s.record(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	attempt := s.promotionCodeCalls
	s.promotionCodeCalls++
	status := s.promotionCodeDefault
	if attempt < len(s.promotionCodeStatus) {
		status = s.promotionCodeStatus[attempt]
	}
	s.mu.Unlock()

	if status != http.StatusOK {
		return stripeError(c, status)
	}

	expiresAt, _ := strconv.ParseInt(req.Form.Get("expires_at"), 10, 64)
	maxRedemptions, _ := strconv.ParseInt(req.Form.Get("max_redemptions"), 10, 64)

	return c.JSON(http.StatusOK, map[string]any{
		"id":              fmt.Sprintf("promo_%d", attempt),
		"object":          "promotion_code",
		"code":            req.Form.Get("code"),
		"active":          true,
		"created":         1700000000,
		"expires_at":      expiresAt,
		"max_redemptions": maxRedemptions,
		"times_redeemed":  0,
		"livemode":        false,
		"metadata":        map[string]string{},
		"coupon": map[string]any{
			"id":     req.Form.Get("coupon"),
			"object": "coupon",
		},
		"restrictions": map[string]any{
			"first_time_transaction": req.Form.Get("restrictions[first_time_transaction]") == "true",
		},
	})
}

func stripeError(c echo.Context, status int) error {
	return c.JSON(status, map[string]any{
		"error": map[string]any{
			"type":    "invalid_request_error",
			"message": http.StatusText(status),
		},
	})
}
