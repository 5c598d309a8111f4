package models

import (
	"time"

	"github.com/stripe/stripe-go/v79"
)

// FullDiscount is the percent_off every minted coupon carries.
const FullDiscount = 100.0

type Coupon struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	PercentOff    float64               `json:"percent_off,omitempty"`
	Duration      stripe.CouponDuration `json:"duration"`
	Products      []string              `json:"products,omitempty"`
	TimesRedeemed int64                 `json:"times_redeemed"`
	Valid         bool                  `json:"valid"`
	Livemode      bool                  `json:"livemode"`
	CreatedAt     time.Time             `json:"created_at"`
	RedeemBy      *time.Time            `json:"redeem_by,omitempty"`
}

type PartialCoupon struct {
	ID            string
	Name          *string
	PercentOff    *float64
	Duration      *stripe.CouponDuration
	TimesRedeemed *int64
	Valid         *bool
	CreatedAt     *time.Time
	RedeemBy      *time.Time
}

// CouponRequest describes the coupon created for one run.
type CouponRequest struct {
	Name       string
	PercentOff float64
	RedeemBy   time.Time
	Products   []string
}

// NewCouponRequest builds a 100%-off coupon restricted to productID that can
// be redeemed until redeemBy.
func NewCouponRequest(name, productID string, redeemBy time.Time) CouponRequest {
	return CouponRequest{
		Name:       name,
		PercentOff: FullDiscount,
		RedeemBy:   redeemBy,
		Products:   []string{productID},
	}
}

func NewCoupon() *Coupon {
	return &Coupon{}
}

func (c *Coupon) ConvertFromStripeCoupon(sc *stripe.Coupon) *Coupon {

	c.ID = sc.ID
	c.Name = sc.Name
	c.PercentOff = sc.PercentOff
	c.Duration = sc.Duration
	c.TimesRedeemed = sc.TimesRedeemed
	c.Valid = sc.Valid
	c.Livemode = sc.Livemode
	if sc.AppliesTo != nil {
		c.Products = sc.AppliesTo.Products
	}
	if sc.Created > 0 {
		c.CreatedAt = time.Unix(sc.Created, 0)
	}
	if sc.RedeemBy > 0 {
		redeemBy := time.Unix(sc.RedeemBy, 0)
		c.RedeemBy = &redeemBy
	}

	return c
}

func (c *Coupon) Partial() *PartialCoupon {

	partial := &PartialCoupon{
		ID:            c.ID,
		TimesRedeemed: &c.TimesRedeemed,
		Valid:         &c.Valid,
		RedeemBy:      c.RedeemBy,
	}
	if c.Name != "" {
		partial.Name = &c.Name
	}
	if c.PercentOff > 0 {
		partial.PercentOff = &c.PercentOff
	}
	if c.Duration != "" {
		partial.Duration = &c.Duration
	}
	if !c.CreatedAt.IsZero() {
		partial.CreatedAt = &c.CreatedAt
	}

	return partial
}
