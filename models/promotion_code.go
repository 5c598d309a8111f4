package models

import (
	"time"

	"github.com/stripe/stripe-go/v79"
)

// SingleUse is the max_redemptions every minted promotion code carries.
const SingleUse = 1

type PromotionCode struct {
	ID                   string     `json:"id"`
	Code                 string     `json:"code"`
	CouponID             string     `json:"coupon_id"`
	Active               bool       `json:"active"`
	MaxRedemptions       int64      `json:"max_redemptions,omitempty"`
	TimesRedeemed        int64      `json:"times_redeemed"`
	FirstTimeTransaction bool       `json:"first_time_transaction"`
	Livemode             bool       `json:"livemode"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type PartialPromotionCode struct {
	ID                   string     `json:"id"`
	Code                 *string    `json:"code,omitempty"`
	CouponID             *string    `json:"coupon_id,omitempty"`
	Active               *bool      `json:"active,omitempty"`
	MaxRedemptions       *int64     `json:"max_redemptions,omitempty"`
	TimesRedeemed        *int64     `json:"times_redeemed,omitempty"`
	FirstTimeTransaction *bool      `json:"first_time_transaction,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
}

// PromotionCodeRequest is one attempt at registering a code for a coupon.
type PromotionCodeRequest struct {
	CouponID             string
	Code                 string
	ExpiresAt            time.Time
	MaxRedemptions       int64
	FirstTimeTransaction bool
}

func NewPromotionCodeRequest(couponID, code string, expiresAt time.Time, firstTimeTransaction bool) PromotionCodeRequest {
	return PromotionCodeRequest{
		CouponID:             couponID,
		Code:                 code,
		ExpiresAt:            expiresAt,
		MaxRedemptions:       SingleUse,
		FirstTimeTransaction: firstTimeTransaction,
	}
}

func NewPromotionCode() *PromotionCode {
	return &PromotionCode{}
}

func (pc *PromotionCode) ConvertFromStripePromotionCode(spc *stripe.PromotionCode) *PromotionCode {

	pc.ID = spc.ID
	pc.Code = spc.Code
	pc.Active = spc.Active
	pc.MaxRedemptions = spc.MaxRedemptions
	pc.TimesRedeemed = spc.TimesRedeemed
	pc.Livemode = spc.Livemode
	if spc.Coupon != nil {
		pc.CouponID = spc.Coupon.ID
	}
	if spc.Restrictions != nil {
		pc.FirstTimeTransaction = spc.Restrictions.FirstTimeTransaction
	}
	if spc.ExpiresAt > 0 {
		expiresAt := time.Unix(spc.ExpiresAt, 0)
		pc.ExpiresAt = &expiresAt
	}
	if spc.Created > 0 {
		pc.CreatedAt = time.Unix(spc.Created, 0)
	}

	return pc
}

func (pc *PromotionCode) Partial() *PartialPromotionCode {

	partial := &PartialPromotionCode{
		ID:                   pc.ID,
		Code:                 &pc.Code,
		Active:               &pc.Active,
		TimesRedeemed:        &pc.TimesRedeemed,
		FirstTimeTransaction: &pc.FirstTimeTransaction,
		ExpiresAt:            pc.ExpiresAt,
	}
	if pc.CouponID != "" {
		partial.CouponID = &pc.CouponID
	}
	if pc.MaxRedemptions > 0 {
		partial.MaxRedemptions = &pc.MaxRedemptions
	}
	if !pc.CreatedAt.IsZero() {
		partial.CreatedAt = &pc.CreatedAt
	}

	return partial
}
