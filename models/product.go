package models

import (
	"time"

	"github.com/stripe/stripe-go/v79"
)

// Product 代表可套用優惠券的產品
// Product represents a Stripe product a coupon can be restricted to
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Active         bool              `json:"active"`
	Livemode       bool              `json:"livemode"`
	DefaultPriceID string            `json:"default_price_id,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewProduct() *Product {
	return &Product{}
}

func (p *Product) ConvertFromStripeProduct(sp *stripe.Product) *Product {

	p.ID = sp.ID
	p.Name = sp.Name
	p.Description = sp.Description
	p.Active = sp.Active
	p.Livemode = sp.Livemode
	p.Metadata = sp.Metadata
	if sp.DefaultPrice != nil {
		p.DefaultPriceID = sp.DefaultPrice.ID
	}
	if sp.Created > 0 {
		p.CreatedAt = time.Unix(sp.Created, 0)
	}
	if sp.Updated > 0 {
		p.UpdatedAt = time.Unix(sp.Updated, 0)
	}

	return p
}
