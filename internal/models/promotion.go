package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion is a named price promotion over a set of variants.
type Promotion struct {
	ID             int64      `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	IsActive       bool       `db:"is_active" json:"isActive"`
	PromoReduction int        `db:"promo_reduction" json:"promoReduction"`
	StartsAt       *time.Time `db:"starts_at" json:"startsAt"`
	EndsAt         *time.Time `db:"ends_at" json:"endsAt"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// ActiveAt reports whether the promotion applies at t. Nil bounds are open.
func (p *Promotion) ActiveAt(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && t.After(*p.EndsAt) {
		return false
	}
	return true
}

// PromotionItem links a variant to a promotion at a fixed price.
type PromotionItem struct {
	ID                 int64           `db:"id" json:"id"`
	PromotionID        int64           `db:"promotion_id" json:"promotionId"`
	ProductInventoryID int64           `db:"product_inventory_id" json:"productInventoryId"`
	PromoPrice         decimal.Decimal `db:"promo_price" json:"promoPrice"`
}
