package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartPromotion is a whole-cart discount gated by optional ranges on the cart's
// item count and total price. Any subset of the four bounds may be configured;
// a promotion with no bounds at all never applies.
type CartPromotion struct {
	ID         int64
	Name       string
	Weight     float64
	Value      decimal.Decimal
	ItemsFrom  *int
	ItemsTo    *int
	PriceFrom  *decimal.Decimal
	PriceTo    *decimal.Decimal
	ActiveFrom time.Time
	ActiveTo   time.Time
	IsActive   bool
}

// Bundle is one product group of a bundle promotion: explicit product ids plus
// category ids that expand to the products filed under them.
type Bundle struct {
	ID          int64
	ProductIDs  []int64
	CategoryIDs []int64
}

// BundlePromotion applies only when every one of its bundles has at least one
// matching product present in the cart.
type BundlePromotion struct {
	ID         int64
	Name       string
	Weight     float64
	Value      decimal.Decimal
	Bundles    []Bundle
	ActiveFrom time.Time
	ActiveTo   time.Time
	IsActive   bool
}

// ProductPromotion is a per-line percentage discount on targeted products.
// Value is a percentage in [1, 99].
type ProductPromotion struct {
	ID          int64
	Name        string
	Weight      float64
	Value       int
	ProductIDs  []int64
	CategoryIDs []int64
	ActiveFrom  time.Time
	ActiveTo    time.Time
	IsActive    bool
}

// DiscountResult is the outcome of a discount resolution. Sale is the monetary
// amount taken off the cart total. Transient; only Sale survives into the order.
type DiscountResult struct {
	Sale   decimal.Decimal `json:"sale"`
	Weight float64         `json:"weight"`
	Value  decimal.Decimal `json:"value"`
	Name   *string         `json:"name"`
}
