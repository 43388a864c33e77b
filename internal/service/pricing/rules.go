package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"
)

// Cart promotion applicability is decided by a rule table keyed by which of the
// four optional bounds are configured. Each of the 16 presence combinations maps
// to a predicate over the cart's item count and total price. The empty
// combination maps to never: a promotion with no bounds at all does not apply.

const (
	hasItemsFrom = 1 << iota
	hasItemsTo
	hasPriceFrom
	hasPriceTo
)

type cartConditions struct {
	items int
	total decimal.Decimal
}

type boundCheck func(p domain.CartPromotion, c cartConditions) bool

func itemsFromCheck(p domain.CartPromotion, c cartConditions) bool {
	return c.items >= *p.ItemsFrom
}

func itemsToCheck(p domain.CartPromotion, c cartConditions) bool {
	return c.items <= *p.ItemsTo
}

func priceFromCheck(p domain.CartPromotion, c cartConditions) bool {
	return c.total.GreaterThanOrEqual(*p.PriceFrom)
}

func priceToCheck(p domain.CartPromotion, c cartConditions) bool {
	return c.total.LessThanOrEqual(*p.PriceTo)
}

func never(domain.CartPromotion, cartConditions) bool { return false }

func allOf(checks ...boundCheck) boundCheck {
	return func(p domain.CartPromotion, c cartConditions) bool {
		for _, check := range checks {
			if !check(p, c) {
				return false
			}
		}
		return true
	}
}

var cartPromoRules = [16]boundCheck{
	0: never,
	hasItemsFrom:                                       allOf(itemsFromCheck),
	hasItemsTo:                                         allOf(itemsToCheck),
	hasItemsFrom | hasItemsTo:                          allOf(itemsFromCheck, itemsToCheck),
	hasPriceFrom:                                       allOf(priceFromCheck),
	hasItemsFrom | hasPriceFrom:                        allOf(itemsFromCheck, priceFromCheck),
	hasItemsTo | hasPriceFrom:                          allOf(itemsToCheck, priceFromCheck),
	hasItemsFrom | hasItemsTo | hasPriceFrom:           allOf(itemsFromCheck, itemsToCheck, priceFromCheck),
	hasPriceTo:                                         allOf(priceToCheck),
	hasItemsFrom | hasPriceTo:                          allOf(itemsFromCheck, priceToCheck),
	hasItemsTo | hasPriceTo:                            allOf(itemsToCheck, priceToCheck),
	hasItemsFrom | hasItemsTo | hasPriceTo:             allOf(itemsFromCheck, itemsToCheck, priceToCheck),
	hasPriceFrom | hasPriceTo:                          allOf(priceFromCheck, priceToCheck),
	hasItemsFrom | hasPriceFrom | hasPriceTo:           allOf(itemsFromCheck, priceFromCheck, priceToCheck),
	hasItemsTo | hasPriceFrom | hasPriceTo:             allOf(itemsToCheck, priceFromCheck, priceToCheck),
	hasItemsFrom | hasItemsTo | hasPriceFrom | hasPriceTo: allOf(itemsFromCheck, itemsToCheck, priceFromCheck, priceToCheck),
}

func boundsMask(p domain.CartPromotion) int {
	mask := 0
	if p.ItemsFrom != nil {
		mask |= hasItemsFrom
	}
	if p.ItemsTo != nil {
		mask |= hasItemsTo
	}
	if p.PriceFrom != nil {
		mask |= hasPriceFrom
	}
	if p.PriceTo != nil {
		mask |= hasPriceTo
	}
	return mask
}

// cartPromoApplies reports whether the promotion's configured bounds all hold.
// A record whose bounds contradict each other yields ErrInvalidPromotion.
func cartPromoApplies(p domain.CartPromotion, c cartConditions) (bool, error) {
	if p.ItemsFrom != nil && p.ItemsTo != nil && *p.ItemsFrom > *p.ItemsTo {
		return false, domain.ErrInvalidPromotion
	}
	if p.PriceFrom != nil && p.PriceTo != nil && p.PriceFrom.GreaterThan(*p.PriceTo) {
		return false, domain.ErrInvalidPromotion
	}
	return cartPromoRules[boundsMask(p)](p, c), nil
}
