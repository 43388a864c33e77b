package pricing

import (
	"context"
	"io"
	"log"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"
)

var one = decimal.NewFromInt(1)

// Service resolves the single best-applicable discount for a cart snapshot.
// It is stateless and side-effect-free; safe for concurrent use.
type Service struct {
	promos  promotionRepo
	catalog catalogRepo
	logger  *log.Logger
}

type promotionRepo interface {
	ActiveCartPromotions(ctx context.Context) ([]domain.CartPromotion, error)
	ActiveBundlePromotions(ctx context.Context) ([]domain.BundlePromotion, error)
	ActiveProductPromotions(ctx context.Context) ([]domain.ProductPromotion, error)
}

type catalogRepo interface {
	GetOffer(ctx context.Context, id int64) (*domain.Offer, error)
	ProductIDsByCategory(ctx context.Context, categoryID int64) ([]int64, error)
}

func New(promos promotionRepo, catalog catalogRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{promos: promos, catalog: catalog, logger: logger}
}

// Resolve picks exactly one discount class for the cart: the best cart-level
// promotion, the best bundle promotion, or, when neither applies, per-line
// product promotions. Cart and bundle candidates are ranked by weight; on a
// nonzero weight tie the larger sale wins, with the bundle result taken on a
// sale tie.
func (s *Service) Resolve(ctx context.Context, cart domain.Snapshot) (domain.DiscountResult, error) {
	cartRes, err := s.cartPromoDiscount(ctx, cart)
	if err != nil {
		return domain.DiscountResult{}, err
	}
	setRes, err := s.bundlePromoDiscount(ctx, cart)
	if err != nil {
		return domain.DiscountResult{}, err
	}

	switch {
	case cartRes.Weight > setRes.Weight:
		return cartRes, nil
	case cartRes.Weight < setRes.Weight:
		return setRes, nil
	case cartRes.Weight != 0:
		if cartRes.Sale.GreaterThan(setRes.Sale) {
			return cartRes, nil
		}
		return setRes, nil
	default:
		return s.productPromoDiscount(ctx, cart)
	}
}

func (s *Service) cartPromoDiscount(ctx context.Context, cart domain.Snapshot) (domain.DiscountResult, error) {
	promos, err := s.promos.ActiveCartPromotions(ctx)
	if err != nil {
		return domain.DiscountResult{}, err
	}

	conditions := cartConditions{items: cart.ItemCount(), total: cart.TotalPrice}
	best := domain.DiscountResult{Sale: decimal.Zero, Value: decimal.Zero}
	for _, promo := range promos {
		applies, err := cartPromoApplies(promo, conditions)
		if err != nil {
			s.logger.Printf("pricing: cart promo id=%d skipped: %v", promo.ID, err)
			continue
		}
		if applies && promo.Weight > best.Weight {
			best.Weight = promo.Weight
			best.Value = promo.Value
			name := promo.Name
			best.Name = &name
		}
	}

	best.Sale = cartSale(cart.TotalPrice, best.Value)
	return best, nil
}

// cartSale clamps the discount so at least 1.00 of the total stays payable.
// Otherwise the sale is the total minus the promotion value.
func cartSale(total, value decimal.Decimal) decimal.Decimal {
	switch {
	case value.IsZero():
		return decimal.Zero
	case total.LessThan(value):
		return total.Sub(one)
	default:
		return total.Sub(value)
	}
}

func (s *Service) bundlePromoDiscount(ctx context.Context, cart domain.Snapshot) (domain.DiscountResult, error) {
	promos, err := s.promos.ActiveBundlePromotions(ctx)
	if err != nil {
		return domain.DiscountResult{}, err
	}

	best := domain.DiscountResult{Sale: decimal.Zero, Value: decimal.Zero}
	if len(promos) > 0 {
		cartProducts, err := s.cartProductSet(ctx, cart)
		if err != nil {
			return domain.DiscountResult{}, err
		}
		categories := newCategoryCache(s.catalog)
		for _, promo := range promos {
			applies, err := s.bundlePromoApplies(ctx, promo, cartProducts, categories)
			if err != nil {
				return domain.DiscountResult{}, err
			}
			if applies && promo.Weight > best.Weight {
				best.Weight = promo.Weight
				best.Value = promo.Value
				name := promo.Name
				best.Name = &name
			}
		}
	}

	best.Sale = bundleSale(cart.TotalPrice, best.Value)
	return best, nil
}

// bundleSale differs from cartSale on purpose: the promotion value itself is
// the discount amount, and the 1.00 clamp also fires when total equals value.
func bundleSale(total, value decimal.Decimal) decimal.Decimal {
	switch {
	case value.IsZero():
		return decimal.Zero
	case total.LessThanOrEqual(value):
		return total.Sub(one)
	default:
		return value
	}
}

// bundlePromoApplies requires every bundle of the promotion to have at least
// one of its products in the cart. A promotion with no bundles configured is
// vacuously applicable.
func (s *Service) bundlePromoApplies(ctx context.Context, promo domain.BundlePromotion, cartProducts map[int64]struct{}, categories *categoryCache) (bool, error) {
	for _, bundle := range promo.Bundles {
		matched := false
		for _, productID := range bundle.ProductIDs {
			if _, ok := cartProducts[productID]; ok {
				matched = true
				break
			}
		}
		if !matched {
			for _, categoryID := range bundle.CategoryIDs {
				ids, err := categories.productIDs(ctx, categoryID)
				if err != nil {
					return false, err
				}
				for _, productID := range ids {
					if _, ok := cartProducts[productID]; ok {
						matched = true
						break
					}
				}
				if matched {
					break
				}
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// productPromoDiscount resolves discounts line by line: for each line the
// highest-weight product promotion targeting the line's product applies its
// percentage to unit price times quantity. Lines without a match contribute
// nothing, and the aggregate carries no weight, value, or name.
func (s *Service) productPromoDiscount(ctx context.Context, cart domain.Snapshot) (domain.DiscountResult, error) {
	result := domain.DiscountResult{Sale: decimal.Zero, Value: decimal.Zero}

	promos, err := s.promos.ActiveProductPromotions(ctx)
	if err != nil {
		return domain.DiscountResult{}, err
	}

	categories := newCategoryCache(s.catalog)
	targets := make([]map[int64]struct{}, len(promos))
	for i, promo := range promos {
		set := make(map[int64]struct{}, len(promo.ProductIDs))
		for _, id := range promo.ProductIDs {
			set[id] = struct{}{}
		}
		for _, categoryID := range promo.CategoryIDs {
			ids, err := categories.productIDs(ctx, categoryID)
			if err != nil {
				return domain.DiscountResult{}, err
			}
			for _, id := range ids {
				set[id] = struct{}{}
			}
		}
		targets[i] = set
	}

	for offerID, quantity := range cart.Lines {
		offer, err := s.catalog.GetOffer(ctx, offerID)
		if err != nil {
			return domain.DiscountResult{}, err
		}

		bestWeight := 0.0
		bestValue := 0
		for i, promo := range promos {
			if _, ok := targets[i][offer.ProductID]; ok && promo.Weight > bestWeight {
				bestWeight = promo.Weight
				bestValue = promo.Value
			}
		}
		result.Sale = result.Sale.Add(productSale(offer.Price, quantity, bestValue))
	}

	return result, nil
}

func productSale(price decimal.Decimal, quantity, percent int) decimal.Decimal {
	return price.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100))
}

func (s *Service) cartProductSet(ctx context.Context, cart domain.Snapshot) (map[int64]struct{}, error) {
	products := make(map[int64]struct{}, len(cart.Lines))
	for offerID := range cart.Lines {
		offer, err := s.catalog.GetOffer(ctx, offerID)
		if err != nil {
			return nil, err
		}
		products[offer.ProductID] = struct{}{}
	}
	return products, nil
}

// categoryCache memoizes category expansion within a single resolution.
type categoryCache struct {
	catalog catalogRepo
	byID    map[int64][]int64
}

func newCategoryCache(catalog catalogRepo) *categoryCache {
	return &categoryCache{catalog: catalog, byID: map[int64][]int64{}}
}

func (c *categoryCache) productIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	if ids, ok := c.byID[categoryID]; ok {
		return ids, nil
	}
	ids, err := c.catalog.ProductIDsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	c.byID[categoryID] = ids
	return ids, nil
}
