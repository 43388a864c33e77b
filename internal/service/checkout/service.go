package checkout

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"
	orderrepo "github.com/valetnat/e-commerce/internal/repository/order"
)

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

type catalogRepo interface {
	GetOffer(ctx context.Context, id int64) (*domain.Offer, error)
}

type discountResolver interface {
	Resolve(ctx context.Context, cart domain.Snapshot) (domain.DiscountResult, error)
}

// Service turns a submitted cart into a persisted order, applying the resolved
// discount. Discount failures never block checkout; the worst case is a zero
// discount.
type Service struct {
	orders   orderRepo
	catalog  catalogRepo
	resolver discountResolver
	logger   *log.Logger
}

func New(orders orderRepo, catalog catalogRepo, resolver discountResolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, catalog: catalog, resolver: resolver, logger: logger}
}

// Snapshot builds a pricing snapshot from the submitted lines, totalling
// current offer prices. Zero-quantity lines are dropped.
func (s *Service) Snapshot(ctx context.Context, lines map[int64]int) (domain.Snapshot, error) {
	snapshot := domain.Snapshot{Lines: map[int64]int{}, TotalPrice: decimal.Zero}
	for offerID, quantity := range lines {
		if quantity <= 0 {
			continue
		}
		offer, err := s.catalog.GetOffer(ctx, offerID)
		if err != nil {
			return domain.Snapshot{}, err
		}
		snapshot.Lines[offerID] = quantity
		snapshot.TotalPrice = snapshot.TotalPrice.Add(offer.Price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	return snapshot, nil
}

// PlaceOrder resolves the discount for the cart and persists the order with
// its detail lines, decrementing offer stock.
func (s *Service) PlaceOrder(ctx context.Context, lines map[int64]int) (*domain.Order, error) {
	snapshot, err := s.Snapshot(ctx, lines)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Lines) == 0 {
		return nil, errors.New("cart is empty")
	}

	discount, err := s.resolver.Resolve(ctx, snapshot)
	if err != nil {
		s.logger.Printf("checkout: discount resolution failed, proceeding without: %v", err)
		discount = domain.DiscountResult{Sale: decimal.Zero, Value: decimal.Zero}
	}

	in := orderrepo.CreateOrderInput{
		TotalPrice:     snapshot.TotalPrice,
		DiscountAmount: discount.Sale,
	}
	for offerID, quantity := range snapshot.Lines {
		in.Lines = append(in.Lines, orderrepo.LineInput{OfferID: offerID, Quantity: quantity})
	}

	order, err := s.orders.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("checkout: order id=%d total=%s discount=%s", order.ID, order.TotalPrice.StringFixed(2), order.DiscountAmount.StringFixed(2))
	return order, nil
}

// Get returns the persisted order.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}
