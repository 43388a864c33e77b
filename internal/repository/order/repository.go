package order

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"
)

type LineInput struct {
	OfferID  int64
	Quantity int
}

type CreateOrderInput struct {
	Lines          []LineInput
	TotalPrice     decimal.Decimal
	DiscountAmount decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// TotalPrice recomputes the order total from its persisted detail lines
	// and current offer prices, not from the stored order row.
	TotalPrice(ctx context.Context, orderID int64) (decimal.Decimal, error)
	// BeginSettlement marks the order provisionally not paid and opens a blank
	// payment record for the attempt, atomically. Returns the record id.
	BeginSettlement(ctx context.Context, orderID int64) (int64, error)
	// RecordInvalidSubmission marks the order not paid and writes a payment
	// record carrying the validation error, atomically.
	RecordInvalidSubmission(ctx context.Context, orderID int64, message string) error
	// CompleteSettlement stores the gateway response into the attempt's record
	// and, when paid, flips the order status, atomically.
	CompleteSettlement(ctx context.Context, orderID, recordID int64, paid bool, response []byte) error
	PaymentRecords(ctx context.Context, orderID int64) ([]domain.PaymentRecord, error)
}
