package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusNotPaid OrderStatus = "not_paid"
	OrderStatusPaid    OrderStatus = "paid"
)

// Payable reports whether the order may still enter the settlement pipeline.
func (s OrderStatus) Payable() bool {
	return s == OrderStatusCreated || s == OrderStatusNotPaid
}

type Order struct {
	ID             int64           `json:"id"`
	Status         OrderStatus     `json:"status"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	CreatedAt      time.Time       `json:"createdAt"`
	Lines          []OrderLine     `json:"lines,omitempty"`
}

type OrderLine struct {
	ID       int64 `json:"id"`
	OrderID  int64 `json:"orderId"`
	OfferID  int64 `json:"offerId"`
	Quantity int   `json:"quantity"`
}

// PaymentRecord is an append-only audit entry, one per settlement attempt.
// GatewayResponse is nil until the worker stores the gateway's reply; for
// invalid-input attempts it holds the validation error instead.
type PaymentRecord struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"orderId"`
	GatewayResponse json.RawMessage `json:"gatewayResponse,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// PaymentIntent is a queued settlement task. It is consumed exactly once by a
// worker and discarded; only its effects are persisted via the payment record.
type PaymentIntent struct {
	OrderID      int64
	RecordID     int64
	BankAccount  int64
	CallbackHost string
}
