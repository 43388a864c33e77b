package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPromotion indicates a promotion record with self-contradictory
	// bounds (e.g. price_from > price_to). The resolver treats such records as
	// inapplicable; it never fails a pricing request because of them.
	ErrInvalidPromotion = errors.New("invalid promotion bounds")

	// ErrInvalidBankAccount indicates the submitted bank account does not match
	// the "DDDD DDDD" format.
	ErrInvalidBankAccount = errors.New("invalid bank account")

	// ErrOrderSettled indicates the order has already left the payable states.
	ErrOrderSettled = errors.New("order already settled")

	// ErrQueueFull indicates the settlement queue cannot accept more intents.
	ErrQueueFull = errors.New("settlement queue full")

	// ErrGateway indicates the payment gateway returned an unusable response.
	ErrGateway = errors.New("payment gateway error")
)
