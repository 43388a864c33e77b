package settlement

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/valetnat/e-commerce/internal/domain"
)

type submissionStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	BeginSettlement(ctx context.Context, orderID int64) (int64, error)
	RecordInvalidSubmission(ctx context.Context, orderID int64, message string) error
	PaymentRecords(ctx context.Context, orderID int64) ([]domain.PaymentRecord, error)
}

// Service handles payment submissions: it validates the bank account, opens a
// payment record and hands the intent to the coordinator.
type Service struct {
	orders      submissionStore
	coordinator *Coordinator
	logger      *log.Logger
}

func New(orders submissionStore, coordinator *Coordinator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, coordinator: coordinator, logger: logger}
}

// SubmitPayment enters the order into the settlement pipeline. An invalid bank
// account forces the order to not paid and writes an audit record, but nothing
// is enqueued and no worker starts; the validation error is returned to the
// caller. callbackHost is where the worker will reach the payment gateway.
func (s *Service) SubmitPayment(ctx context.Context, orderID int64, bankAccount, callbackHost string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.Payable() {
		return domain.ErrOrderSettled
	}

	account, err := NormalizeBankAccount(bankAccount)
	if err != nil {
		if recordErr := s.orders.RecordInvalidSubmission(ctx, orderID, err.Error()); recordErr != nil {
			return recordErr
		}
		s.logger.Printf("settlement: order_id=%d rejected account %q", orderID, bankAccount)
		return err
	}

	recordID, err := s.orders.BeginSettlement(ctx, orderID)
	if err != nil {
		return err
	}

	intent := domain.PaymentIntent{
		OrderID:      orderID,
		RecordID:     recordID,
		BankAccount:  account,
		CallbackHost: callbackHost,
	}
	if err := s.coordinator.Enqueue(intent); err != nil {
		s.logger.Printf("settlement: order_id=%d enqueue: %v", orderID, err)
		return err
	}
	s.coordinator.StartWorker()
	return nil
}

// PaymentStatus reports whether the order has been paid, with the latest
// payment record for context.
func (s *Service) PaymentStatus(ctx context.Context, orderID int64) (*domain.Order, *domain.PaymentRecord, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.orders.PaymentRecords(ctx, orderID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	var latest *domain.PaymentRecord
	if len(records) > 0 {
		latest = &records[0]
	}
	return order, latest, nil
}
