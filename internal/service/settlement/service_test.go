package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"
)

type stubSubmissionStore struct {
	mu         sync.Mutex
	order      *domain.Order
	getErr     error
	recordID   int64
	beginErr   error
	beginCalls int
	invalid    []string
	records    []domain.PaymentRecord
}

func (s *stubSubmissionStore) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubSubmissionStore) BeginSettlement(_ context.Context, _ int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beginErr != nil {
		return 0, s.beginErr
	}
	s.beginCalls++
	return s.recordID, nil
}

func (s *stubSubmissionStore) RecordInvalidSubmission(_ context.Context, _ int64, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalid = append(s.invalid, message)
	return nil
}

func (s *stubSubmissionStore) PaymentRecords(_ context.Context, _ int64) ([]domain.PaymentRecord, error) {
	return s.records, nil
}

func payableOrder(id int64) *domain.Order {
	return &domain.Order{ID: id, Status: domain.OrderStatusCreated}
}

func TestSubmitPaymentHappyPath(t *testing.T) {
	store := &stubSubmissionStore{order: payableOrder(7), recordID: 70}
	orders := &stubOrderStore{total: decimal.RequireFromString("55.50")}
	gw := &stubGateway{reply: successReply()}
	coordinator := NewCoordinator(orders, gw, 8, 0, nil)
	svc := New(store, coordinator, nil)

	if err := svc.SubmitPayment(context.Background(), 7, "1234 1234", "localhost:8080"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	coordinator.Wait()

	if store.beginCalls != 1 {
		t.Fatalf("expected one settlement record opened, got %d", store.beginCalls)
	}
	if gw.callCount() != 1 {
		t.Fatalf("expected one gateway call, got %d", gw.callCount())
	}
	completed := orders.completions()
	if len(completed) != 1 {
		t.Fatalf("expected one settlement, got %d", len(completed))
	}
	if completed[0].orderID != 7 || completed[0].recordID != 70 || !completed[0].paid {
		t.Fatalf("unexpected settlement %+v", completed[0])
	}
}

func TestSubmitPaymentInvalidAccount(t *testing.T) {
	store := &stubSubmissionStore{order: payableOrder(7), recordID: 70}
	gw := &stubGateway{reply: successReply()}
	coordinator := NewCoordinator(&stubOrderStore{}, gw, 8, 0, nil)
	svc := New(store, coordinator, nil)

	err := svc.SubmitPayment(context.Background(), 7, "12341234", "localhost:8080")
	if !errors.Is(err, domain.ErrInvalidBankAccount) {
		t.Fatalf("expected ErrInvalidBankAccount, got %v", err)
	}
	coordinator.Wait()

	if len(store.invalid) != 1 {
		t.Fatalf("expected one invalid submission recorded, got %d", len(store.invalid))
	}
	if store.beginCalls != 0 {
		t.Fatalf("invalid account must not open a settlement record")
	}
	if gw.callCount() != 0 {
		t.Fatalf("invalid account must not reach the gateway")
	}
}

func TestSubmitPaymentSettledOrder(t *testing.T) {
	store := &stubSubmissionStore{order: &domain.Order{ID: 7, Status: domain.OrderStatusPaid}}
	coordinator := NewCoordinator(&stubOrderStore{}, &stubGateway{}, 8, 0, nil)
	svc := New(store, coordinator, nil)

	err := svc.SubmitPayment(context.Background(), 7, "1234 1234", "localhost:8080")
	if !errors.Is(err, domain.ErrOrderSettled) {
		t.Fatalf("expected ErrOrderSettled, got %v", err)
	}
	if store.beginCalls != 0 || len(store.invalid) != 0 {
		t.Fatalf("settled order must not touch payment records")
	}
}

func TestSubmitPaymentUnknownOrder(t *testing.T) {
	store := &stubSubmissionStore{getErr: domain.ErrNotFound}
	coordinator := NewCoordinator(&stubOrderStore{}, &stubGateway{}, 8, 0, nil)
	svc := New(store, coordinator, nil)

	err := svc.SubmitPayment(context.Background(), 7, "1234 1234", "localhost:8080")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitPaymentQueueFull(t *testing.T) {
	store := &stubSubmissionStore{order: payableOrder(7), recordID: 70}
	coordinator := NewCoordinator(&stubOrderStore{}, &stubGateway{}, 1, 0, nil)
	svc := New(store, coordinator, nil)

	if err := coordinator.Enqueue(intent(99, 990)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	err := svc.SubmitPayment(context.Background(), 7, "1234 1234", "localhost:8080")
	if !errors.Is(err, domain.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestPaymentStatusReturnsLatestRecord(t *testing.T) {
	store := &stubSubmissionStore{
		order: &domain.Order{ID: 7, Status: domain.OrderStatusPaid},
		records: []domain.PaymentRecord{
			{ID: 2, OrderID: 7},
			{ID: 1, OrderID: 7},
		},
	}
	svc := New(store, NewCoordinator(&stubOrderStore{}, &stubGateway{}, 8, 0, nil), nil)

	order, latest, err := svc.PaymentStatus(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != domain.OrderStatusPaid {
		t.Fatalf("unexpected order %+v", order)
	}
	if latest == nil || latest.ID != 2 {
		t.Fatalf("expected the most recent record, got %+v", latest)
	}
}

func TestPaymentStatusNoRecords(t *testing.T) {
	store := &stubSubmissionStore{order: payableOrder(7)}
	svc := New(store, NewCoordinator(&stubOrderStore{}, &stubGateway{}, 8, 0, nil), nil)

	order, latest, err := svc.PaymentStatus(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order == nil || latest != nil {
		t.Fatalf("expected order without a record, got order=%+v record=%+v", order, latest)
	}
}
