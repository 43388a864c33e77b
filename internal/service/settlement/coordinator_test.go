package settlement

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"
)

type completion struct {
	orderID  int64
	recordID int64
	paid     bool
	response string
}

type stubOrderStore struct {
	mu          sync.Mutex
	total       decimal.Decimal
	totalErr    error
	completeErr error
	completed   []completion
}

func (s *stubOrderStore) TotalPrice(_ context.Context, _ int64) (decimal.Decimal, error) {
	return s.total, s.totalErr
}

func (s *stubOrderStore) CompleteSettlement(_ context.Context, orderID, recordID int64, paid bool, response []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completeErr != nil {
		return s.completeErr
	}
	s.completed = append(s.completed, completion{orderID: orderID, recordID: recordID, paid: paid, response: string(response)})
	return nil
}

func (s *stubOrderStore) completions() []completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]completion(nil), s.completed...)
}

type stubGateway struct {
	mu      sync.Mutex
	calls   int
	reply   *GatewayReply
	err     error
	entered chan struct{}
	release chan struct{}
}

func (g *stubGateway) Pay(_ context.Context, _ string, _, _ int64, _ decimal.Decimal) (*GatewayReply, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	return g.reply, g.err
}

func (g *stubGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func successReply() *GatewayReply {
	return &GatewayReply{
		StatusCode:   http.StatusOK,
		Body:         []byte(`{"successfully": true, "error": ""}`),
		Successfully: true,
	}
}

func refusalReply() *GatewayReply {
	return &GatewayReply{
		StatusCode:   http.StatusUnauthorized,
		Body:         []byte(`{"successfully": false, "error": "Not enough rights"}`),
		Successfully: false,
		Error:        "Not enough rights",
	}
}

func intent(orderID, recordID int64) domain.PaymentIntent {
	return domain.PaymentIntent{OrderID: orderID, RecordID: recordID, BankAccount: 12341234, CallbackHost: "localhost:8080"}
}

func TestWorkerSettlesSuccessfulPayment(t *testing.T) {
	orders := &stubOrderStore{total: decimal.RequireFromString("120.00")}
	gw := &stubGateway{reply: successReply()}
	c := NewCoordinator(orders, gw, 8, 0, nil)

	if err := c.Enqueue(intent(1, 11)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	c.runWorker()

	completed := orders.completions()
	if len(completed) != 1 {
		t.Fatalf("expected one settlement, got %d", len(completed))
	}
	got := completed[0]
	if got.orderID != 1 || got.recordID != 11 || !got.paid {
		t.Fatalf("unexpected settlement %+v", got)
	}
	if got.response != `{"successfully": true, "error": ""}` {
		t.Fatalf("gateway body must be stored verbatim, got %q", got.response)
	}
}

func TestWorkerKeepsOrderUnpaidOnRefusal(t *testing.T) {
	orders := &stubOrderStore{total: decimal.RequireFromString("120.00")}
	gw := &stubGateway{reply: refusalReply()}
	c := NewCoordinator(orders, gw, 8, 0, nil)

	if err := c.Enqueue(intent(1, 11)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	c.runWorker()

	completed := orders.completions()
	if len(completed) != 1 {
		t.Fatalf("expected one settlement, got %d", len(completed))
	}
	if completed[0].paid {
		t.Fatalf("refused payment must not mark the order paid")
	}
	if completed[0].response == "" {
		t.Fatalf("refusal body must still be recorded")
	}
}

func TestWorkerGatewayErrorIsFatalForAttempt(t *testing.T) {
	orders := &stubOrderStore{total: decimal.RequireFromString("120.00")}
	gw := &stubGateway{err: domain.ErrGateway}
	c := NewCoordinator(orders, gw, 8, 0, nil)

	if err := c.Enqueue(intent(1, 11)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	c.runWorker()

	if got := orders.completions(); len(got) != 0 {
		t.Fatalf("gateway failure must not touch the payment record, got %+v", got)
	}
	if gw.callCount() != 1 {
		t.Fatalf("expected a single gateway call, got %d", gw.callCount())
	}
}

func TestWorkerProcessesExactlyOneIntent(t *testing.T) {
	orders := &stubOrderStore{total: decimal.RequireFromString("120.00")}
	gw := &stubGateway{reply: successReply()}
	c := NewCoordinator(orders, gw, 8, 0, nil)

	if err := c.Enqueue(intent(1, 11)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := c.Enqueue(intent(2, 22)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	c.runWorker()

	if got := len(orders.completions()); got != 1 {
		t.Fatalf("one worker run must settle exactly one intent, got %d", got)
	}
	if got := len(c.queue); got != 1 {
		t.Fatalf("second intent must stay queued, got queue length %d", got)
	}

	// the next worker picks up the leftover
	c.runWorker()
	if got := len(orders.completions()); got != 2 {
		t.Fatalf("expected both intents settled after second run, got %d", got)
	}
}

func TestWorkerAbortsWithoutDequeuingWhenLocked(t *testing.T) {
	orders := &stubOrderStore{total: decimal.RequireFromString("120.00")}
	gw := &stubGateway{reply: successReply()}
	c := NewCoordinator(orders, gw, 8, 0, nil)

	if err := c.Enqueue(intent(1, 11)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	c.mu.Lock()
	c.runWorker()
	c.mu.Unlock()

	if gw.callCount() != 0 {
		t.Fatalf("locked-out worker must not call the gateway")
	}
	if got := len(c.queue); got != 1 {
		t.Fatalf("locked-out worker must not dequeue, got queue length %d", got)
	}
}

func TestSingleFlightAcrossConcurrentWorkers(t *testing.T) {
	orders := &stubOrderStore{total: decimal.RequireFromString("120.00")}
	gw := &stubGateway{
		reply:   successReply(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := NewCoordinator(orders, gw, 8, 0, nil)

	if err := c.Enqueue(intent(1, 11)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	c.StartWorker()
	<-gw.entered // worker A is inside the gateway call, holding the lock

	if err := c.Enqueue(intent(2, 22)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	c.runWorker() // worker B: must abort immediately

	if gw.callCount() != 1 {
		t.Fatalf("second worker must not call the gateway while the lock is held, calls=%d", gw.callCount())
	}
	if got := len(orders.completions()); got != 0 {
		t.Fatalf("no settlement may complete while worker A is in flight, got %d", got)
	}

	close(gw.release)
	c.Wait()

	if gw.callCount() != 1 {
		t.Fatalf("expected exactly one gateway call, got %d", gw.callCount())
	}
	completed := orders.completions()
	if len(completed) != 1 || completed[0].orderID != 1 {
		t.Fatalf("only worker A's intent may settle, got %+v", completed)
	}
	if got := len(c.queue); got != 1 {
		t.Fatalf("intent B must remain queued until a new submission starts a worker, got %d", got)
	}
}

func TestEnqueueRejectsWhenFull(t *testing.T) {
	c := NewCoordinator(&stubOrderStore{}, &stubGateway{}, 1, 0, nil)

	if err := c.Enqueue(intent(1, 11)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := c.Enqueue(intent(2, 22)); err != domain.ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}
