package settlement

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"
)

type orderStore interface {
	TotalPrice(ctx context.Context, orderID int64) (decimal.Decimal, error)
	CompleteSettlement(ctx context.Context, orderID, recordID int64, paid bool, response []byte) error
}

type payGateway interface {
	Pay(ctx context.Context, host string, orderID, cardNumber int64, price decimal.Decimal) (*GatewayReply, error)
}

// Coordinator owns the settlement queue and the single-flight worker lock.
// Constructed once at process start and shared by reference; at most one
// worker holds the lock at a time, so no two orders are ever settled
// concurrently. A worker handles exactly one intent per start and exits;
// intents enqueued while the lock is held wait for the next submission to
// spawn a worker.
type Coordinator struct {
	queue       chan domain.PaymentIntent
	mu          sync.Mutex
	orders      orderStore
	gateway     payGateway
	settleDelay time.Duration
	logger      *log.Logger

	wg sync.WaitGroup
}

func NewCoordinator(orders orderStore, gateway payGateway, queueSize int, settleDelay time.Duration, logger *log.Logger) *Coordinator {
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Coordinator{
		queue:       make(chan domain.PaymentIntent, queueSize),
		orders:      orders,
		gateway:     gateway,
		settleDelay: settleDelay,
		logger:      logger,
	}
}

// Enqueue adds a payment intent to the queue without blocking the caller.
func (c *Coordinator) Enqueue(intent domain.PaymentIntent) error {
	select {
	case c.queue <- intent:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// StartWorker launches a background worker for one settlement attempt.
func (c *Coordinator) StartWorker() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runWorker()
	}()
}

// Wait blocks until all spawned workers have exited.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// runWorker aborts immediately when another worker holds the lock, without
// dequeuing anything. Otherwise it pops at most one intent and settles it,
// keeping the lock across the whole dequeue, gateway call and writeback.
func (c *Coordinator) runWorker() {
	if !c.mu.TryLock() {
		return
	}
	defer c.mu.Unlock()

	select {
	case intent := <-c.queue:
		c.settle(context.Background(), intent)
	default:
	}
}

func (c *Coordinator) settle(ctx context.Context, intent domain.PaymentIntent) {
	total, err := c.orders.TotalPrice(ctx, intent.OrderID)
	if err != nil {
		c.logger.Printf("settlement: order_id=%d total price: %v", intent.OrderID, err)
		return
	}

	reply, err := c.gateway.Pay(ctx, intent.CallbackHost, intent.OrderID, intent.BankAccount, total)
	if err != nil {
		// Fatal for this attempt: no retry, no record update, order stays not paid.
		c.logger.Printf("settlement: order_id=%d gateway: %v", intent.OrderID, err)
		return
	}

	time.Sleep(c.settleDelay)

	paid := reply.StatusCode == http.StatusOK
	if err := c.orders.CompleteSettlement(ctx, intent.OrderID, intent.RecordID, paid, reply.Body); err != nil {
		c.logger.Printf("settlement: order_id=%d writeback: %v", intent.OrderID, err)
		return
	}
	c.logger.Printf("settlement: order_id=%d settled paid=%t", intent.OrderID, paid)
}
