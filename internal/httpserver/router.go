package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valetnat/e-commerce/internal/domain"
	"github.com/valetnat/e-commerce/internal/gateway"
)

// CheckoutService places and fetches orders.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, lines map[int64]int) (*domain.Order, error)
	Snapshot(ctx context.Context, lines map[int64]int) (domain.Snapshot, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
}

// PricingService resolves the best discount for a cart snapshot.
type PricingService interface {
	Resolve(ctx context.Context, cart domain.Snapshot) (domain.DiscountResult, error)
}

// SettlementService submits payments and reports their status.
type SettlementService interface {
	SubmitPayment(ctx context.Context, orderID int64, bankAccount, callbackHost string) error
	PaymentStatus(ctx context.Context, orderID int64) (*domain.Order, *domain.PaymentRecord, error)
}

// Deps carries the collaborators the router wires into handlers.
type Deps struct {
	CheckoutSvc   CheckoutService
	PricingSvc    PricingService
	SettlementSvc SettlementService
	// Gateway, when set, is mounted at PayPath so the settlement worker can
	// call back into the same host, matching the deployed topology.
	Gateway *gateway.Handler
	PayPath string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.POST("/orders", placeOrderHandler(deps.CheckoutSvc))
	api.GET("/orders/:id", getOrderHandler(deps.CheckoutSvc))
	api.POST("/orders/:id/payment", submitPaymentHandler(deps.SettlementSvc))
	api.GET("/orders/:id/payment", paymentStatusHandler(deps.SettlementSvc))
	api.POST("/pricing/discount", discountHandler(deps.CheckoutSvc, deps.PricingSvc))

	if deps.Gateway != nil && deps.PayPath != "" {
		deps.Gateway.Register(router, deps.PayPath)
	}

	return router, nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
