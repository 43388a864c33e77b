package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/valetnat/e-commerce/internal/domain"
)

type cartLineRequest struct {
	OfferID  int64 `json:"offerId"`
	Quantity int   `json:"quantity"`
}

type cartRequest struct {
	Lines []cartLineRequest `json:"lines"`
}

func (r cartRequest) asMap() map[int64]int {
	lines := make(map[int64]int, len(r.Lines))
	for _, l := range r.Lines {
		lines[l.OfferID] += l.Quantity
	}
	return lines
}

func placeOrderHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if len(req.Lines) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lines required"})
			return
		}

		order, err := svc.PlaceOrder(c.Request.Context(), req.asMap())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown offer"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func getOrderHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		order, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func discountHandler(checkout CheckoutService, pricing PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		snapshot, err := checkout.Snapshot(c.Request.Context(), req.asMap())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown offer"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		result, err := pricing.Resolve(c.Request.Context(), snapshot)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"discount":   result,
			"totalPrice": snapshot.TotalPrice,
		})
	}
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}
