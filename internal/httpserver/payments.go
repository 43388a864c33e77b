package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valetnat/e-commerce/internal/domain"
)

type paymentRequest struct {
	BankAccount string `json:"bankAccount"`
}

func submitPaymentHandler(svc SettlementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		var req paymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		err := svc.SubmitPayment(c.Request.Context(), id, req.BankAccount, c.Request.Host)
		switch {
		case err == nil:
			c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		case errors.Is(err, domain.ErrInvalidBankAccount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "bank account must match \"DDDD DDDD\""})
		case errors.Is(err, domain.ErrOrderSettled):
			c.JSON(http.StatusConflict, gin.H{"error": "order already settled"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, domain.ErrQueueFull):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "settlement queue full"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

func paymentStatusHandler(svc SettlementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		order, record, err := svc.PaymentStatus(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := gin.H{
			"orderId": order.ID,
			"status":  order.Status,
			"isPaid":  order.Status == domain.OrderStatusPaid,
		}
		if record != nil {
			resp["lastRecord"] = record
		}
		c.JSON(http.StatusOK, resp)
	}
}
