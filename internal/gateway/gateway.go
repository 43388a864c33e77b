// Package gateway implements the simulated remote payment service. It accepts
// form-encoded settlement requests and approves them when the card number is a
// valid even 8-digit account; anything else is refused with a random error.
package gateway

import (
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ErrorPicker selects the refusal message for an invalid request.
type ErrorPicker func() string

var refusalErrors = []string{
	"The data is not valid",
	"Not enough rights",
	"Could not to pass authorization",
	"Could not to connect",
	"Server is excessive",
	"Do not have enough money",
}

// RandomError picks one of the canned refusal messages.
func RandomError() string {
	return refusalErrors[rand.Intn(len(refusalErrors))]
}

type Handler struct {
	pickError ErrorPicker
	logger    *log.Logger
}

func NewHandler(pickError ErrorPicker, logger *log.Logger) *Handler {
	if pickError == nil {
		pickError = RandomError
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{pickError: pickError, logger: logger}
}

// Pay validates the settlement request and replies with the fixed wire shape:
// 200 {"successfully": true, "error": ""} on success, 401 with a message
// otherwise.
func (h *Handler) Pay(c *gin.Context) {
	identify := c.PostForm("identify_number")
	cartNumber := c.PostForm("cart_number")
	price := c.PostForm("price")

	if h.validate(identify, cartNumber, price) {
		h.logger.Printf("gateway: approved order=%s card=%s price=%s", identify, cartNumber, price)
		c.JSON(http.StatusOK, gin.H{"successfully": true, "error": ""})
		return
	}

	msg := h.pickError()
	h.logger.Printf("gateway: refused order=%s card=%s price=%s error=%q", identify, cartNumber, price, msg)
	c.JSON(http.StatusUnauthorized, gin.H{"successfully": false, "error": msg})
}

// validate checks the wire contract: integer order id, even 8-digit card
// number, decimal price.
func (h *Handler) validate(identify, cartNumber, price string) bool {
	if _, err := strconv.ParseInt(identify, 10, 64); err != nil {
		return false
	}
	card, err := strconv.ParseInt(cartNumber, 10, 64)
	if err != nil {
		return false
	}
	if card < 10000000 || card > 99999999 || card%2 != 0 {
		return false
	}
	if _, err := decimal.NewFromString(price); err != nil {
		return false
	}
	return true
}

// Register mounts the pay endpoint at payPath.
func (h *Handler) Register(router gin.IRouter, payPath string) {
	router.POST(payPath, h.Pay)
}
