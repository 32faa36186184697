package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v72"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/service"
)

type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type ConfirmPaymentIntentResponse struct {
	Status        stripego.PaymentIntentStatus `json:"status"`
	PaymentIntent *stripego.PaymentIntent      `json:"paymentIntent"`
}

// HandleCreatePaymentIntent handles POST /stripe-api/create-payment-intent
func HandleCreatePaymentIntent(svc *service.StripeService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreatePaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		secret, err := svc.CreatePaymentIntent(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, "Failed to create payment intent", err)
			return
		}
		c.JSON(http.StatusOK, CreatePaymentIntentResponse{ClientSecret: secret})
	}
}

// HandleConfirmPaymentIntent handles POST /stripe-api/confirm-payment-intent.
// It only reads the intent back; confirmation itself happens client-side.
func HandleConfirmPaymentIntent(svc *service.StripeService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ConfirmPaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		pi, err := svc.RetrievePaymentIntent(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, "Failed to confirm payment intent", err)
			return
		}
		c.JSON(http.StatusOK, ConfirmPaymentIntentResponse{Status: pi.Status, PaymentIntent: pi})
	}
}
