package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/paypal"
	"github.com/jafarshop/paymentrelay/internal/service"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

// ClientTokenResponse is the body of a successful client token request
type ClientTokenResponse struct {
	ClientToken string `json:"clientToken"`
}

// HandleClientToken handles POST /paypal-api/client-token
func HandleClientToken(svc *service.PayPalService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := svc.ClientToken(c.Request.Context())
		if err != nil {
			respondError(c, logger, "Failed to generate client token", err)
			return
		}
		c.JSON(http.StatusOK, ClientTokenResponse{ClientToken: token})
	}
}

// HandleCreateOrder handles POST /api/orders
func HandleCreateOrder(svc *service.PayPalService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CartOrderRequest
		// an empty body is an empty cart
		if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
			var inputErr *errors.ErrInvalidInput
			if stderrors.As(err, &inputErr) {
				respondError(c, logger, "Failed to create order", err)
				return
			}
			bindError(c, err)
			return
		}

		resp, err := svc.CreateOrderFromCart(c.Request.Context(), req.Cart)
		if err != nil {
			respondError(c, logger, "Failed to create order", err)
			return
		}
		relay(c, resp)
	}
}

// HandleCreateOrderPassThrough handles POST /paypal-api/checkout/orders/create.
// The body is forwarded to PayPal unchanged.
func HandleCreateOrderPassThrough(svc *service.PayPalService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			bindError(c, err)
			return
		}

		resp, err := svc.CreateOrder(c.Request.Context(), json.RawMessage(body))
		if err != nil {
			respondError(c, logger, "Failed to create order", err)
			return
		}
		relay(c, resp)
	}
}

// HandleCaptureOrder handles both capture routes; param names the path
// parameter holding the PayPal order ID.
func HandleCaptureOrder(svc *service.PayPalService, param string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.CaptureOrder(c.Request.Context(), c.Param(param))
		if err != nil {
			respondError(c, logger, "Failed to capture order", err)
			return
		}
		relay(c, resp)
	}
}

// relay writes the processor's status and body unchanged
func relay(c *gin.Context, resp *paypal.Response) {
	c.Data(resp.StatusCode, jsonContentType, resp.Body)
}
