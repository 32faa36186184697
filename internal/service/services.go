package service

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/internal/paypal"
	"github.com/jafarshop/paymentrelay/internal/stripe"
)

// Services holds the processor services shared by the HTTP handlers
type Services struct {
	PayPal *PayPalService
	Stripe *StripeService
}

// NewServices wires both processor clients onto one outbound HTTP client
// bounded by the processor timeout.
func NewServices(cfg *config.Config, catalog *domain.Catalog, logger *zap.Logger) *Services {
	httpClient := &http.Client{
		Timeout:   cfg.ProcessorTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	payPalClient := paypal.NewClient(cfg.PayPal, httpClient, logger)
	stripeClient := stripe.NewClient(cfg.Stripe, httpClient, logger)

	return &Services{
		PayPal: NewPayPalService(cfg.PayPal, payPalClient, catalog, logger),
		Stripe: NewStripeService(cfg.Stripe, stripeClient, logger),
	}
}
