package service

import (
	"context"

	stripego "github.com/stripe/stripe-go/v72"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/stripe"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

type StripeService struct {
	cfg    config.StripeConfig
	client *stripe.Client
	logger *zap.Logger
}

// NewStripeService creates a new Stripe service
func NewStripeService(cfg config.StripeConfig, client *stripe.Client, logger *zap.Logger) *StripeService {
	return &StripeService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

func (s *StripeService) ensureConfigured() error {
	if !s.cfg.Configured() {
		return &errors.ErrConfiguration{
			Setting: "STRIPE_SECRET_KEY",
			Message: "Stripe secret key not configured. Please set STRIPE_SECRET_KEY in .env file.",
		}
	}
	return nil
}

// CreatePaymentIntent validates the request and returns the client secret
// of the new intent.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (string, error) {
	in, err := req.Validate()
	if err != nil {
		return "", err
	}
	if err := s.ensureConfigured(); err != nil {
		return "", err
	}

	pi, err := s.client.CreatePaymentIntent(ctx, in)
	if err != nil {
		s.logger.Error("Failed to create Stripe payment intent", zap.Error(err))
		return "", err
	}

	s.logger.Info("Stripe payment intent created",
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", in.Amount),
		zap.String("currency", in.Currency),
	)
	return pi.ClientSecret, nil
}

// RetrievePaymentIntent returns the intent as Stripe currently knows it.
func (s *StripeService) RetrievePaymentIntent(ctx context.Context, req ConfirmPaymentIntentRequest) (*stripego.PaymentIntent, error) {
	id, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}

	pi, err := s.client.GetPaymentIntent(ctx, id)
	if err != nil {
		s.logger.Error("Failed to retrieve Stripe payment intent", zap.String("payment_intent_id", id), zap.Error(err))
		return nil, err
	}
	return pi, nil
}
