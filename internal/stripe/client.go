package stripe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	stripego "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

const (
	OpCreateIntent   = "payment intent creation"
	OpRetrieveIntent = "payment intent retrieval"
)

var provider = domain.ProviderStripe.String()

// Client wraps the payment intent API of the Stripe SDK
type Client struct {
	intents paymentintent.Client
	logger  *zap.Logger
}

// NewClient builds a client bound to its own backend so that the secret key
// never touches the SDK's package-level state.
func NewClient(cfg config.StripeConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	backendCfg := &stripego.BackendConfig{
		HTTPClient:        httpClient,
		LeveledLogger:     logger.Sugar(),
		MaxNetworkRetries: stripego.Int64(0),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripego.String(cfg.APIURL)
	}

	return &Client{
		intents: paymentintent.Client{
			B:   stripego.GetBackendWithConfig(stripego.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
		logger: logger,
	}
}

// CreateIntentInput is a validated payment intent request
type CreateIntentInput struct {
	Amount   int64
	Currency string
	// Items is stored as metadata["items"], already serialized
	Items string
}

// CreatePaymentIntent creates an intent with automatic payment methods.
func (c *Client) CreatePaymentIntent(ctx context.Context, in CreateIntentInput) (*stripego.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(in.Amount),
		Currency: stripego.String(in.Currency),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("items", in.Items)

	pi, err := c.intents.New(params)
	if err != nil {
		return nil, upstreamError(OpCreateIntent, err)
	}
	return pi, nil
}

// GetPaymentIntent reads back an intent by ID.
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*stripego.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.intents.Get(id, params)
	if err != nil {
		return nil, upstreamError(OpRetrieveIntent, err)
	}
	return pi, nil
}

func upstreamError(op string, err error) error {
	var stripeErr *stripego.Error
	if stderrors.As(err, &stripeErr) {
		body, _ := json.Marshal(map[string]interface{}{
			"type":       stripeErr.Type,
			"code":       stripeErr.Code,
			"message":    stripeErr.Msg,
			"param":      stripeErr.Param,
			"request_id": stripeErr.RequestID,
		})
		return &errors.ErrUpstream{
			Provider:   provider,
			Operation:  op,
			StatusCode: stripeErr.HTTPStatusCode,
			Body:       body,
			// a rejected secret key is the relay's fault, not the caller's
			Internal: stripeErr.HTTPStatusCode == http.StatusUnauthorized,
			Err:      err,
		}
	}
	return &errors.ErrUpstream{Provider: provider, Operation: op, Err: err}
}
