package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/internal/paypal"
	"github.com/jafarshop/paymentrelay/internal/paypal/paypaltest"
	"github.com/jafarshop/paymentrelay/internal/stripe"
	"github.com/jafarshop/paymentrelay/internal/stripe/stripetest"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

func newPayPalService(t *testing.T, fake *paypaltest.Server, secret string) *PayPalService {
	t.Helper()
	cfg := config.PayPalConfig{ClientID: paypaltest.ClientID, Secret: secret, BaseURL: fake.URL}
	client := paypal.NewClient(cfg, &http.Client{Timeout: 5 * time.Second}, zap.NewNop())
	return NewPayPalService(cfg, client, defaultCatalog(t), zap.NewNop())
}

func TestPayPalService_UnconfiguredMakesNoCalls(t *testing.T) {
	fake := paypaltest.NewServer(t)
	svc := newPayPalService(t, fake, "")
	ctx := context.Background()

	_, err := svc.ClientToken(ctx)
	assertConfigurationError(t, err)
	_, err = svc.CreateOrderFromCart(ctx, []domain.CartLine{{ID: "granola", Quantity: 1}})
	assertConfigurationError(t, err)
	_, err = svc.CreateOrder(ctx, json.RawMessage(`{"intent":"CAPTURE"}`))
	assertConfigurationError(t, err)
	_, err = svc.CaptureOrder(ctx, paypaltest.OrderID)
	assertConfigurationError(t, err)

	assert.Empty(t, fake.Calls())
}

func assertConfigurationError(t *testing.T, err error) {
	t.Helper()
	var cfgErr *errors.ErrConfiguration
	require.True(t, stderrors.As(err, &cfgErr), "got %T: %v", err, err)
	assert.Equal(t, "PAYPAL_SECRET", cfgErr.Setting)
	assert.Contains(t, cfgErr.Error(), "PayPal secret not configured")
}

func TestPayPalService_ClientToken(t *testing.T) {
	fake := paypaltest.NewServer(t)
	svc := newPayPalService(t, fake, paypaltest.Secret)

	token, err := svc.ClientToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, paypaltest.ClientToken, token)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/v1/oauth2/token", calls[0].Path)
	assert.Equal(t, "/v1/identity/generate-token", calls[1].Path)
}

func TestPayPalService_CreateOrderFromCart(t *testing.T) {
	fake := paypaltest.NewServer(t)
	svc := newPayPalService(t, fake, paypaltest.Secret)

	resp, err := svc.CreateOrderFromCart(context.Background(), []domain.CartLine{{ID: "granola", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	calls := fake.CallsTo("/v2/checkout/orders")
	require.Len(t, calls, 1)
	var sent paypal.OrderRequest
	require.NoError(t, json.Unmarshal(calls[0].Body, &sent))
	assert.Equal(t, "30.00", sent.PurchaseUnits[0].Amount.Value)
}

func TestPayPalService_EmptyCartMakesNoCalls(t *testing.T) {
	fake := paypaltest.NewServer(t)
	svc := newPayPalService(t, fake, paypaltest.Secret)

	_, err := svc.CreateOrderFromCart(context.Background(), nil)
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))

	_, err = svc.CreateOrderFromCart(context.Background(), []domain.CartLine{{ID: "nope"}})
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))

	assert.Empty(t, fake.Calls())
}

func TestPayPalService_CreateOrderPassThrough(t *testing.T) {
	fake := paypaltest.NewServer(t)
	svc := newPayPalService(t, fake, paypaltest.Secret)

	payload := json.RawMessage(`{"intent":"CAPTURE","purchase_units":[{"amount":{"currency_code":"EUR","value":"9.50"}}]}`)
	_, err := svc.CreateOrder(context.Background(), payload)
	require.NoError(t, err)

	calls := fake.CallsTo("/v2/checkout/orders")
	require.Len(t, calls, 1)
	assert.JSONEq(t, string(payload), string(calls[0].Body))

	_, err = svc.CreateOrder(context.Background(), json.RawMessage(`{not json`))
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))
}

func TestPayPalService_CaptureRelaysUpstreamFailure(t *testing.T) {
	fake := paypaltest.NewServer(t)
	fake.CaptureOrder = func(w http.ResponseWriter, r *http.Request) {
		paypaltest.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"name":    "UNPROCESSABLE_ENTITY",
			"details": []map[string]string{{"issue": "ORDER_NOT_APPROVED"}},
		})
	}
	svc := newPayPalService(t, fake, paypaltest.Secret)

	_, err := svc.CaptureOrder(context.Background(), "NEVER-CREATED-HERE")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, errors.HTTPStatus(err))
	assert.Len(t, fake.CallsTo("/v2/checkout/orders/NEVER-CREATED-HERE/capture"), 1)
}

func TestPayPalService_TokenFailureStopsSequence(t *testing.T) {
	fake := paypaltest.NewServer(t)
	svc := newPayPalService(t, fake, "wrong")

	_, err := svc.CaptureOrder(context.Background(), paypaltest.OrderID)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatus(err))

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/v1/oauth2/token", calls[0].Path)
}

func newStripeService(t *testing.T, fake *stripetest.Server, key string) *StripeService {
	t.Helper()
	cfg := config.StripeConfig{SecretKey: key, APIURL: fake.URL}
	client := stripe.NewClient(cfg, &http.Client{Timeout: 5 * time.Second}, zap.NewNop())
	return NewStripeService(cfg, client, zap.NewNop())
}

func TestStripeService_CreatePaymentIntent(t *testing.T) {
	fake := stripetest.NewServer(t)
	svc := newStripeService(t, fake, stripetest.SecretKey)

	secret, err := svc.CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{
		Amount:   json.RawMessage("1999"),
		Currency: "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, stripetest.ClientSecret, secret)
}

func TestStripeService_InvalidAmountMakesNoCalls(t *testing.T) {
	fake := stripetest.NewServer(t)
	svc := newStripeService(t, fake, stripetest.SecretKey)

	_, err := svc.CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{Amount: json.RawMessage("0")})
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))
	assert.Empty(t, fake.Calls())
}

func TestStripeService_Unconfigured(t *testing.T) {
	fake := stripetest.NewServer(t)
	svc := newStripeService(t, fake, "")

	_, err := svc.CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{Amount: json.RawMessage("1999")})
	var cfgErr *errors.ErrConfiguration
	require.True(t, stderrors.As(err, &cfgErr))
	assert.Equal(t, "STRIPE_SECRET_KEY", cfgErr.Setting)

	_, err = svc.RetrievePaymentIntent(context.Background(), ConfirmPaymentIntentRequest{PaymentIntentID: stripetest.IntentID})
	assert.True(t, stderrors.As(err, &cfgErr))
	assert.Empty(t, fake.Calls())
}

func TestStripeService_RetrievePaymentIntent(t *testing.T) {
	fake := stripetest.NewServer(t)
	svc := newStripeService(t, fake, stripetest.SecretKey)

	pi, err := svc.RetrievePaymentIntent(context.Background(), ConfirmPaymentIntentRequest{PaymentIntentID: stripetest.IntentID})
	require.NoError(t, err)
	assert.EqualValues(t, "succeeded", pi.Status)

	_, err = svc.RetrievePaymentIntent(context.Background(), ConfirmPaymentIntentRequest{})
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))
}
