package stripe

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/stripe/stripetest"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

func newTestClient(t *testing.T, fake *stripetest.Server, key string) *Client {
	t.Helper()
	return NewClient(config.StripeConfig{SecretKey: key, APIURL: fake.URL},
		&http.Client{Timeout: 5 * time.Second}, zap.NewNop())
}

func TestCreatePaymentIntent(t *testing.T) {
	fake := stripetest.NewServer(t)
	client := newTestClient(t, fake, stripetest.SecretKey)

	pi, err := client.CreatePaymentIntent(context.Background(), CreateIntentInput{
		Amount:   1999,
		Currency: "usd",
		Items:    `[{"id":"granola","quantity":2}]`,
	})
	require.NoError(t, err)
	assert.Equal(t, stripetest.ClientSecret, pi.ClientSecret)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/v1/payment_intents", calls[0].Path)
	assert.Equal(t, "1999", calls[0].Form.Get("amount"))
	assert.Equal(t, "usd", calls[0].Form.Get("currency"))
	assert.Equal(t, "true", calls[0].Form.Get("automatic_payment_methods[enabled]"))
	assert.Equal(t, `[{"id":"granola","quantity":2}]`, calls[0].Form.Get("metadata[items]"))
}

func TestCreatePaymentIntent_UpstreamError(t *testing.T) {
	fake := stripetest.NewServer(t)
	fake.Handler = func(w http.ResponseWriter, r *http.Request) {
		stripetest.WriteError(w, http.StatusPaymentRequired, "card_error", "card_declined", "Your card was declined.")
	}
	client := newTestClient(t, fake, stripetest.SecretKey)

	_, err := client.CreatePaymentIntent(context.Background(), CreateIntentInput{Amount: 500, Currency: "usd", Items: "[]"})

	var upstreamErr *errors.ErrUpstream
	require.True(t, stderrors.As(err, &upstreamErr), "got %T: %v", err, err)
	assert.Equal(t, OpCreateIntent, upstreamErr.Operation)
	assert.Equal(t, http.StatusPaymentRequired, upstreamErr.StatusCode)
	assert.Contains(t, string(upstreamErr.Body), "Your card was declined.")
	assert.Len(t, fake.Calls(), 1, "no retries")
}

func TestGetPaymentIntent(t *testing.T) {
	fake := stripetest.NewServer(t)
	client := newTestClient(t, fake, stripetest.SecretKey)

	pi, err := client.GetPaymentIntent(context.Background(), stripetest.IntentID)
	require.NoError(t, err)
	assert.Equal(t, stripetest.IntentID, pi.ID)
	assert.EqualValues(t, "succeeded", pi.Status)
}

func TestGetPaymentIntent_NotFound(t *testing.T) {
	fake := stripetest.NewServer(t)
	client := newTestClient(t, fake, stripetest.SecretKey)

	_, err := client.GetPaymentIntent(context.Background(), "pi_missing")

	var upstreamErr *errors.ErrUpstream
	require.True(t, stderrors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusNotFound, upstreamErr.StatusCode)
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatus(err))
}

func TestGetPaymentIntent_BadKey(t *testing.T) {
	fake := stripetest.NewServer(t)
	client := newTestClient(t, fake, "sk_test_wrong")

	_, err := client.GetPaymentIntent(context.Background(), stripetest.IntentID)

	var upstreamErr *errors.ErrUpstream
	require.True(t, stderrors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatus(err))
}
