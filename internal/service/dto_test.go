package service

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/paymentrelay/pkg/errors"
)

func TestCreatePaymentIntentRequest_Validate(t *testing.T) {
	var req CreatePaymentIntentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":1999,"currency":"USD","items":[ {"id": "granola", "quantity": 2} ]}`), &req))

	in, err := req.Validate()
	require.NoError(t, err)
	assert.EqualValues(t, 1999, in.Amount)
	assert.Equal(t, "usd", in.Currency)
	assert.Equal(t, `[{"id":"granola","quantity":2}]`, in.Items)
}

func TestCreatePaymentIntentRequest_Defaults(t *testing.T) {
	var req CreatePaymentIntentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"500"}`), &req))

	in, err := req.Validate()
	require.NoError(t, err)
	assert.EqualValues(t, 500, in.Amount)
	assert.Equal(t, "usd", in.Currency)
	assert.Equal(t, "[]", in.Items)
}

func TestCreatePaymentIntentRequest_InvalidAmount(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"amount":null}`,
		`{"amount":0}`,
		`{"amount":-100}`,
		`{"amount":19.99}`,
		`{"amount":"abc"}`,
		`{"amount":true}`,
		`{"amount":[1999]}`,
		`{"amount":1e30}`,
	} {
		t.Run(body, func(t *testing.T) {
			var req CreatePaymentIntentRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req))

			_, err := req.Validate()
			var inputErr *errors.ErrInvalidInput
			require.True(t, stderrors.As(err, &inputErr))
			assert.Equal(t, "Invalid amount", inputErr.Summary)
		})
	}
}

func TestConfirmPaymentIntentRequest_Validate(t *testing.T) {
	id, err := ConfirmPaymentIntentRequest{PaymentIntentID: " pi_123 "}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "pi_123", id)

	_, err = ConfirmPaymentIntentRequest{}.Validate()
	var inputErr *errors.ErrInvalidInput
	assert.True(t, stderrors.As(err, &inputErr))
}
