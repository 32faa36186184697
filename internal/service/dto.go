package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/internal/stripe"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

const defaultCurrency = "usd"

// CartOrderRequest is the body of POST /api/orders
type CartOrderRequest struct {
	Cart []domain.CartLine `json:"cart"`
}

// CreatePaymentIntentRequest is the body of POST /stripe-api/create-payment-intent.
// Amount and Items stay raw until Validate.
type CreatePaymentIntentRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
	Items    json.RawMessage `json:"items"`
}

type ConfirmPaymentIntentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

// Validate turns the request into SDK input: amount is a positive whole
// number of minor units, currency defaults to usd, items is re-serialized.
func (r CreatePaymentIntentRequest) Validate() (stripe.CreateIntentInput, error) {
	amount, ok := parseMinorUnits(r.Amount)
	if !ok {
		return stripe.CreateIntentInput{}, &errors.ErrInvalidInput{
			Field:   "amount",
			Summary: "Invalid amount",
			Message: "Amount must be greater than 0",
		}
	}

	currency := strings.ToLower(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	return stripe.CreateIntentInput{
		Amount:   amount,
		Currency: currency,
		Items:    serializeItems(r.Items),
	}, nil
}

func (r ConfirmPaymentIntentRequest) Validate() (string, error) {
	id := strings.TrimSpace(r.PaymentIntentID)
	if id == "" {
		return "", &errors.ErrInvalidInput{
			Field:   "paymentIntentId",
			Summary: "Payment intent ID is required",
			Message: "Payment intent ID is required",
		}
	}
	return id, nil
}

func parseMinorUnits(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var literal string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &literal); err != nil {
			return 0, false
		}
	} else {
		literal = string(raw)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(literal))
	if err != nil || !d.IsPositive() || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, false
	}
	return d.IntPart(), true
}

func serializeItems(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "[]"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "[]"
	}
	return buf.String()
}
