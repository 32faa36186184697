package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jafarshop/paymentrelay/pkg/errors"
)

// CartLine is one untrusted line of a storefront cart.
type CartLine struct {
	ID       string   `json:"id"`
	Quantity Quantity `json:"quantity"`
}

// Quantity accepts a JSON number or numeric string. Fractions are truncated;
// anything missing, unparseable or below one counts as a single unit.
// Values beyond int64 are rejected with ErrInvalidInput.
type Quantity int64

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = 0

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return nil
	}
	// bound the exponent before rescaling, 1e999999999 is a valid literal
	if d.Exponent() > 18 {
		return errQuantityOutOfRange
	}
	if d.Exponent() < -64 {
		return nil
	}

	d = d.Truncate(0)
	if d.GreaterThan(maxQuantity) {
		return errQuantityOutOfRange
	}
	if d.IsPositive() {
		*q = Quantity(d.IntPart())
	}
	return nil
}

var errQuantityOutOfRange = &errors.ErrInvalidInput{
	Field:   "quantity",
	Summary: "Invalid quantity",
	Message: "Quantity is too large",
}

// Int64 is the effective quantity, never less than one.
func (q Quantity) Int64() int64 {
	if q < 1 {
		return 1
	}
	return int64(q)
}
