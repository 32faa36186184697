package paypal

import "github.com/jafarshop/paymentrelay/internal/domain"

// OrderRequest is the body of POST /v2/checkout/orders
type OrderRequest struct {
	Intent        domain.OrderIntent `json:"intent"`
	PurchaseUnits []PurchaseUnit     `json:"purchase_units"`
}

type PurchaseUnit struct {
	Amount AmountWithBreakdown `json:"amount"`
	Items  []Item              `json:"items"`
}

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type AmountWithBreakdown struct {
	CurrencyCode string    `json:"currency_code"`
	Value        string    `json:"value"`
	Breakdown    Breakdown `json:"breakdown"`
}

type Breakdown struct {
	ItemTotal Money `json:"item_total"`
}

// Item quantities are strings in the PayPal orders API
type Item struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	UnitAmount Money  `json:"unit_amount"`
}
