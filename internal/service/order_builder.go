package service

import (
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/internal/paypal"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

// BuildOrder prices cart lines against the catalog and returns a PayPal
// capture order. Lines whose ID is not in the catalog are skipped.
func BuildOrder(catalog *domain.Catalog, lines []domain.CartLine, logger *zap.Logger) (*paypal.OrderRequest, error) {
	if len(lines) == 0 {
		return nil, &errors.ErrInvalidInput{
			Field:   "cart",
			Summary: "Cart is empty",
			Message: "Please add items to cart before checkout",
		}
	}

	currency := catalog.Currency()
	total := decimal.Zero
	items := make([]paypal.Item, 0, len(lines))

	for _, line := range lines {
		flavor, ok := catalog.Lookup(line.ID)
		if !ok {
			logger.Warn("Flavor not found for cart line", zap.String("id", line.ID))
			continue
		}

		quantity := line.Quantity.Int64()
		total = total.Add(flavor.Price.Mul(decimal.NewFromInt(quantity)))

		items = append(items, paypal.Item{
			Name:     flavor.Name,
			Quantity: strconv.FormatInt(quantity, 10),
			UnitAmount: paypal.Money{
				CurrencyCode: currency,
				Value:        flavor.Price.StringFixed(2),
			},
		})
	}

	if !total.IsPositive() {
		return nil, &errors.ErrInvalidInput{
			Field:   "cart",
			Summary: "Invalid total",
			Message: "Order total must be greater than 0",
		}
	}

	value := total.StringFixed(2)
	return &paypal.OrderRequest{
		Intent: domain.OrderIntentCapture,
		PurchaseUnits: []paypal.PurchaseUnit{{
			Amount: paypal.AmountWithBreakdown{
				CurrencyCode: currency,
				Value:        value,
				Breakdown: paypal.Breakdown{
					ItemTotal: paypal.Money{CurrencyCode: currency, Value: value},
				},
			},
			Items: items,
		}},
	}, nil
}
