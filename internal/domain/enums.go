package domain

// Provider names a payment processor the relay forwards to
type Provider string

const (
	ProviderPayPal Provider = "paypal"
	ProviderStripe Provider = "stripe"
)

func (p Provider) String() string {
	return string(p)
}

// OrderIntent is the PayPal order intent
type OrderIntent string

// OrderIntentCapture captures funds as soon as the buyer approves
const OrderIntentCapture OrderIntent = "CAPTURE"
