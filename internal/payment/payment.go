package payment

import "context"

// LineItem is one payable line of a checkout session. UnitAmountCents carries
// the per-item price snapshotted from the catalog at checkout time.
type LineItem struct {
	Name            string
	Images          []string
	UnitAmountCents int64
	Quantity        int64
}

// CheckoutParams describes a gateway-hosted checkout flow.
type CheckoutParams struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Gateway creates hosted checkout sessions with an external payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (url string, err error)
}
