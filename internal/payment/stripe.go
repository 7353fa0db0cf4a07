package payment

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"ecommerce-api/internal/apperr"
)

// StripeGateway implements Gateway over Stripe Checkout.
type StripeGateway struct{}

// NewStripeGateway configures the package-level Stripe key and returns the
// gateway.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String(string(stripe.CurrencyUSD)),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(item.Name),
			},
			UnitAmount: stripe.Int64(item.UnitAmountCents),
		}
		if len(item.Images) > 0 {
			priceData.ProductData.Images = stripe.StringSlice(item.Images)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(item.Quantity),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx
	for key, value := range params.Metadata {
		sessionParams.AddMetadata(key, value)
	}

	s, err := session.New(sessionParams)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "Failed to create checkout session", err)
	}
	return s.URL, nil
}
