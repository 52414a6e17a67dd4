package gateway

import (
	"context"

	"cinema/internal/usecase"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Stripe Checkoutの実装。usecase.PaymentGatewayを満たす。
type StripeGateway struct {
	api *client.API
}

// DI
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, in usecase.CreateCheckoutInput) (usecase.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.ProductName),
					},
					UnitAmount: stripe.Int64(in.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return usecase.CheckoutSession{}, err
	}

	return toSession(s), nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (usecase.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	}

	s, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return usecase.CheckoutSession{}, err
	}

	return toSession(s), nil
}

func toSession(s *stripe.CheckoutSession) usecase.CheckoutSession {
	return usecase.CheckoutSession{
		ID:          s.ID,
		URL:         s.URL,
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
	}
}
