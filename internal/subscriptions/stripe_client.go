package subscriptions

import (
	"context"

	pkgstripe "github.com/angelmondragon/creatordash-billing/pkg/stripe"
	"github.com/stripe/stripe-go/v84"
)

// StripeSubscriptionClient exposes the subset of Stripe operations required by the subscription service.
type StripeSubscriptionClient interface {
	Get(ctx context.Context, id string) (*stripe.Subscription, error)
	Update(ctx context.Context, id string, params *stripe.SubscriptionUpdateParams) (*stripe.Subscription, error)
}

type stripeClientWrapper struct {
	api *stripe.Client
}

// NewStripeClient adapts the injected Stripe client to StripeSubscriptionClient.
func NewStripeClient(client *pkgstripe.Client) StripeSubscriptionClient {
	if client == nil || client.API() == nil {
		return nil
	}
	return &stripeClientWrapper{api: client.API()}
}

func (w *stripeClientWrapper) Get(ctx context.Context, id string) (*stripe.Subscription, error) {
	return w.api.V1Subscriptions.Retrieve(ctx, id, nil)
}

func (w *stripeClientWrapper) Update(ctx context.Context, id string, params *stripe.SubscriptionUpdateParams) (*stripe.Subscription, error) {
	return w.api.V1Subscriptions.Update(ctx, id, params)
}
