package subscriptions

import (
	"context"
	"strings"

	"github.com/angelmondragon/creatordash-billing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
)

// ProrationAlwaysInvoice bills the prorated difference immediately.
const ProrationAlwaysInvoice = "always_invoice"

type customerLookup interface {
	StripeCustomerID(ctx context.Context, userID uuid.UUID) (string, bool, error)
}

type subscriptionLookup interface {
	CurrentSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

// Service requests plan changes from Stripe. Local subscription rows are
// only written by the webhook once Stripe confirms the change.
type Service interface {
	ChangePlan(ctx context.Context, userID uuid.UUID, priceID string) error
}

type ServiceParams struct {
	Customers     customerLookup
	Subscriptions subscriptionLookup
	Stripe        StripeSubscriptionClient
	Logger        *logger.Logger
}

type service struct {
	customers     customerLookup
	subscriptions subscriptionLookup
	stripe        StripeSubscriptionClient
	logg          *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer lookup required")
	}
	if params.Subscriptions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "subscription lookup required")
	}
	if params.Stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		customers:     params.Customers,
		subscriptions: params.Subscriptions,
		stripe:        params.Stripe,
		logg:          params.Logger,
	}, nil
}

func (s *service) ChangePlan(ctx context.Context, userID uuid.UUID, priceID string) error {
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "priceId is required")
	}

	customerID, found, err := s.customers.StripeCustomerID(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNoCustomer, "no customer found")
	}

	current, err := s.subscriptions.CurrentSubscription(ctx, userID)
	if err != nil {
		return err
	}
	if current == nil {
		return pkgerrors.New(pkgerrors.CodeNoSubscription, "no subscription found")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"stripe_customer_id":     customerID,
		"stripe_subscription_id": current.StripeSubscriptionID,
		"price_id":               priceID,
	})

	remote, err := s.stripe.Get(ctx, current.StripeSubscriptionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve stripe subscription")
	}
	itemID := firstItemID(remote)
	if itemID == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, "stripe subscription has no items")
	}

	params := &stripe.SubscriptionUpdateParams{
		Items: []*stripe.SubscriptionUpdateItemParams{
			{
				ID:    stripe.String(itemID),
				Price: stripe.String(priceID),
			},
		},
		ProrationBehavior: stripe.String(ProrationAlwaysInvoice),
	}
	if _, err := s.stripe.Update(ctx, current.StripeSubscriptionID, params); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stripe subscription")
	}

	s.logg.Info(ctx, "subscription plan change requested")
	return nil
}

func firstItemID(sub *stripe.Subscription) string {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0] == nil {
		return ""
	}
	return sub.Items.Data[0].ID
}
