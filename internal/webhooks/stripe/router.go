package stripewebhook

import (
	"context"
	"fmt"

	"github.com/angelmondragon/creatordash-billing/internal/billing"
	"github.com/angelmondragon/creatordash-billing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
)

type customerResolver interface {
	Resolve(ctx context.Context, stripeCustomerID string) (uuid.UUID, bool, error)
}

type billingService interface {
	RecordSubscriptionCreated(ctx context.Context, sub *models.Subscription) (bool, error)
	SyncSubscription(ctx context.Context, sub *models.Subscription) (bool, error)
	RecordInvoicePaid(ctx context.Context, payment billing.InvoicePayment) (bool, error)
	AttachPaymentMethod(ctx context.Context, method *models.PaymentMethod) (bool, error)
}

type handlerFunc func(ctx context.Context, event *stripe.Event) (Result, error)

type RouterParams struct {
	Customers customerResolver
	Billing   billingService
	Logger    *logger.Logger
}

// Router dispatches verified events to their reconciliation handler.
type Router struct {
	customers customerResolver
	billing   billingService
	logg      *logger.Logger
	handlers  map[stripe.EventType]handlerFunc
}

func NewRouter(params RouterParams) (*Router, error) {
	if params.Customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer resolver required")
	}
	if params.Billing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "billing service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	r := &Router{
		customers: params.Customers,
		billing:   params.Billing,
		logg:      params.Logger,
	}
	r.handlers = map[stripe.EventType]handlerFunc{
		stripe.EventTypeCustomerSubscriptionCreated: r.handleSubscription,
		stripe.EventTypeCustomerSubscriptionUpdated: r.handleSubscription,
		stripe.EventTypeCustomerSubscriptionDeleted: r.handleSubscription,
		stripe.EventTypeInvoicePaid:                 r.handleInvoicePaid,
		stripe.EventTypePaymentMethodAttached:       r.handlePaymentMethodAttached,
	}
	return r, nil
}

// Handles reports whether the router acts on the event type.
func (r *Router) Handles(eventType stripe.EventType) bool {
	_, ok := r.handlers[eventType]
	return ok
}

// Dispatch runs the handler for event.Type. Unknown types are acknowledged
// with OutcomeIgnored. Callers tag ctx with the event via logger.WithEvent.
func (r *Router) Dispatch(ctx context.Context, event *stripe.Event) (Result, error) {
	if event == nil || event.Data == nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	handler, ok := r.handlers[event.Type]
	if !ok {
		r.logg.Info(ctx, "stripe event type not handled")
		return Result{Outcome: OutcomeIgnored, Reason: "unhandled event type"}, nil
	}

	result, err := handler(ctx, event)
	if err != nil {
		return Result{}, err
	}
	msg := fmt.Sprintf("stripe event %s", result.Outcome)
	if result.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, result.Reason)
	}
	if result.Outcome == OutcomeSkipped {
		r.logg.Warn(ctx, msg)
	} else {
		r.logg.Info(ctx, msg)
	}
	return result, nil
}

// resolveUser maps the event's customer. found=false means the event is
// skipped: the customer may not be mirrored locally yet, or ever.
func (r *Router) resolveUser(ctx context.Context, stripeCustomerID string) (uuid.UUID, bool, error) {
	userID, found, err := r.customers.Resolve(ctx, stripeCustomerID)
	if err != nil {
		return uuid.Nil, false, err
	}
	if !found {
		r.logg.Warn(r.logg.WithField(ctx, "stripe_customer_id", stripeCustomerID), "stripe customer not found")
	}
	return userID, found, nil
}
