package stripewebhook

import (
	"context"
	"time"

	"github.com/angelmondragon/creatordash-billing/internal/billing"
	"github.com/angelmondragon/creatordash-billing/pkg/db/models"
	"github.com/angelmondragon/creatordash-billing/pkg/enums"
	"github.com/stripe/stripe-go/v84"
)

const reasonCustomerNotFound = "customer not found"

func (r *Router) handleSubscription(ctx context.Context, event *stripe.Event) (Result, error) {
	payload, err := decodeSubscription(event)
	if err != nil {
		return Result{}, err
	}
	userID, found, err := r.resolveUser(ctx, payload.Customer)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return skipped(reasonCustomerNotFound), nil
	}

	status := enums.SubscriptionStatusFromStripe(stripe.SubscriptionStatus(payload.Status))
	if !status.IsValid() {
		r.logg.Warn(r.logg.WithField(ctx, "status", payload.Status), "recording unrecognized subscription status")
	}

	sub := &models.Subscription{
		UserID:               userID,
		StripeSubscriptionID: payload.ID,
		Status:               status,
		CurrentPeriodStart:   unixTime(payload.PeriodStart),
		CurrentPeriodEnd:     unixTime(payload.PeriodEnd),
		CancelAtPeriodEnd:    payload.CancelAtPeriodEnd,
		CanceledAt:           unixTime(payload.CanceledAt),
		LastEventAt:          eventTime(event),
	}
	if payload.PriceID != "" {
		priceID := payload.PriceID
		sub.PriceID = &priceID
	}

	if event.Type == stripe.EventTypeCustomerSubscriptionCreated {
		created, err := r.billing.RecordSubscriptionCreated(ctx, sub)
		if err != nil {
			return Result{}, err
		}
		if !created {
			return skipped("subscription already recorded"), nil
		}
		return applied(), nil
	}

	ok, err := r.billing.SyncSubscription(ctx, sub)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return skipped("newer subscription state already recorded"), nil
	}
	return applied(), nil
}

func (r *Router) handleInvoicePaid(ctx context.Context, event *stripe.Event) (Result, error) {
	payload, err := decodeInvoice(event)
	if err != nil {
		return Result{}, err
	}
	userID, found, err := r.resolveUser(ctx, payload.Customer)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return skipped(reasonCustomerNotFound), nil
	}

	paidAt := eventTime(event)
	if t := unixTime(payload.PaidAt); t != nil {
		paidAt = *t
	}

	recorded, err := r.billing.RecordInvoicePaid(ctx, billing.InvoicePayment{
		UserID:          userID,
		StripeInvoiceID: payload.ID,
		AmountPaid:      payload.AmountPaid,
		Currency:        payload.Currency,
		Number:          payload.Number,
		Status:          payload.Status,
		PaidAt:          paidAt,
		PDFURL:          payload.PDFURL,
	})
	if err != nil {
		return Result{}, err
	}
	if !recorded {
		return skipped("transaction already recorded"), nil
	}
	return applied(), nil
}

func (r *Router) handlePaymentMethodAttached(ctx context.Context, event *stripe.Event) (Result, error) {
	payload, err := decodePaymentMethod(event)
	if err != nil {
		return Result{}, err
	}
	userID, found, err := r.resolveUser(ctx, payload.Customer)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return skipped(reasonCustomerNotFound), nil
	}

	method := &models.PaymentMethod{
		UserID:                userID,
		StripePaymentMethodID: payload.ID,
		Type:                  enums.PaymentMethodType(payload.Type),
	}
	if method.Type.IsCard() && payload.Card != nil {
		last4, brand := payload.Card.Last4, payload.Card.Brand
		month, year := int(payload.Card.ExpMonth), int(payload.Card.ExpYear)
		method.Last4 = &last4
		method.Brand = &brand
		method.ExpMonth = &month
		method.ExpYear = &year
	}

	created, err := r.billing.AttachPaymentMethod(ctx, method)
	if err != nil {
		return Result{}, err
	}
	if !created {
		return skipped("payment method already stored"), nil
	}
	return applied(), nil
}

func eventTime(event *stripe.Event) time.Time {
	if event.Created > 0 {
		return time.Unix(event.Created, 0).UTC()
	}
	return time.Now().UTC()
}
