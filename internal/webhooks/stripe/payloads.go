package stripewebhook

import (
	"encoding/json"
	"time"

	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/angelmondragon/creatordash-billing/pkg/validation"
	"github.com/stripe/stripe-go/v84"
)

type subscriptionPayload struct {
	ID                string `json:"id" validate:"required"`
	Customer          string `json:"customer" validate:"required"`
	Status            string `json:"status" validate:"required"`
	PriceID           string `json:"price_id"`
	PeriodStart       int64  `json:"current_period_start" validate:"gte=0"`
	PeriodEnd         int64  `json:"current_period_end" validate:"gte=0"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
	CanceledAt        int64  `json:"canceled_at" validate:"gte=0"`
}

type invoicePayload struct {
	ID         string `json:"id" validate:"required"`
	Customer   string `json:"customer" validate:"required"`
	AmountPaid int64  `json:"amount_paid" validate:"gte=0"`
	Currency   string `json:"currency" validate:"required"`
	Number     string `json:"number"`
	Status     string `json:"status"`
	PaidAt     int64  `json:"paid_at" validate:"gte=0"`
	PDFURL     string `json:"invoice_pdf"`
}

type cardPayload struct {
	Brand    string `json:"brand" validate:"required"`
	Last4    string `json:"last4" validate:"required,len=4"`
	ExpMonth int64  `json:"exp_month" validate:"min=1,max=12"`
	ExpYear  int64  `json:"exp_year" validate:"required"`
}

type paymentMethodPayload struct {
	ID       string       `json:"id" validate:"required"`
	Customer string       `json:"customer" validate:"required"`
	Type     string       `json:"type" validate:"required"`
	Card     *cardPayload `json:"card" validate:"required_if=Type card"`
}

func decodeSubscription(event *stripe.Event) (*subscriptionPayload, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode subscription payload")
	}

	payload := &subscriptionPayload{
		ID:                sub.ID,
		Customer:          customerID(sub.Customer),
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CanceledAt:        sub.CanceledAt,
	}
	// period bounds live on subscription items since the 2025-03 API
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0] != nil {
		item := sub.Items.Data[0]
		payload.PeriodStart = item.CurrentPeriodStart
		payload.PeriodEnd = item.CurrentPeriodEnd
		if item.Price != nil {
			payload.PriceID = item.Price.ID
		}
	}

	if err := validation.Struct("invalid subscription payload", payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func decodeInvoice(event *stripe.Event) (*invoicePayload, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode invoice payload")
	}

	payload := &invoicePayload{
		ID:         inv.ID,
		Customer:   customerID(inv.Customer),
		AmountPaid: inv.AmountPaid,
		Currency:   string(inv.Currency),
		Number:     inv.Number,
		Status:     string(inv.Status),
		PDFURL:     inv.InvoicePDF,
	}
	if inv.StatusTransitions != nil {
		payload.PaidAt = inv.StatusTransitions.PaidAt
	}

	if err := validation.Struct("invalid invoice payload", payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func decodePaymentMethod(event *stripe.Event) (*paymentMethodPayload, error) {
	var pm stripe.PaymentMethod
	if err := json.Unmarshal(event.Data.Raw, &pm); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment method payload")
	}

	payload := &paymentMethodPayload{
		ID:       pm.ID,
		Customer: customerID(pm.Customer),
		Type:     string(pm.Type),
	}
	if pm.Type == stripe.PaymentMethodTypeCard && pm.Card != nil {
		payload.Card = &cardPayload{
			Brand:    string(pm.Card.Brand),
			Last4:    pm.Card.Last4,
			ExpMonth: pm.Card.ExpMonth,
			ExpYear:  pm.Card.ExpYear,
		}
	}

	if err := validation.Struct("invalid payment method payload", payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func customerID(customer *stripe.Customer) string {
	if customer == nil {
		return ""
	}
	return customer.ID
}

// unixTime converts Stripe's epoch seconds; zero means unset.
func unixTime(seconds int64) *time.Time {
	if seconds <= 0 {
		return nil
	}
	t := time.Unix(seconds, 0).UTC()
	return &t
}
