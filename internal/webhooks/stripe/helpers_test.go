package stripewebhook

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/creatordash-billing/internal/billing"
	"github.com/angelmondragon/creatordash-billing/internal/customers"
	"github.com/angelmondragon/creatordash-billing/pkg/db"
	"github.com/angelmondragon/creatordash-billing/pkg/db/dbtest"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
	"gorm.io/gorm"
)

const testSecret = "whsec_test"

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// newTestRouter wires the router to real repositories on a fresh sqlite db.
func newTestRouter(t *testing.T) (*Router, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)

	resolver, err := customers.NewResolver(customers.NewRepository(conn))
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	billingSvc, err := billing.NewService(billing.ServiceParams{
		Repo:              billing.NewRepository(conn),
		TransactionRunner: db.FromConn(conn),
	})
	if err != nil {
		t.Fatalf("billing service: %v", err)
	}
	router, err := NewRouter(RouterParams{Customers: resolver, Billing: billingSvc, Logger: testLogger()})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return router, conn
}

func newEvent(t *testing.T, id string, eventType stripe.EventType, created int64, object map[string]any) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	if err != nil {
		t.Fatalf("marshal object: %v", err)
	}
	return &stripe.Event{
		ID:      id,
		Type:    eventType,
		Created: created,
		Data:    &stripe.EventData{Raw: raw},
	}
}

func signPayload(payload []byte, secret string, ts time.Time) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: ts,
	}).Header
}

func subscriptionObject(status string, start, end int64) map[string]any {
	return map[string]any{
		"id":                   "sub_1",
		"object":               "subscription",
		"customer":             "cus_1",
		"status":               status,
		"cancel_at_period_end": false,
		"items": map[string]any{
			"object": "list",
			"data": []map[string]any{{
				"id":                   "si_1",
				"object":               "subscription_item",
				"current_period_start": start,
				"current_period_end":   end,
				"price":                map[string]any{"id": "price_pro", "object": "price"},
			}},
		},
	}
}

func invoiceObject(id string, amountPaid int64) map[string]any {
	return map[string]any{
		"id":          id,
		"object":      "invoice",
		"customer":    "cus_1",
		"amount_paid": amountPaid,
		"currency":    "usd",
		"number":      "CD-0001",
		"status":      "paid",
		"invoice_pdf": "https://pay.stripe.com/invoice/" + id + "/pdf",
		"status_transitions": map[string]any{
			"paid_at": int64(1767225600),
		},
	}
}

func cardPaymentMethodObject() map[string]any {
	return map[string]any{
		"id":       "pm_1",
		"object":   "payment_method",
		"customer": "cus_1",
		"type":     "card",
		"card": map[string]any{
			"brand":     "visa",
			"last4":     "4242",
			"exp_month": 12,
			"exp_year":  2030,
		},
	}
}
