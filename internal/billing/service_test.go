package billing

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/creatordash-billing/pkg/db"
	"github.com/angelmondragon/creatordash-billing/pkg/db/dbtest"
	"github.com/angelmondragon/creatordash-billing/pkg/db/models"
	"github.com/angelmondragon/creatordash-billing/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:              NewRepository(conn),
		TransactionRunner: db.FromConn(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func subscriptionAt(userID uuid.UUID, status enums.SubscriptionStatus, eventAt time.Time) *models.Subscription {
	start := eventAt.Add(-24 * time.Hour)
	end := start.AddDate(0, 1, 0)
	price := "price_basic"
	return &models.Subscription{
		UserID:               userID,
		StripeSubscriptionID: "sub_1",
		Status:               status,
		PriceID:              &price,
		CurrentPeriodStart:   &start,
		CurrentPeriodEnd:     &end,
		LastEventAt:          eventAt,
	}
}

func storedSubscription(t *testing.T, conn *gorm.DB, stripeSubscriptionID string) models.Subscription {
	t.Helper()
	var sub models.Subscription
	require.NoError(t, conn.Where("stripe_subscription_id = ?", stripeSubscriptionID).First(&sub).Error)
	return sub
}

func TestSyncSubscriptionUpsertsByStripeID(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	eventAt := time.Unix(1767225600, 0).UTC()

	applied, err := svc.SyncSubscription(ctx, subscriptionAt(userID, enums.SubscriptionStatusActive, eventAt))
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = svc.SyncSubscription(ctx, subscriptionAt(userID, enums.SubscriptionStatusPastDue, eventAt))
	require.NoError(t, err)
	assert.True(t, applied, "redelivery with the same event time re-applies")

	assert.Equal(t, int64(1), dbtest.Count(t, conn, "subscriptions"))

	stored := storedSubscription(t, conn, "sub_1")
	assert.Equal(t, enums.SubscriptionStatusPastDue, stored.Status)
	require.NotNil(t, stored.CurrentPeriodStart)
	assert.True(t, stored.CurrentPeriodStart.Equal(eventAt.Add(-24*time.Hour)))
}

func TestSyncSubscriptionIgnoresOlderEvents(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	newer := time.Unix(1767225600, 0).UTC()

	_, err := svc.SyncSubscription(ctx, subscriptionAt(userID, enums.SubscriptionStatusCanceled, newer))
	require.NoError(t, err)

	applied, err := svc.SyncSubscription(ctx, subscriptionAt(userID, enums.SubscriptionStatusActive, newer.Add(-time.Minute)))
	require.NoError(t, err)
	assert.False(t, applied)

	stored := storedSubscription(t, conn, "sub_1")
	assert.Equal(t, enums.SubscriptionStatusCanceled, stored.Status)
}

func TestRecordSubscriptionCreatedNeverOverwrites(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	eventAt := time.Unix(1767225600, 0).UTC()

	applied, err := svc.SyncSubscription(ctx, subscriptionAt(userID, enums.SubscriptionStatusActive, eventAt))
	require.NoError(t, err)
	require.True(t, applied)

	created, err := svc.RecordSubscriptionCreated(ctx, subscriptionAt(userID, enums.SubscriptionStatusIncomplete, eventAt))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, enums.SubscriptionStatusActive, storedSubscription(t, conn, "sub_1").Status)

	other := subscriptionAt(userID, enums.SubscriptionStatusIncomplete, eventAt)
	other.StripeSubscriptionID = "sub_2"
	created, err = svc.RecordSubscriptionCreated(ctx, other)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestSyncSubscriptionSameSecondKeepsTerminalState(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	eventAt := time.Unix(1767225600, 0).UTC()

	_, err := svc.SyncSubscription(ctx, subscriptionAt(userID, enums.SubscriptionStatusCanceled, eventAt))
	require.NoError(t, err)

	applied, err := svc.SyncSubscription(ctx, subscriptionAt(userID, enums.SubscriptionStatusActive, eventAt))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, enums.SubscriptionStatusCanceled, storedSubscription(t, conn, "sub_1").Status)

	applied, err = svc.SyncSubscription(ctx, subscriptionAt(userID, enums.SubscriptionStatusActive, eventAt.Add(time.Second)))
	require.NoError(t, err)
	assert.True(t, applied, "a strictly newer event still lands")
}

func TestRecordInvoicePaidIsIdempotent(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	paidAt := time.Unix(1767225600, 0).UTC()

	payment := InvoicePayment{
		UserID:          userID,
		StripeInvoiceID: "in_1",
		AmountPaid:      2599,
		Currency:        "usd",
		Number:          "A1B2-0001",
		Status:          "paid",
		PaidAt:          paidAt,
		PDFURL:          "https://pay.stripe.com/invoice/in_1/pdf",
	}

	recorded, err := svc.RecordInvoicePaid(ctx, payment)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = svc.RecordInvoicePaid(ctx, payment)
	require.NoError(t, err)
	assert.False(t, recorded)

	assert.Equal(t, int64(1), dbtest.Count(t, conn, "transactions"))
	assert.Equal(t, int64(1), dbtest.Count(t, conn, "invoices"))

	var txn models.Transaction
	require.NoError(t, conn.Where("stripe_invoice_id = ?", "in_1").First(&txn).Error)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("25.99")), "got %s", txn.Amount)
	assert.Equal(t, enums.TransactionStatusSucceeded, txn.Status)
	assert.Equal(t, userID, txn.UserID)

	var invoice models.Invoice
	require.NoError(t, conn.First(&invoice).Error)
	assert.Equal(t, txn.ID, invoice.TransactionID)
	assert.True(t, invoice.Amount.Equal(txn.Amount))
	require.NotNil(t, invoice.PaidAt)
	assert.True(t, invoice.PaidAt.Equal(paidAt))
	require.NotNil(t, invoice.Number)
	assert.Equal(t, "A1B2-0001", *invoice.Number)
}

func TestAttachPaymentMethodDeduplicates(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	build := func() *models.PaymentMethod {
		last4, brand := "4242", "visa"
		month, year := 12, 2030
		return &models.PaymentMethod{
			UserID:                userID,
			StripePaymentMethodID: "pm_1",
			Type:                  enums.PaymentMethodTypeCard,
			Last4:                 &last4,
			Brand:                 &brand,
			ExpMonth:              &month,
			ExpYear:               &year,
		}
	}

	created, err := svc.AttachPaymentMethod(ctx, build())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.AttachPaymentMethod(ctx, build())
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, int64(1), dbtest.Count(t, conn, "payment_methods"))
}

func TestAttachPaymentMethodDropsCardFieldsForOtherTypes(t *testing.T) {
	svc, conn := newTestService(t)
	last4 := "6789"

	_, err := svc.AttachPaymentMethod(context.Background(), &models.PaymentMethod{
		UserID:                uuid.New(),
		StripePaymentMethodID: "pm_bank",
		Type:                  enums.PaymentMethodTypeUSBankAccount,
		Last4:                 &last4,
	})
	require.NoError(t, err)

	var stored models.PaymentMethod
	require.NoError(t, conn.Where("stripe_payment_method_id = ?", "pm_bank").First(&stored).Error)
	assert.Nil(t, stored.Last4)
	assert.Nil(t, stored.Brand)
}

func TestCurrentSubscriptionSkipsTerminalStatuses(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	eventAt := time.Unix(1767225600, 0).UTC()

	canceled := subscriptionAt(userID, enums.SubscriptionStatusCanceled, eventAt)
	canceled.StripeSubscriptionID = "sub_old"
	require.NoError(t, conn.Create(canceled).Error)

	sub, err := svc.CurrentSubscription(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, sub)

	active := subscriptionAt(userID, enums.SubscriptionStatusActive, eventAt)
	active.StripeSubscriptionID = "sub_current"
	require.NoError(t, conn.Create(active).Error)

	sub, err = svc.CurrentSubscription(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "sub_current", sub.StripeSubscriptionID)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(nil)})
	require.Error(t, err)
}
