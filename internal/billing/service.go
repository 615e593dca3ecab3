package billing

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/creatordash-billing/pkg/db/models"
	"github.com/angelmondragon/creatordash-billing/pkg/enums"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the billing service.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
}

// Service applies reconciled Stripe state to the billing tables.
type Service struct {
	repo     Repository
	txRunner txRunner
}

// NewService builds a billing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "billing repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{repo: params.Repo, txRunner: params.TransactionRunner}, nil
}

// InvoicePayment is a paid Stripe invoice in minor units.
type InvoicePayment struct {
	UserID          uuid.UUID
	StripeInvoiceID string
	AmountPaid      int64
	Currency        string
	Number          string
	Status          string
	PaidAt          time.Time
	PDFURL          string
}

// RecordSubscriptionCreated stores a subscription from its creation event.
// It returns false when the subscription is already known.
func (s *Service) RecordSubscriptionCreated(ctx context.Context, sub *models.Subscription) (bool, error) {
	if sub == nil || sub.StripeSubscriptionID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "stripe subscription id required")
	}
	created, err := s.repo.InsertSubscription(ctx, sub)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert subscription")
	}
	return created, nil
}

// SyncSubscription records the reported subscription state. It returns false
// when a newer or terminal state has already been applied.
func (s *Service) SyncSubscription(ctx context.Context, sub *models.Subscription) (bool, error) {
	if sub == nil || sub.StripeSubscriptionID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "stripe subscription id required")
	}
	applied, err := s.repo.UpsertSubscription(ctx, sub)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert subscription")
	}
	return applied, nil
}

// RecordInvoicePaid writes the Transaction and its Invoice in one database
// transaction. When a Transaction already exists for the invoice nothing is
// written and false is returned.
func (s *Service) RecordInvoicePaid(ctx context.Context, payment InvoicePayment) (bool, error) {
	if payment.StripeInvoiceID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "stripe invoice id required")
	}

	amount := MinorToMajor(payment.AmountPaid, payment.Currency)
	currency := strings.ToLower(payment.Currency)

	var recorded bool
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		txn := &models.Transaction{
			UserID:          payment.UserID,
			Amount:          amount,
			Currency:        currency,
			Status:          enums.TransactionStatusSucceeded,
			StripeInvoiceID: payment.StripeInvoiceID,
		}
		created, err := repo.InsertTransaction(ctx, txn)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert transaction")
		}
		if !created {
			return nil
		}

		invoice := &models.Invoice{
			UserID:        payment.UserID,
			TransactionID: txn.ID,
			Number:        optionalString(payment.Number),
			Amount:        amount,
			Currency:      currency,
			Status:        payment.Status,
			PDFURL:        optionalString(payment.PDFURL),
		}
		if !payment.PaidAt.IsZero() {
			paidAt := payment.PaidAt.UTC()
			invoice.PaidAt = &paidAt
		}
		if err := repo.CreateInvoice(ctx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert invoice")
		}
		recorded = true
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return false, err
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record invoice payment")
	}
	return recorded, nil
}

// AttachPaymentMethod stores a newly attached payment method. It returns
// false when the payment method was already stored.
func (s *Service) AttachPaymentMethod(ctx context.Context, method *models.PaymentMethod) (bool, error) {
	if method == nil || method.StripePaymentMethodID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "stripe payment method id required")
	}
	if !method.Type.IsCard() {
		method.Last4 = nil
		method.ExpMonth = nil
		method.ExpYear = nil
		method.Brand = nil
	}
	created, err := s.repo.InsertPaymentMethod(ctx, method)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert payment method")
	}
	return created, nil
}

// CurrentSubscription returns the subscription a plan change applies to, or
// nil when the user has none.
func (s *Service) CurrentSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.repo.FindCurrentSubscription(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	return sub, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
