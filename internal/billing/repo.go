package billing

import (
	"context"
	"errors"

	"github.com/angelmondragon/creatordash-billing/pkg/db/models"
	"github.com/angelmondragon/creatordash-billing/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles billing persistence. Every write is keyed on the Stripe
// identifier so redelivered events converge instead of duplicating rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertSubscription(ctx context.Context, subscription *models.Subscription) (bool, error)
	UpsertSubscription(ctx context.Context, subscription *models.Subscription) (bool, error)
	FindCurrentSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	InsertTransaction(ctx context.Context, txn *models.Transaction) (bool, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	InsertPaymentMethod(ctx context.Context, method *models.PaymentMethod) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a billing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

var subscriptionUpdateColumns = []string{
	"user_id",
	"status",
	"price_id",
	"current_period_start",
	"current_period_end",
	"cancel_at_period_end",
	"canceled_at",
	"last_event_at",
	"updated_at",
}

// InsertSubscription writes the row only when the subscription is unknown.
// Creation events carry the earliest state, so they never overwrite a row an
// update already produced.
func (r *repository) InsertSubscription(ctx context.Context, subscription *models.Subscription) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_subscription_id"}},
			DoNothing: true,
		}).
		Create(subscription)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpsertSubscription inserts or updates by stripe_subscription_id. A newer
// event always lands. Within the same second the incoming event lands unless
// the stored row is already terminal, since Stripe never leaves canceled or
// incomplete_expired. The returned bool is false when the update was refused.
func (r *repository) UpsertSubscription(ctx context.Context, subscription *models.Subscription) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_subscription_id"}},
			DoUpdates: clause.AssignmentColumns(subscriptionUpdateColumns),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{
					SQL: "subscriptions.last_event_at < excluded.last_event_at OR " +
						"(subscriptions.last_event_at = excluded.last_event_at AND subscriptions.status NOT IN ?)",
					Vars: []any{enums.TerminalSubscriptionStatuses()},
				},
			}},
		}).
		Create(subscription)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindCurrentSubscription returns the most recently updated subscription the
// user can still change, skipping canceled and expired ones.
func (r *repository) FindCurrentSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status NOT IN ?", enums.TerminalSubscriptionStatuses()).
		Order("updated_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// InsertTransaction reports false when a transaction already exists for the
// invoice.
func (r *repository) InsertTransaction(ctx context.Context, txn *models.Transaction) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_invoice_id"}},
			DoNothing: true,
		}).
		Create(txn)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// InsertPaymentMethod reports false when the payment method is already known.
func (r *repository) InsertPaymentMethod(ctx context.Context, method *models.PaymentMethod) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_payment_method_id"}},
			DoNothing: true,
		}).
		Create(method)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
