package customers

import (
	"context"
	"errors"

	"github.com/angelmondragon/creatordash-billing/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the customer mapping written upstream at checkout.
type Repository interface {
	FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*models.Customer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a customer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindByStripeCustomerID returns nil, nil when no row matches.
func (r *repository) FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("stripe_customer_id = ?", stripeCustomerID).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// FindByUserID returns the most recently created customer for the user, or
// nil, nil when the user never reached checkout.
func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}
