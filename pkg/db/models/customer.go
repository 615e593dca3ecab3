package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer links a local user to the Stripe customer created at checkout.
type Customer struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	StripeCustomerID string    `gorm:"column:stripe_customer_id;not null;unique"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
