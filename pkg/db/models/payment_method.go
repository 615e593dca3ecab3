package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/creatordash-billing/pkg/enums"
)

// PaymentMethod mirrors a Stripe payment method attached to a user's customer.
// Card columns stay NULL for non-card types.
type PaymentMethod struct {
	ID                    uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	StripePaymentMethodID string                  `gorm:"column:stripe_payment_method_id;not null;unique"`
	Type                  enums.PaymentMethodType `gorm:"column:type;not null"`
	Last4                 *string                 `gorm:"column:last4"`
	ExpMonth              *int                    `gorm:"column:exp_month"`
	ExpYear               *int                    `gorm:"column:exp_year"`
	Brand                 *string                 `gorm:"column:brand"`
	CreatedAt             time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

func (p *PaymentMethod) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
