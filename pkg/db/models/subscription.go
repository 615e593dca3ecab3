package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/creatordash-billing/pkg/enums"
)

// Subscription persists the latest Stripe-reported state per subscription.
// LastEventAt is the created time of the webhook event that produced the row.
type Subscription struct {
	ID                   uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	StripeSubscriptionID string                   `gorm:"column:stripe_subscription_id;not null;unique"`
	Status               enums.SubscriptionStatus `gorm:"column:status;not null"`
	PriceID              *string                  `gorm:"column:price_id"`
	CurrentPeriodStart   *time.Time               `gorm:"column:current_period_start"`
	CurrentPeriodEnd     *time.Time               `gorm:"column:current_period_end"`
	CancelAtPeriodEnd    bool                     `gorm:"column:cancel_at_period_end;not null;default:false"`
	CanceledAt           *time.Time               `gorm:"column:canceled_at"`
	LastEventAt          time.Time                `gorm:"column:last_event_at;not null"`
	CreatedAt            time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
