package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/creatordash-billing/pkg/enums"
)

// Transaction records one successful invoice payment in major currency units.
type Transaction struct {
	ID              uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Amount          decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency        string                  `gorm:"column:currency;not null"`
	Status          enums.TransactionStatus `gorm:"column:status;not null"`
	StripeInvoiceID string                  `gorm:"column:stripe_invoice_id;not null;unique"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
