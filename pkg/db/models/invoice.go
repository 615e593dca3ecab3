package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the customer-facing record of a paid invoice. It always hangs
// off the Transaction written in the same database transaction.
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null;unique"`
	Number        *string         `gorm:"column:number"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency      string          `gorm:"column:currency;not null"`
	Status        string          `gorm:"column:status;not null"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`
	PDFURL        *string         `gorm:"column:pdf_url"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
