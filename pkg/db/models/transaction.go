package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/enums"
)

// Transaction is one committed sale. Rows are immutable after creation;
// the status column exists for future refund workflows.
type Transaction struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	BusinessID        uuid.UUID               `gorm:"column:business_id;type:uuid;not null;index;uniqueIndex:uq_transactions_business_number"`
	CustomerID        *uuid.UUID              `gorm:"column:customer_id;type:uuid"`
	UserID            uuid.UUID               `gorm:"column:user_id;type:uuid;not null"`
	TransactionNumber string                  `gorm:"column:transaction_number;not null;uniqueIndex:uq_transactions_business_number"`
	Subtotal          decimal.Decimal         `gorm:"column:subtotal;type:numeric(10,2);not null"`
	TaxAmount         decimal.Decimal         `gorm:"column:tax_amount;type:numeric(10,2);not null"`
	Total             decimal.Decimal         `gorm:"column:total;type:numeric(10,2);not null"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;not null"`
	Status            enums.TransactionStatus `gorm:"column:status;not null;default:'completed'"`
	Items             []TransactionItem       `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime;index"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
