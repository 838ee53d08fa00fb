package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Business is the tenant root; every other row hangs off a business id.
type Business struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Email     string          `gorm:"column:email;not null"`
	Phone     *string         `gorm:"column:phone"`
	Address   *string         `gorm:"column:address"`
	TaxRate   decimal.Decimal `gorm:"column:tax_rate;type:numeric(5,4);not null;default:0.0825"`
	Currency  string          `gorm:"column:currency;not null;default:'USD'"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Business) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
