package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is the optional counterparty of a sale. LoyaltyPoints and
// TotalSpent are written exclusively by the sale commit path.
type Customer struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BusinessID    uuid.UUID       `gorm:"column:business_id;type:uuid;not null;index"`
	FirstName     string          `gorm:"column:first_name;not null"`
	LastName      string          `gorm:"column:last_name;not null"`
	Email         *string         `gorm:"column:email"`
	Phone         *string         `gorm:"column:phone"`
	Address       *string         `gorm:"column:address"`
	LoyaltyPoints int             `gorm:"column:loyalty_points;not null;default:0"`
	TotalSpent    decimal.Decimal `gorm:"column:total_spent;type:numeric(10,2);not null;default:0.00"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
