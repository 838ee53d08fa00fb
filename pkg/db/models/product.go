package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable item. Stock is only ever mutated through the sale
// commit path or an explicit admin stock adjustment, and never goes negative.
type Product struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BusinessID        uuid.UUID       `gorm:"column:business_id;type:uuid;not null;index"`
	CategoryID        *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Name              string          `gorm:"column:name;not null"`
	Description       *string         `gorm:"column:description"`
	SKU               *string         `gorm:"column:sku;index"`
	Barcode           *string         `gorm:"column:barcode;index"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Cost              decimal.Decimal `gorm:"column:cost;type:numeric(10,2);not null;default:0.00"`
	Stock             int             `gorm:"column:stock;not null;default:0"`
	LowStockThreshold int             `gorm:"column:low_stock_threshold;not null;default:5"`
	IsActive          bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsLowStock reports whether the product sits at or below its restock threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}
