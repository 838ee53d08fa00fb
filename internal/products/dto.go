package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/znforge/pos-backend/pkg/db/models"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID                uuid.UUID       `json:"id"`
	CategoryID        *uuid.UUID      `json:"categoryId,omitempty"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	SKU               *string         `json:"sku,omitempty"`
	Barcode           *string         `json:"barcode,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:                product.ID,
		CategoryID:        product.CategoryID,
		Name:              product.Name,
		Description:       product.Description,
		SKU:               product.SKU,
		Barcode:           product.Barcode,
		Price:             product.Price,
		Cost:              product.Cost,
		Stock:             product.Stock,
		LowStockThreshold: product.LowStockThreshold,
		IsActive:          product.IsActive,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}
