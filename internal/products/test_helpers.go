package products

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Business{}, &models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func mustCreateTestBusiness(t *testing.T, tx *gorm.DB) *models.Business {
	t.Helper()
	business := &models.Business{
		ID:      uuid.New(),
		Name:    "Test Shop",
		Email:   "owner@example.com",
		TaxRate: decimal.RequireFromString("0.0825"),
	}
	if err := tx.Create(business).Error; err != nil {
		t.Fatalf("create business: %v", err)
	}
	return business
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, businessID uuid.UUID, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:                uuid.New(),
		BusinessID:        businessID,
		Name:              "Test Product",
		Price:             decimal.RequireFromString("9.99"),
		Cost:              decimal.RequireFromString("4.00"),
		Stock:             stock,
		LowStockThreshold: 5,
		IsActive:          true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
