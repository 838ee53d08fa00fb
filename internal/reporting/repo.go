package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/internal/repo"
	"github.com/znforge/pos-backend/pkg/db/models"
	"github.com/znforge/pos-backend/pkg/enums"
)

type topProductRow struct {
	ProductID uuid.UUID
	Name      string
	SoldCount int64
	Revenue   decimal.Decimal
}

// Repository runs the read-only aggregate queries behind the dashboard.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// SumSalesBetween aggregates completed sale totals and counts within [from, to).
func (r *Repository) SumSalesBetween(ctx context.Context, businessID uuid.UUID, from, to time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.DB(ctx).
		Table("transactions").
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("business_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			businessID, enums.TransactionStatusCompleted, from, to).
		Scan(&row).
		Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}

// TopProductsSince ranks products by completed-sale revenue from the given
// instant onward. Ties on revenue break by product id so the order is stable.
func (r *Repository) TopProductsSince(ctx context.Context, businessID uuid.UUID, since time.Time, limit int) ([]topProductRow, error) {
	var rows []topProductRow
	err := r.DB(ctx).
		Table("transaction_items AS ti").
		Select("ti.product_id, p.name, SUM(ti.quantity) AS sold_count, SUM(ti.total) AS revenue").
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Joins("JOIN products p ON p.id = ti.product_id").
		Where("t.business_id = ? AND t.status = ? AND t.created_at >= ?",
			businessID, enums.TransactionStatusCompleted, since).
		Group("ti.product_id, p.name").
		Order("revenue DESC, ti.product_id ASC").
		Limit(limit).
		Scan(&rows).
		Error
	return rows, err
}

// LowStock returns active products at or below their restock threshold,
// emptiest shelf first.
func (r *Repository) LowStock(ctx context.Context, businessID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Where("business_id = ? AND is_active = ? AND stock <= low_stock_threshold", businessID, true).
		Order("stock ASC").
		Find(&rows).
		Error
	return rows, err
}

// LowStockCount counts the products the LowStock listing would return.
func (r *Repository) LowStockCount(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Product{}).
		Where("business_id = ? AND is_active = ? AND stock <= low_stock_threshold", businessID, true).
		Count(&count).
		Error
	return count, err
}
