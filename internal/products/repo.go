package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
)

// Repository exposes product persistence operations. Every query is scoped
// by business id so one tenant can never see another tenant's rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByIDForBusiness loads a product scoped to the business.
func (r *Repository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns the active products for a business, newest first.
func (r *Repository) ListActive(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// Deactivate soft-deletes a product by flipping is_active off.
func (r *Repository) Deactivate(ctx context.Context, businessID, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("business_id = ? AND id = ?", businessID, id).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// DecrementStock atomically subtracts qty from the product's stock. The
// guard in the WHERE clause keeps stock from ever going below zero; zero
// rows affected means the product was missing or had insufficient stock.
func (r *Repository) DecrementStock(ctx context.Context, businessID, id uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("business_id = ? AND id = ? AND stock >= ?", businessID, id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected, res.Error
}

// SetStock overwrites the stock level, used by manual adjustments.
func (r *Repository) SetStock(ctx context.Context, businessID, id uuid.UUID, stock int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("business_id = ? AND id = ?", businessID, id).
		Update("stock", stock)
	return res.RowsAffected, res.Error
}
