package customers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
)

// Repository exposes customer persistence operations.
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

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Update persists the full customer row.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByIDForBusiness loads a customer scoped to the business.
func (r *Repository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListByBusiness returns the customers for a business, newest first.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ApplySaleTotals adds the sale total to the customer's lifetime spend and
// credits loyalty points. Both updates are relative so concurrent sales
// cannot clobber each other.
func (r *Repository) ApplySaleTotals(ctx context.Context, businessID, id uuid.UUID, total decimal.Decimal, points int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("business_id = ? AND id = ?", businessID, id).
		UpdateColumns(map[string]any{
			"total_spent":    gorm.Expr("total_spent + ?", total),
			"loyalty_points": gorm.Expr("loyalty_points + ?", points),
		})
	return res.RowsAffected, res.Error
}
