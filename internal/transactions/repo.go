package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
	"github.com/znforge/pos-backend/pkg/enums"
)

// ListedTransaction is a transaction row joined with display names for the
// cashier and the optional customer.
type ListedTransaction struct {
	ID                uuid.UUID
	TransactionNumber string
	CustomerID        *uuid.UUID
	UserID            uuid.UUID
	Subtotal          decimal.Decimal
	TaxAmount         decimal.Decimal
	Total             decimal.Decimal
	PaymentMethod     enums.PaymentMethod
	Status            enums.TransactionStatus
	UserFirstName     string
	UserLastName      string
	CustomerFirstName *string
	CustomerLastName  *string
	CreatedAt         time.Time
}

// Repository exposes transaction persistence operations.
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

// Create inserts the transaction together with its line items.
func (r *Repository) Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// FindByIDForBusiness loads a transaction with its items, scoped to the business.
func (r *Repository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("business_id = ? AND id = ?", businessID, id).
		First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListByBusiness returns recent transactions with cashier and customer names,
// newest first.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]ListedTransaction, error) {
	var rows []ListedTransaction
	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select(`t.id, t.transaction_number, t.customer_id, t.user_id,
			t.subtotal, t.tax_amount, t.total, t.payment_method, t.status, t.created_at,
			u.first_name AS user_first_name, u.last_name AS user_last_name,
			c.first_name AS customer_first_name, c.last_name AS customer_last_name`).
		Joins("LEFT JOIN users u ON u.id = t.user_id").
		Joins("LEFT JOIN customers c ON c.id = t.customer_id").
		Where("t.business_id = ?", businessID).
		Order("t.created_at DESC").
		Limit(limit).
		Scan(&rows).
		Error
	return rows, err
}
