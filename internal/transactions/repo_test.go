package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
	"github.com/znforge/pos-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:transactions_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Customer{},
		&models.Transaction{},
		&models.TransactionItem{},
	))
	return conn
}

func seedTransaction(t *testing.T, db *gorm.DB, businessID uuid.UUID, userID uuid.UUID, customerID *uuid.UUID, total string, createdAt time.Time) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		ID:                uuid.New(),
		BusinessID:        businessID,
		CustomerID:        customerID,
		UserID:            userID,
		TransactionNumber: "TXN-20260801-" + uuid.NewString()[:8],
		Subtotal:          decimal.RequireFromString(total),
		TaxAmount:         decimal.Zero,
		Total:             decimal.RequireFromString(total),
		PaymentMethod:     enums.PaymentMethodCash,
		Status:            enums.TransactionStatusCompleted,
		CreatedAt:         createdAt,
	}
	require.NoError(t, db.Create(txn).Error)
	return txn
}

func TestListByBusinessJoinsNames(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	businessID := uuid.New()

	user := &models.User{
		ID:           uuid.New(),
		BusinessID:   businessID,
		Username:     "cashier",
		Email:        "cashier@example.com",
		PasswordHash: "hash",
		FirstName:    "Casey",
		LastName:     "Price",
		Role:         enums.UserRoleEmployee,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	customer := &models.Customer{
		ID:         uuid.New(),
		BusinessID: businessID,
		FirstName:  "Jane",
		LastName:   "Doe",
	}
	require.NoError(t, db.Create(customer).Error)

	older := seedTransaction(t, db, businessID, user.ID, &customer.ID, "10.00", time.Now().Add(-2*time.Hour))
	newer := seedTransaction(t, db, businessID, user.ID, nil, "20.00", time.Now().Add(-time.Hour))
	seedTransaction(t, db, uuid.New(), user.ID, nil, "99.00", time.Now())

	repo := NewRepository(db)
	rows, err := repo.ListByBusiness(ctx, businessID, 50)
	require.NoError(t, err)
	require.Len(t, rows, 2, "foreign tenant rows must not leak")

	require.Equal(t, newer.ID, rows[0].ID, "newest first")
	require.Equal(t, older.ID, rows[1].ID)
	require.Equal(t, "Casey", rows[0].UserFirstName)
	require.Nil(t, rows[0].CustomerFirstName)
	require.NotNil(t, rows[1].CustomerFirstName)
	require.Equal(t, "Jane", *rows[1].CustomerFirstName)
}
