package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
	"github.com/znforge/pos-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reporting_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.Transaction{},
		&models.TransactionItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, db *gorm.DB, now time.Time) *service {
	t.Helper()
	return &service{repo: NewRepository(db), now: func() time.Time { return now }}
}

func seedSale(t *testing.T, db *gorm.DB, businessID uuid.UUID, total string, status enums.TransactionStatus, createdAt time.Time, items ...models.TransactionItem) {
	t.Helper()
	txn := &models.Transaction{
		ID:                uuid.New(),
		BusinessID:        businessID,
		UserID:            uuid.New(),
		TransactionNumber: "TXN-20260801-" + uuid.NewString()[:8],
		Subtotal:          decimal.RequireFromString(total),
		TaxAmount:         decimal.Zero,
		Total:             decimal.RequireFromString(total),
		PaymentMethod:     enums.PaymentMethodCash,
		Status:            status,
		Items:             items,
		CreatedAt:         createdAt,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
}

func seedProduct(t *testing.T, db *gorm.DB, businessID uuid.UUID, name string, stock, threshold int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:                uuid.New(),
		BusinessID:        businessID,
		Name:              name,
		Price:             decimal.RequireFromString("1.00"),
		Stock:             stock,
		LowStockThreshold: threshold,
		IsActive:          active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestDashboardStats(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	businessID := uuid.New()
	now := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// today: 30.00 across 2 sales; yesterday: 20.00 across 1 sale
	seedSale(t, db, businessID, "10.00", enums.TransactionStatusCompleted, midnight.Add(time.Hour))
	seedSale(t, db, businessID, "20.00", enums.TransactionStatusCompleted, midnight.Add(2*time.Hour))
	seedSale(t, db, businessID, "20.00", enums.TransactionStatusCompleted, midnight.Add(-3*time.Hour))
	// pending sales and foreign tenants never count
	seedSale(t, db, businessID, "99.00", enums.TransactionStatusPending, midnight.Add(time.Hour))
	seedSale(t, db, uuid.New(), "99.00", enums.TransactionStatusCompleted, midnight.Add(time.Hour))

	seedProduct(t, db, businessID, "Scarce", 2, 5, true)
	seedProduct(t, db, businessID, "Plentiful", 50, 5, true)
	seedProduct(t, db, businessID, "Retired", 0, 5, false)

	svc := newTestService(t, db, now)
	stats, err := svc.DashboardStats(context.Background(), businessID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TodaySales != "30.00" {
		t.Fatalf("expected today sales 30.00, got %s", stats.TodaySales)
	}
	if stats.TodayTransactions != 2 {
		t.Fatalf("expected 2 transactions, got %d", stats.TodayTransactions)
	}
	if stats.AverageSale != "15.00" {
		t.Fatalf("expected average 15.00, got %s", stats.AverageSale)
	}
	if stats.LowStockCount != 1 {
		t.Fatalf("expected low stock count 1, got %d", stats.LowStockCount)
	}
	if stats.TodayGrowth != "50.0" {
		t.Fatalf("expected today growth 50.0, got %s", stats.TodayGrowth)
	}
	if stats.TransactionGrowth != "100.0" {
		t.Fatalf("expected transaction growth 100.0, got %s", stats.TransactionGrowth)
	}
	// averages moved from 20.00 to 15.00
	if stats.AverageGrowth != "-25.0" {
		t.Fatalf("expected average growth -25.0, got %s", stats.AverageGrowth)
	}
}

func TestDashboardStatsZeroBaseline(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	businessID := uuid.New()
	now := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	seedSale(t, db, businessID, "10.00", enums.TransactionStatusCompleted, midnight.Add(time.Hour))

	svc := newTestService(t, db, now)
	stats, err := svc.DashboardStats(context.Background(), businessID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TodayGrowth != "0.0" || stats.TransactionGrowth != "0.0" || stats.AverageGrowth != "0.0" {
		t.Fatalf("expected zero growth with empty baseline, got %s / %s / %s",
			stats.TodayGrowth, stats.TransactionGrowth, stats.AverageGrowth)
	}
}

func TestDashboardStatsEmptyDay(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC))
	stats, err := svc.DashboardStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TodaySales != "0.00" || stats.TodayTransactions != 0 || stats.AverageSale != "0.00" {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}

func TestTopProducts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	businessID := uuid.New()
	now := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)

	alpha := seedProduct(t, db, businessID, "Alpha", 10, 5, true)
	beta := seedProduct(t, db, businessID, "Beta", 10, 5, true)
	stale := seedProduct(t, db, businessID, "Stale", 10, 5, true)

	seedSale(t, db, businessID, "40.00", enums.TransactionStatusCompleted, now.Add(-24*time.Hour),
		models.TransactionItem{ID: uuid.New(), ProductID: alpha.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("10.00"), Total: decimal.RequireFromString("40.00")})
	seedSale(t, db, businessID, "15.00", enums.TransactionStatusCompleted, now.Add(-48*time.Hour),
		models.TransactionItem{ID: uuid.New(), ProductID: beta.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("5.00"), Total: decimal.RequireFromString("15.00")})
	seedSale(t, db, businessID, "10.00", enums.TransactionStatusCompleted, now.Add(-72*time.Hour),
		models.TransactionItem{ID: uuid.New(), ProductID: alpha.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("10.00"), Total: decimal.RequireFromString("10.00")})
	// outside the trailing window
	seedSale(t, db, businessID, "500.00", enums.TransactionStatusCompleted, now.Add(-31*24*time.Hour),
		models.TransactionItem{ID: uuid.New(), ProductID: stale.ID, Quantity: 50, UnitPrice: decimal.RequireFromString("10.00"), Total: decimal.RequireFromString("500.00")})

	svc := newTestService(t, db, now)
	rows, err := svc.TopProducts(context.Background(), businessID, 5)
	if err != nil {
		t.Fatalf("top products: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 ranked products, got %d", len(rows))
	}
	if rows[0].ProductID != alpha.ID || rows[0].SoldCount != 5 || rows[0].Revenue != "50.00" {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[1].ProductID != beta.ID || rows[1].SoldCount != 3 || rows[1].Revenue != "15.00" {
		t.Fatalf("unexpected runner-up: %+v", rows[1])
	}
}

func TestLowStockProducts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	businessID := uuid.New()

	atThreshold := seedProduct(t, db, businessID, "At", 5, 5, true)
	empty := seedProduct(t, db, businessID, "Empty", 0, 5, true)
	seedProduct(t, db, businessID, "Healthy", 50, 5, true)
	seedProduct(t, db, businessID, "Retired", 0, 5, false)
	seedProduct(t, db, uuid.New(), "Foreign", 0, 5, true)

	svc := newTestService(t, db, time.Now())
	rows, err := svc.LowStockProducts(context.Background(), businessID)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 low stock rows, got %d", len(rows))
	}
	if rows[0].ProductID != empty.ID {
		t.Fatalf("expected emptiest first, got %+v", rows[0])
	}
	if rows[1].ProductID != atThreshold.ID {
		t.Fatalf("expected threshold product second, got %+v", rows[1])
	}
}
