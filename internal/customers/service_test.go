package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:customers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Customer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *Repository, uuid.UUID) {
	t.Helper()
	db := newTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, uuid.New()
}

func TestCreateCustomerValidation(t *testing.T) {
	t.Parallel()

	svc, _, businessID := newTestService(t)
	_, err := svc.CreateCustomer(context.Background(), businessID, CreateCustomerInput{FirstName: " ", LastName: "Doe"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAndUpdateCustomer(t *testing.T) {
	t.Parallel()

	svc, _, businessID := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, businessID, CreateCustomerInput{FirstName: "Jane", LastName: "Doe"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.LoyaltyPoints != 0 || !created.TotalSpent.IsZero() {
		t.Fatalf("expected fresh loyalty counters, got %d / %s", created.LoyaltyPoints, created.TotalSpent)
	}

	phone := "555-0100"
	updated, err := svc.UpdateCustomer(ctx, businessID, created.ID, UpdateCustomerInput{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("expected phone updated, got %v", updated.Phone)
	}
	if updated.FirstName != "Jane" {
		t.Fatalf("partial update should not touch first name, got %q", updated.FirstName)
	}
}

func TestGetCustomerIsTenantScoped(t *testing.T) {
	t.Parallel()

	svc, _, businessID := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, businessID, CreateCustomerInput{FirstName: "Jane", LastName: "Doe"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.GetCustomer(ctx, uuid.New(), created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found across tenants, got %v", err)
	}
}

func TestApplySaleTotalsIsRelative(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	businessID := uuid.New()

	customer := &models.Customer{
		ID:            uuid.New(),
		BusinessID:    businessID,
		FirstName:     "Jane",
		LastName:      "Doe",
		LoyaltyPoints: 3,
		TotalSpent:    decimal.RequireFromString("10.00"),
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	affected, err := repo.ApplySaleTotals(ctx, businessID, customer.ID, decimal.RequireFromString("27.06"), 2)
	if err != nil {
		t.Fatalf("apply totals: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	reloaded, err := repo.FindByIDForBusiness(ctx, businessID, customer.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.LoyaltyPoints != 5 {
		t.Fatalf("expected 5 loyalty points, got %d", reloaded.LoyaltyPoints)
	}
	if !reloaded.TotalSpent.Equal(decimal.RequireFromString("37.06")) {
		t.Fatalf("expected total spent 37.06, got %s", reloaded.TotalSpent)
	}
}
