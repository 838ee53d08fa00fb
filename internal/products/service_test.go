package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/znforge/pos-backend/internal/categories"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository, uuid.UUID) {
	t.Helper()
	db := newTestDB(t)
	business := mustCreateTestBusiness(t, db)
	repo := NewRepository(db)
	svc, err := NewService(repo, categories.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, business.ID
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc, _, businessID := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{Price: decimal.New(1, 0)}},
		{"negative price", CreateProductInput{Name: "x", Price: decimal.New(-1, 0)}},
		{"negative stock", CreateProductInput{Name: "x", Price: decimal.New(1, 0), Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, businessID, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	t.Parallel()

	svc, _, businessID := newTestService(t)
	missing := uuid.New()
	_, err := svc.CreateProduct(context.Background(), businessID, CreateProductInput{
		Name:       "Widget",
		Price:      decimal.RequireFromString("3.50"),
		CategoryID: &missing,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateAndUpdateProduct(t *testing.T) {
	t.Parallel()

	svc, _, businessID := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, businessID, CreateProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("3.456"),
		Stock: 10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Price.Equal(decimal.RequireFromString("3.46")) {
		t.Fatalf("expected price rounded to 3.46, got %s", created.Price)
	}
	if created.LowStockThreshold != 5 {
		t.Fatalf("expected default threshold 5, got %d", created.LowStockThreshold)
	}

	newPrice := decimal.RequireFromString("4.00")
	updated, err := svc.UpdateProduct(ctx, businessID, created.ID, UpdateProductInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Price.Equal(newPrice) {
		t.Fatalf("expected updated price 4.00, got %s", updated.Price)
	}
	if updated.Stock != 10 {
		t.Fatalf("partial update should not touch stock, got %d", updated.Stock)
	}
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	t.Parallel()

	svc, repo, businessID := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, businessID, CreateProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("3.50"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteProduct(ctx, businessID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	row, err := repo.FindByIDForBusiness(ctx, businessID, created.ID)
	if err != nil {
		t.Fatalf("row should survive soft delete: %v", err)
	}
	if row.IsActive {
		t.Fatal("expected product to be deactivated")
	}

	if err := svc.DeleteProduct(ctx, businessID, uuid.New()); err == nil {
		t.Fatal("expected not found for unknown product")
	}
}

func TestAdjustStock(t *testing.T) {
	t.Parallel()

	svc, _, businessID := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, businessID, CreateProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("3.50"),
		Stock: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	adjusted, err := svc.AdjustStock(ctx, businessID, created.ID, 40)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if adjusted.Stock != 40 {
		t.Fatalf("expected stock 40, got %d", adjusted.Stock)
	}

	if _, err := svc.AdjustStock(ctx, businessID, created.ID, -1); err == nil {
		t.Fatal("expected validation error for negative stock")
	}
}
