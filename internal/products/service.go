package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
	"github.com/znforge/pos-backend/pkg/pagination"
)

// Service exposes product management operations.
type Service interface {
	ListProducts(ctx context.Context, businessID uuid.UUID, limit int) ([]ProductDTO, error)
	GetProduct(ctx context.Context, businessID, productID uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, businessID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, businessID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, businessID, productID uuid.UUID) error
	AdjustStock(ctx context.Context, businessID, productID uuid.UUID, stock int) (*ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID        *uuid.UUID
	Name              string
	Description       *string
	SKU               *string
	Barcode           *string
	Price             decimal.Decimal
	Cost              decimal.Decimal
	Stock             int
	LowStockThreshold *int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID        *uuid.UUID
	Name              *string
	Description       *string
	SKU               *string
	Barcode           *string
	Price             *decimal.Decimal
	Cost              *decimal.Decimal
	LowStockThreshold *int
	IsActive          *bool
}

type categoryLoader interface {
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo         *Repository
	categoryRepo categoryLoader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, categoryRepo categoryLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, categoryRepo: categoryRepo}, nil
}

// ListProducts returns the active products for the business, newest first.
func (s *service) ListProducts(ctx context.Context, businessID uuid.UUID, limit int) ([]ProductDTO, error) {
	rows, err := s.repo.ListActive(ctx, businessID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewProductDTO(&rows[i]))
	}
	return dtos, nil
}

// GetProduct loads one product scoped to the business.
func (s *service) GetProduct(ctx context.Context, businessID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// CreateProduct inserts a new product after validating its pricing and category.
func (s *service) CreateProduct(ctx context.Context, businessID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if err := s.ensureCategory(ctx, businessID, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		BusinessID:        businessID,
		CategoryID:        input.CategoryID,
		Name:              name,
		Description:       input.Description,
		SKU:               input.SKU,
		Barcode:           input.Barcode,
		Price:             input.Price.Round(2),
		Cost:              input.Cost.Round(2),
		Stock:             input.Stock,
		LowStockThreshold: 5,
		IsActive:          true,
	}
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
		}
		product.LowStockThreshold = *input.LowStockThreshold
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *service) UpdateProduct(ctx context.Context, businessID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.SKU != nil {
		product.SKU = input.SKU
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = input.Price.Round(2)
	}
	if input.Cost != nil {
		if input.Cost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
		}
		product.Cost = input.Cost.Round(2)
	}
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
		}
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, businessID, input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct soft-deletes the product so historical sales keep their rows.
func (s *service) DeleteProduct(ctx context.Context, businessID, productID uuid.UUID) error {
	affected, err := s.repo.Deactivate(ctx, businessID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// AdjustStock overwrites the stock level for a product.
func (s *service) AdjustStock(ctx context.Context, businessID, productID uuid.UUID, stock int) (*ProductDTO, error) {
	if stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	affected, err := s.repo.SetStock(ctx, businessID, productID, stock)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adjusting stock")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.GetProduct(ctx, businessID, productID)
}

func (s *service) findProduct(ctx context.Context, businessID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByIDForBusiness(ctx, businessID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) ensureCategory(ctx context.Context, businessID uuid.UUID, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByIDForBusiness(ctx, businessID, *categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	return nil
}
