package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
)

// Service exposes category management operations.
type Service interface {
	ListCategories(ctx context.Context, businessID uuid.UUID) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, businessID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error)
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

type service struct {
	repo *Repository
}

// NewService constructs a category service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

// ListCategories returns the categories owned by the business.
func (s *service) ListCategories(ctx context.Context, businessID uuid.UUID) ([]CategoryDTO, error) {
	rows, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCategoryDTO(&rows[i]))
	}
	return dtos, nil
}

// CreateCategory inserts a category for the business.
func (s *service) CreateCategory(ctx context.Context, businessID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := s.repo.Create(ctx, &models.Category{
		BusinessID:  businessID,
		Name:        name,
		Description: input.Description,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}
	return NewCategoryDTO(category), nil
}
