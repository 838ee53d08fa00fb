package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/db/models"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
	"github.com/znforge/pos-backend/pkg/pagination"
)

// Service exposes customer management operations. Loyalty counters are out
// of reach here; only the sale commit path mutates them.
type Service interface {
	ListCustomers(ctx context.Context, businessID uuid.UUID, limit int) ([]CustomerDTO, error)
	GetCustomer(ctx context.Context, businessID, customerID uuid.UUID) (*CustomerDTO, error)
	CreateCustomer(ctx context.Context, businessID uuid.UUID, input CreateCustomerInput) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, businessID, customerID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
}

// CreateCustomerInput holds the validated payload to create a customer.
type CreateCustomerInput struct {
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	Address   *string
}

// UpdateCustomerInput holds optional mutation values for a customer.
type UpdateCustomerInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
}

type service struct {
	repo *Repository
}

// NewService constructs a customer service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

// ListCustomers returns the customers for the business, newest first.
func (s *service) ListCustomers(ctx context.Context, businessID uuid.UUID, limit int) ([]CustomerDTO, error) {
	rows, err := s.repo.ListByBusiness(ctx, businessID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCustomerDTO(&rows[i]))
	}
	return dtos, nil
}

// GetCustomer loads one customer scoped to the business.
func (s *service) GetCustomer(ctx context.Context, businessID, customerID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.findCustomer(ctx, businessID, customerID)
	if err != nil {
		return nil, err
	}
	return NewCustomerDTO(customer), nil
}

// CreateCustomer inserts a customer for the business.
func (s *service) CreateCustomer(ctx context.Context, businessID uuid.UUID, input CreateCustomerInput) (*CustomerDTO, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	customer, err := s.repo.Create(ctx, &models.Customer{
		BusinessID: businessID,
		FirstName:  firstName,
		LastName:   lastName,
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer")
	}
	return NewCustomerDTO(customer), nil
}

// UpdateCustomer applies partial updates to contact fields.
func (s *service) UpdateCustomer(ctx context.Context, businessID, customerID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.findCustomer(ctx, businessID, customerID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name is required")
		}
		customer.FirstName = name
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name is required")
		}
		customer.LastName = name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customer")
	}
	return NewCustomerDTO(updated), nil
}

func (s *service) findCustomer(ctx context.Context, businessID, customerID uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByIDForBusiness(ctx, businessID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return customer, nil
}
