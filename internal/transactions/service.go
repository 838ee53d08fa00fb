package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
	"github.com/znforge/pos-backend/pkg/pagination"
)

// Service exposes read access to committed sales.
type Service interface {
	ListTransactions(ctx context.Context, businessID uuid.UUID, limit int) ([]TransactionDTO, error)
	GetTransaction(ctx context.Context, businessID, transactionID uuid.UUID) (*TransactionDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a transactions read service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	return &service{repo: repo}, nil
}

// ListTransactions returns recent sales with display names, newest first.
func (s *service) ListTransactions(ctx context.Context, businessID uuid.UUID, limit int) ([]TransactionDTO, error) {
	rows, err := s.repo.ListByBusiness(ctx, businessID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing transactions")
	}

	dtos := make([]TransactionDTO, 0, len(rows))
	for _, row := range rows {
		dto := TransactionDTO{
			ID:                row.ID,
			TransactionNumber: row.TransactionNumber,
			CustomerID:        row.CustomerID,
			UserID:            row.UserID,
			Subtotal:          row.Subtotal,
			TaxAmount:         row.TaxAmount,
			Total:             row.Total,
			PaymentMethod:     row.PaymentMethod,
			Status:            row.Status,
			UserName:          joinName(row.UserFirstName, row.UserLastName),
			CreatedAt:         row.CreatedAt,
		}
		if row.CustomerFirstName != nil || row.CustomerLastName != nil {
			name := joinName(deref(row.CustomerFirstName), deref(row.CustomerLastName))
			dto.CustomerName = &name
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// GetTransaction loads one sale with its line items.
func (s *service) GetTransaction(ctx context.Context, businessID, transactionID uuid.UUID) (*TransactionDTO, error) {
	txn, err := s.repo.FindByIDForBusiness(ctx, businessID, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading transaction")
	}
	return NewTransactionDTO(txn), nil
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
