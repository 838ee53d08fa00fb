package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/internal/customers"
	"github.com/znforge/pos-backend/internal/products"
	"github.com/znforge/pos-backend/internal/transactions"
	"github.com/znforge/pos-backend/pkg/db"
	"github.com/znforge/pos-backend/pkg/db/models"
	"github.com/znforge/pos-backend/pkg/enums"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
)

const transactionNumberConstraint = "uq_transactions_business_number"

// loyaltyDivisor converts a sale total into loyalty points: one point per
// ten currency units, fractions discarded.
var loyaltyDivisor = decimal.NewFromInt(10)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type businessLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
}

// Service commits sales atomically: the transaction record, its line items,
// the stock decrements, and the customer loyalty update all land together
// or not at all.
type Service interface {
	CommitSale(ctx context.Context, businessID, userID uuid.UUID, input CommitSaleInput) (*transactions.TransactionDTO, error)
}

// CommitSaleInput is the validated payload for one sale.
type CommitSaleInput struct {
	CustomerID    *uuid.UUID
	PaymentMethod enums.PaymentMethod
	Status        *enums.TransactionStatus
	Items         []SaleItemInput
}

// SaleItemInput is one line of the cart.
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

type service struct {
	tx           txRunner
	businessRepo businessLoader
	productRepo  *products.Repository
	customerRepo *customers.Repository
	txnRepo      *transactions.Repository
}

// NewService constructs the sale processor.
func NewService(tx txRunner, businessRepo businessLoader, productRepo *products.Repository, customerRepo *customers.Repository, txnRepo *transactions.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if businessRepo == nil {
		return nil, fmt.Errorf("business repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if txnRepo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	return &service{
		tx:           tx,
		businessRepo: businessRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txnRepo:      txnRepo,
	}, nil
}

// CommitSale validates the cart, prices it against the business tax rate,
// and persists everything in one DB transaction. Insufficient stock rejects
// the whole sale with a conflict; a duplicate transaction number retries
// once with a fresh number.
func (s *service) CommitSale(ctx context.Context, businessID, userID uuid.UUID, input CommitSaleInput) (*transactions.TransactionDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading business")
	}

	status := enums.TransactionStatusCompleted
	if input.Status != nil {
		status = *input.Status
	}

	items, subtotal := priceItems(input.Items)
	taxAmount := subtotal.Mul(business.TaxRate).Round(2)
	total := subtotal.Add(taxAmount)

	var committed *models.Transaction
	for attempt := 0; attempt < 2; attempt++ {
		number, err := GenerateNumber(time.Now())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating transaction number")
		}

		txn := &models.Transaction{
			BusinessID:        businessID,
			CustomerID:        input.CustomerID,
			UserID:            userID,
			TransactionNumber: number,
			Subtotal:          subtotal,
			TaxAmount:         taxAmount,
			Total:             total,
			PaymentMethod:     input.PaymentMethod,
			Status:            status,
			Items:             items,
		}

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.commitTx(ctx, tx, businessID, txn, input)
		})
		if err == nil {
			committed = txn
			break
		}
		if db.IsUniqueViolation(err, transactionNumberConstraint) {
			if attempt == 0 {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "transaction number collision")
		}
		return nil, err
	}
	if committed == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "transaction number collision")
	}

	return transactions.NewTransactionDTO(committed), nil
}

func (s *service) commitTx(ctx context.Context, tx *gorm.DB, businessID uuid.UUID, txn *models.Transaction, input CommitSaleInput) error {
	productRepo := s.productRepo.WithTx(tx)
	for _, item := range input.Items {
		product, err := productRepo.FindByIDForBusiness(ctx, businessID, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
		}

		affected, err := productRepo.DecrementStock(ctx, businessID, item.ProductID, item.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for %s", product.Name))
		}
	}

	if input.CustomerID != nil {
		points := txn.Total.Div(loyaltyDivisor).Floor().IntPart()
		affected, err := s.customerRepo.WithTx(tx).ApplySaleTotals(ctx, businessID, *input.CustomerID, txn.Total, points)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customer totals")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
	}

	if _, err := s.txnRepo.WithTx(tx).Create(ctx, txn); err != nil {
		if db.IsUniqueViolation(err, transactionNumberConstraint) {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating transaction")
	}
	return nil
}

func validateInput(input CommitSaleInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale requires at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	if input.Status != nil && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *input.Status))
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product id is required")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item unit price cannot be negative")
		}
	}
	return nil
}

func priceItems(items []SaleItemInput) ([]models.TransactionItem, decimal.Decimal) {
	lines := make([]models.TransactionItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, models.TransactionItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Round(2),
			Total:     lineTotal,
		})
	}
	return lines, subtotal.Round(2)
}
