package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/znforge/pos-backend/pkg/db/models"
	"github.com/znforge/pos-backend/pkg/enums"
)

// TransactionDTO represents a committed sale returned to clients.
type TransactionDTO struct {
	ID                uuid.UUID               `json:"id"`
	TransactionNumber string                  `json:"transactionNumber"`
	CustomerID        *uuid.UUID              `json:"customerId,omitempty"`
	UserID            uuid.UUID               `json:"userId"`
	Subtotal          decimal.Decimal         `json:"subtotal"`
	TaxAmount         decimal.Decimal         `json:"taxAmount"`
	Total             decimal.Decimal         `json:"total"`
	PaymentMethod     enums.PaymentMethod     `json:"paymentMethod"`
	Status            enums.TransactionStatus `json:"status"`
	UserName          string                  `json:"userName,omitempty"`
	CustomerName      *string                 `json:"customerName,omitempty"`
	Items             []TransactionItemDTO    `json:"items,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
}

// TransactionItemDTO is one sale line in a response payload.
type TransactionItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// NewTransactionDTO builds a DTO from the persisted model.
func NewTransactionDTO(txn *models.Transaction) *TransactionDTO {
	dto := &TransactionDTO{
		ID:                txn.ID,
		TransactionNumber: txn.TransactionNumber,
		CustomerID:        txn.CustomerID,
		UserID:            txn.UserID,
		Subtotal:          txn.Subtotal,
		TaxAmount:         txn.TaxAmount,
		Total:             txn.Total,
		PaymentMethod:     txn.PaymentMethod,
		Status:            txn.Status,
		CreatedAt:         txn.CreatedAt,
	}
	for _, item := range txn.Items {
		dto.Items = append(dto.Items, TransactionItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
	return dto
}
