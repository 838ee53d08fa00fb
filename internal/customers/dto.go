package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/znforge/pos-backend/pkg/db/models"
)

// CustomerDTO represents the customer payload returned to clients.
type CustomerDTO struct {
	ID            uuid.UUID       `json:"id"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Email         *string         `json:"email,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Address       *string         `json:"address,omitempty"`
	LoyaltyPoints int             `json:"loyaltyPoints"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewCustomerDTO builds a DTO from the persisted model.
func NewCustomerDTO(customer *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:            customer.ID,
		FirstName:     customer.FirstName,
		LastName:      customer.LastName,
		Email:         customer.Email,
		Phone:         customer.Phone,
		Address:       customer.Address,
		LoyaltyPoints: customer.LoyaltyPoints,
		TotalSpent:    customer.TotalSpent,
		CreatedAt:     customer.CreatedAt,
		UpdatedAt:     customer.UpdatedAt,
	}
}
