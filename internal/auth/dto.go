package auth

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/znforge/pos-backend/internal/users"
	"github.com/znforge/pos-backend/pkg/db/models"
)

// LoginRequest captures the credentials sent to the login endpoint. The
// business id is part of the identity because usernames are only unique
// within one business.
type LoginRequest struct {
	BusinessID uuid.UUID `json:"businessId" validate:"required"`
	Username   string    `json:"username" validate:"required"`
	Password   string    `json:"password" validate:"required"`
}

// BusinessSummary describes the tenant metadata returned after login.
type BusinessSummary struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	TaxRate  decimal.Decimal `json:"taxRate"`
	Currency string          `json:"currency"`
}

// LoginResponse contains the tokens, user, and business produced by a
// successful login.
type LoginResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	User         *users.UserDTO   `json:"user"`
	Business     *BusinessSummary `json:"business"`
}

// RefreshRequest carries the expiring access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func newBusinessSummary(business *models.Business) *BusinessSummary {
	if business == nil {
		return nil
	}
	return &BusinessSummary{
		ID:       business.ID,
		Name:     business.Name,
		TaxRate:  business.TaxRate,
		Currency: business.Currency,
	}
}
