package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/internal/businesses"
	"github.com/znforge/pos-backend/internal/users"
	"github.com/znforge/pos-backend/pkg/config"
	"github.com/znforge/pos-backend/pkg/db/models"
	"github.com/znforge/pos-backend/pkg/enums"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
	"github.com/znforge/pos-backend/pkg/security"
)

// RegisterRequest contains the payload for onboarding a new business with
// its first admin account.
type RegisterRequest struct {
	BusinessName  string  `json:"businessName" validate:"required"`
	BusinessEmail string  `json:"businessEmail" validate:"required,email"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	TaxRate       *string `json:"taxRate,omitempty"`

	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// RegisterResponse returns the created tenant and its admin account.
type RegisterResponse struct {
	User     *users.UserDTO   `json:"user"`
	Business *BusinessSummary `json:"business"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          txRunner
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the business and its admin user in one transaction.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	businessName := strings.TrimSpace(req.BusinessName)
	if businessName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	taxRate := decimal.RequireFromString("0.0825")
	if req.TaxRate != nil {
		parsed, err := decimal.NewFromString(*req.TaxRate)
		if err != nil || parsed.IsNegative() || parsed.GreaterThan(decimal.NewFromInt(1)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be a fraction between 0 and 1")
		}
		taxRate = parsed
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var resp *RegisterResponse
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		businessRepo := businesses.NewRepository(tx)
		userRepo := users.NewRepository(tx)

		business, err := businessRepo.Create(ctx, &models.Business{
			Name:     businessName,
			Email:    strings.ToLower(strings.TrimSpace(req.BusinessEmail)),
			Phone:    req.Phone,
			Address:  req.Address,
			TaxRate:  taxRate,
			Currency: "USD",
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create business")
		}

		if _, err := userRepo.FindByUsername(ctx, business.ID, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			BusinessID:   business.ID,
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Role:         enums.UserRoleAdmin,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		resp = &RegisterResponse{
			User:     users.FromModel(user),
			Business: newBusinessSummary(business),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
