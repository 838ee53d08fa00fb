package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/znforge/pos-backend/pkg/auth"
	"github.com/znforge/pos-backend/pkg/auth/session"
	"github.com/znforge/pos-backend/pkg/config"
	"github.com/znforge/pos-backend/pkg/db/models"
	"github.com/znforge/pos-backend/pkg/enums"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
	"github.com/znforge/pos-backend/pkg/security"
)

type stubUserRepo struct {
	user      *models.User
	lastLogin *time.Time
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, businessID uuid.UUID, username string) (*models.User, error) {
	if s.user == nil || s.user.BusinessID != businessID || s.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubBusinessRepo struct {
	business *models.Business
}

func (s *stubBusinessRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	if s.business == nil || s.business.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.business, nil
}

type stubSessionManager struct {
	generated string
	rotateErr error
	revoked   []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = accessID
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access-id", "new-refresh", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "znforge-pos",
		ExpirationMinutes: 15,
	}
}

func newLoginFixture(t *testing.T, password string) (Service, *stubUserRepo, *stubSessionManager, *models.User) {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	businessID := uuid.New()
	user := &models.User{
		ID:           uuid.New(),
		BusinessID:   businessID,
		Username:     "cashier",
		Email:        "cashier@example.com",
		PasswordHash: hash,
		FirstName:    "Casey",
		LastName:     "Price",
		Role:         enums.UserRoleEmployee,
		IsActive:     true,
	}
	userRepo := &stubUserRepo{user: user}
	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:     userRepo,
		BusinessRepo: &stubBusinessRepo{business: &models.Business{ID: businessID, Name: "Shop", Currency: "USD"}},
		Session:      sessions,
		JWTConfig:    testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, userRepo, sessions, user
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	svc, userRepo, sessions, user := newLoginFixture(t, "hunter2boogaloo")
	resp, err := svc.Login(context.Background(), LoginRequest{
		BusinessID: user.BusinessID,
		Username:   "cashier",
		Password:   "hunter2boogaloo",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if userRepo.lastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}
	if resp.User.Username != "cashier" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if resp.Business == nil || resp.Business.Name != "Shop" {
		t.Fatalf("unexpected business payload: %+v", resp.Business)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.BusinessID != user.BusinessID || claims.UserID != user.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != sessions.generated {
		t.Fatalf("expected session keyed by jti, got %s vs %s", claims.ID, sessions.generated)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	svc, _, _, user := newLoginFixture(t, "hunter2boogaloo")
	ctx := context.Background()

	cases := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{BusinessID: user.BusinessID, Username: "cashier", Password: "nope"}},
		{"unknown username", LoginRequest{BusinessID: user.BusinessID, Username: "ghost", Password: "hunter2boogaloo"}},
		{"wrong business", LoginRequest{BusinessID: uuid.New(), Username: "cashier", Password: "hunter2boogaloo"}},
		{"empty username", LoginRequest{BusinessID: user.BusinessID, Password: "hunter2boogaloo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.req)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	t.Parallel()

	svc, userRepo, _, user := newLoginFixture(t, "hunter2boogaloo")
	userRepo.user.IsActive = false

	_, err := svc.Login(context.Background(), LoginRequest{
		BusinessID: user.BusinessID,
		Username:   "cashier",
		Password:   "hunter2boogaloo",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	t.Parallel()

	svc, _, _, user := newLoginFixture(t, "hunter2boogaloo")
	login, err := svc.Login(context.Background(), LoginRequest{
		BusinessID: user.BusinessID,
		Username:   "cashier",
		Password:   "hunter2boogaloo",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != "new-access-id" {
		t.Fatalf("expected rotated jti, got %s", claims.ID)
	}
	if resp.RefreshToken != "new-refresh" {
		t.Fatalf("expected rotated refresh token, got %s", resp.RefreshToken)
	}
}

func TestRefreshRejectsInvalidSession(t *testing.T) {
	t.Parallel()

	svc, _, sessions, user := newLoginFixture(t, "hunter2boogaloo")
	sessions.rotateErr = session.ErrInvalidRefreshToken

	login, err := svc.Login(context.Background(), LoginRequest{
		BusinessID: user.BusinessID,
		Username:   "cashier",
		Password:   "hunter2boogaloo",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "stolen",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if _, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: "garbage", RefreshToken: "x"}); err == nil {
		t.Fatal("expected malformed token to fail")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	svc, _, sessions, _ := newLoginFixture(t, "hunter2boogaloo")
	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("expected revoked access id, got %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), " "); err == nil {
		t.Fatal("expected unauthorized for empty access id")
	}
}
