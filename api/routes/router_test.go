package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/znforge/pos-backend/internal/auth"
	productsvc "github.com/znforge/pos-backend/internal/products"
	pkgAuth "github.com/znforge/pos-backend/pkg/auth"
	"github.com/znforge/pos-backend/pkg/auth/session"
	"github.com/znforge/pos-backend/pkg/config"
	"github.com/znforge/pos-backend/pkg/enums"
	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{ ok bool }

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }

type stubProductService struct{ listed bool }

func (s *stubProductService) ListProducts(ctx context.Context, businessID uuid.UUID, limit int) ([]productsvc.ProductDTO, error) {
	s.listed = true
	return []productsvc.ProductDTO{}, nil
}

func (s *stubProductService) GetProduct(ctx context.Context, businessID, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubProductService) CreateProduct(ctx context.Context, businessID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubProductService) UpdateProduct(ctx context.Context, businessID, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: productID}, nil
}

func (s *stubProductService) DeleteProduct(ctx context.Context, businessID, productID uuid.UUID) error {
	return nil
}

func (s *stubProductService) AdjustStock(ctx context.Context, businessID, productID uuid.UUID, stock int) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: productID, Stock: stock}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func newTestRouter(products productsvc.Service) http.Handler {
	return NewRouter(Deps{
		Config:         testConfig(),
		DB:             stubPinger{},
		SessionChecker: stubSessionChecker{ok: true},
		AuthService:    stubAuthService{},
		Products:       products,
	})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:     uuid.New(),
		BusinessID: uuid.New(),
		Role:       role,
		JTI:        session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(&stubProductService{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	router := newTestRouter(&stubProductService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRouterDispatchesAuthenticatedRequest(t *testing.T) {
	products := &stubProductService{}
	router := newTestRouter(products)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleEmployee))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if !products.listed {
		t.Fatal("expected product service to be invoked")
	}
}

func TestRouterRoleGating(t *testing.T) {
	router := newTestRouter(&stubProductService{})
	productID := uuid.New()

	cases := []struct {
		name   string
		role   enums.UserRole
		method string
		path   string
		want   int
	}{
		{"employee cannot delete", enums.UserRoleEmployee, http.MethodDelete, "/api/v1/products/" + productID.String(), http.StatusForbidden},
		{"admin can delete", enums.UserRoleAdmin, http.MethodDelete, "/api/v1/products/" + productID.String(), http.StatusOK},
		{"employee cannot adjust stock", enums.UserRoleEmployee, http.MethodPost, "/api/v1/products/" + productID.String() + "/stock", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body *strings.Reader
			if tc.method == http.MethodPost {
				body = strings.NewReader(`{"stock":3}`)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			req.Header.Set("Authorization", "Bearer "+mintToken(t, tc.role))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterLoginRoute(t *testing.T) {
	router := newTestRouter(&stubProductService{})

	payload := `{"businessId":"` + uuid.NewString() + `","username":"cashier","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}
