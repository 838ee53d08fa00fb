package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/znforge/pos-backend/api/middleware"
	salesvc "github.com/znforge/pos-backend/internal/sales"
	txnsvc "github.com/znforge/pos-backend/internal/transactions"
	"github.com/znforge/pos-backend/pkg/enums"
	"github.com/znforge/pos-backend/pkg/logger"
)

type stubSaleService struct {
	gotBusinessID uuid.UUID
	gotUserID     uuid.UUID
	gotInput      salesvc.CommitSaleInput
	called        bool
}

func (s *stubSaleService) CommitSale(ctx context.Context, businessID, userID uuid.UUID, input salesvc.CommitSaleInput) (*txnsvc.TransactionDTO, error) {
	s.called = true
	s.gotBusinessID = businessID
	s.gotUserID = userID
	s.gotInput = input
	return &txnsvc.TransactionDTO{ID: uuid.New(), TransactionNumber: "TXN-20260801-deadbeef"}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func actorContext(businessID, userID uuid.UUID) context.Context {
	ctx := middleware.WithBusinessID(context.Background(), businessID.String())
	return middleware.WithUserID(ctx, userID.String())
}

func TestTransactionCreate(t *testing.T) {
	logg := testLogger()
	businessID := uuid.New()
	userID := uuid.New()
	productID := uuid.New()

	body := `{"paymentMethod":"cash","items":[{"productId":"` + productID.String() + `","quantity":2,"unitPrice":"12.50"}]}`

	t.Run("missing business context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		TransactionCreate(&stubSaleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403 got %d", rec.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"items":[]}`))
		req = req.WithContext(actorContext(businessID, userID))
		rec := httptest.NewRecorder()
		TransactionCreate(&stubSaleService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
		req = req.WithContext(actorContext(businessID, userID))

		stub := &stubSaleService{}
		rec := httptest.NewRecorder()
		TransactionCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.called {
			t.Fatal("expected CommitSale to be invoked")
		}
		if stub.gotBusinessID != businessID || stub.gotUserID != userID {
			t.Fatalf("unexpected actor: %s / %s", stub.gotBusinessID, stub.gotUserID)
		}
		if stub.gotInput.PaymentMethod != enums.PaymentMethodCash {
			t.Fatalf("unexpected payment method %q", stub.gotInput.PaymentMethod)
		}
		if len(stub.gotInput.Items) != 1 || stub.gotInput.Items[0].Quantity != 2 {
			t.Fatalf("unexpected items %+v", stub.gotInput.Items)
		}
		if !stub.gotInput.Items[0].UnitPrice.Equal(decimalFromString(t, "12.50")) {
			t.Fatalf("unexpected unit price %s", stub.gotInput.Items[0].UnitPrice)
		}
	})
}
