package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/znforge/pos-backend/pkg/config"
	"github.com/znforge/pos-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "znforge-pos",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:     uuid.New(),
		BusinessID: uuid.New(),
		Role:       enums.UserRoleManager,
		JTI:        "access-123",
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user id %s, got %s", payload.UserID, claims.UserID)
	}
	if claims.BusinessID != payload.BusinessID {
		t.Fatalf("expected business id %s, got %s", payload.BusinessID, claims.BusinessID)
	}
	if claims.Role != enums.UserRoleManager {
		t.Fatalf("expected role manager, got %s", claims.Role)
	}
	if claims.ID != "access-123" {
		t.Fatalf("expected jti access-123, got %s", claims.ID)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	cfg := testJWTConfig()
	valid := AccessTokenPayload{
		UserID:     uuid.New(),
		BusinessID: uuid.New(),
		Role:       enums.UserRoleEmployee,
	}

	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
	}{
		{"missing secret", config.JWTConfig{Issuer: "x", ExpirationMinutes: 5}, valid},
		{"missing issuer", config.JWTConfig{Secret: "x", ExpirationMinutes: 5}, valid},
		{"zero expiry", config.JWTConfig{Secret: "x", Issuer: "x"}, valid},
		{"nil user", cfg, AccessTokenPayload{BusinessID: valid.BusinessID, Role: valid.Role}},
		{"nil business", cfg, AccessTokenPayload{UserID: valid.UserID, Role: valid.Role}},
		{"bad role", cfg, AccessTokenPayload{UserID: valid.UserID, BusinessID: valid.BusinessID, Role: "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, time.Now(), tc.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:     uuid.New(),
		BusinessID: uuid.New(),
		Role:       enums.UserRoleAdmin,
	}
	signed, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("allow-expired parse: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user id %s, got %s", payload.UserID, claims.UserID)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:     uuid.New(),
		BusinessID: uuid.New(),
		Role:       enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature validation failure")
	}
}
