package auth

import (
	"testing"
	"time"

	"github.com/beworking/beworking-backend/pkg/config"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "beworking",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	now := time.Now()

	token, err := MintAccessToken(cfg, now, "user@example.com", userID)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "user@example.com" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.UserID != userID {
		t.Fatalf("unexpected user id %s", claims.UserID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), "user@example.com", uuid.New())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatalf("expected parse to fail with wrong secret")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	issued := time.Now().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, issued, "user@example.com", uuid.New())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	minted := cfg
	minted.Issuer = "someone-else"
	token, err := MintAccessToken(minted, time.Now(), "user@example.com", uuid.New())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected foreign issuer to fail")
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseAccessToken(testJWTConfig(), "not.a.jwt"); err == nil {
		t.Fatalf("expected malformed token to fail")
	}
}

func TestMintAccessTokenValidatesInputs(t *testing.T) {
	cfg := testJWTConfig()

	if _, err := MintAccessToken(cfg, time.Now(), "", uuid.New()); err == nil {
		t.Fatalf("expected error for empty email")
	}
	if _, err := MintAccessToken(cfg, time.Now(), "user@example.com", uuid.Nil); err == nil {
		t.Fatalf("expected error for nil user id")
	}
	missing := cfg
	missing.Secret = ""
	if _, err := MintAccessToken(missing, time.Now(), "user@example.com", uuid.New()); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}
