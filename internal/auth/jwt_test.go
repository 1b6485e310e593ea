package auth

import (
	"testing"
	"time"

	"filechat-lite/internal/model"
)

var testIdentity = model.Identity{ID: "user-1", Username: "alice", Email: "alice@example.com"}

func TestCreateAndVerifyToken(t *testing.T) {
	cfg := TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"}
	tok, err := CreateToken(testIdentity, cfg)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	claims, err := VerifyToken(tok, cfg)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.IdentityID() != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.IdentityID())
	}
	if claims.Username != "alice" {
		t.Fatalf("expected alice, got %q", claims.Username)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	cfg := TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"}
	tok, err := CreateToken(testIdentity, cfg)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	_, err = VerifyToken(tok, TokenConfig{Secret: "wrong", Expiry: time.Hour, Issuer: "test"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestCreateToken_InvalidInput(t *testing.T) {
	if _, err := CreateToken(testIdentity, TokenConfig{Secret: "secret", Expiry: -time.Second}); err == nil {
		t.Fatalf("expected error for negative expiry")
	}
	if _, err := CreateToken(model.Identity{}, DefaultTokenConfig("secret")); err == nil {
		t.Fatalf("expected error for missing identity")
	}
	if _, err := CreateToken(testIdentity, DefaultTokenConfig("")); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	if _, err := VerifyToken("not-a-token", DefaultTokenConfig("secret")); err == nil {
		t.Fatalf("expected error")
	}
}
