package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	token, err := manager.GenerateToken("ops@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "ops@example.com" || claims.Role != RoleAdmin || claims.Issuer != "lead-capture" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := manager.ParseToken(token + "tampered"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	manager.now = func() time.Time { return issued }
	token, err := manager.GenerateToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.ParseToken(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret", time.Hour).GenerateToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewJWTManager("other", time.Hour).ParseToken(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestJWTManager_EmptySecretOrSubject(t *testing.T) {
	if _, err := NewJWTManager("", time.Hour).GenerateToken("ops", RoleAdmin); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
	if _, err := NewJWTManager("secret", time.Hour).GenerateToken("  ", RoleAdmin); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("expected ErrEmptySubject, got %v", err)
	}
	if got := NewJWTManager("secret", 0).TTL(); got != 24*time.Hour {
		t.Fatalf("expected default ttl, got %s", got)
	}
}
