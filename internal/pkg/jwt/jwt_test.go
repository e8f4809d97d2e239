package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewService("secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	svc := NewService("secret", -time.Minute, time.Hour)
	token, err := svc.GenerateAccessToken(uuid.New(), "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	token, _ := NewService("one", time.Minute, time.Hour).GenerateAccessToken(uuid.New(), "user")
	if _, err := NewService("two", time.Minute, time.Hour).ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshTokensAreUniqueAndHashStable(t *testing.T) {
	svc := NewService("secret", time.Minute, time.Hour)
	a, _ := svc.GenerateRefreshToken()
	b, _ := svc.GenerateRefreshToken()
	if a == b || len(a) != 64 {
		t.Fatalf("unexpected refresh tokens %q %q", a, b)
	}
	if HashRefreshToken(a) != HashRefreshToken(a) || HashRefreshToken(a) == HashRefreshToken(b) {
		t.Fatal("hash must be deterministic and distinct")
	}
}
