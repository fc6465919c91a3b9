package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yoursocial/yoursocial/pkg/config"
)

func testTokenManager() *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
}

func TestIssueAndParsePair(t *testing.T) {
	m := testTokenManager()
	pair, err := m.IssuePair(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("expected expires_in 3600, got %d", pair.ExpiresIn)
	}

	claims, err := m.Parse(pair.AccessToken, TokenTypeAccess)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user 42, got %d", claims.UserID)
	}

	claims, err = m.Parse(pair.RefreshToken, TokenTypeRefresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user 42, got %d", claims.UserID)
	}
}

func TestParseRejectsWrongType(t *testing.T) {
	m := testTokenManager()
	pair, err := m.IssuePair(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Parse(pair.RefreshToken, TokenTypeAccess); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestParseRejectsForgedToken(t *testing.T) {
	m := testTokenManager()
	other := NewTokenManager(&config.AuthConfig{
		JWTSecret:       "other-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
	})
	pair, err := other.IssuePair(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Parse(pair.AccessToken, TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := m.Parse("not-a-token", TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
