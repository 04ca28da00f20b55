package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	token, expires, err := s.Generate(42, "admin", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("token already expired")
	}
	claims, err := s.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 || claims.Username != "admin" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, _, _ := NewTokenService("one", time.Hour).Generate(1, "a", "admin")
	if _, err := NewTokenService("two", time.Hour).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
	if _, err := NewTokenService("two", time.Hour).Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestParseExpired(t *testing.T) {
	s := NewTokenService("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := s.Generate(1, "a", "admin")
	if err != nil {
		t.Fatal(err)
	}
	s.now = time.Now
	if _, err := s.Parse(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}
