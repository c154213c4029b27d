package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewStaffTokenClaims(t *testing.T) {
	t.Parallel()
	const secret = "test-secret"
	tok, err := NewStaffToken(secret, 7, 42, "MANAGER", 15)
	if err != nil {
		t.Fatalf("new staff token: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token string")
	}
	if remaining := time.Until(tok.Exp); remaining < 14*time.Minute || remaining > 15*time.Minute {
		t.Fatalf("expiry out of range: %s remaining", remaining)
	}

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		t.Fatal("token did not validate")
	}
	if got := claims["sub"].(float64); got != 7 {
		t.Fatalf("sub claim: want 7, got %v", got)
	}
	if got := claims["venue_id"].(float64); got != 42 {
		t.Fatalf("venue_id claim: want 42, got %v", got)
	}
	if got := claims["role"].(string); got != "MANAGER" {
		t.Fatalf("role claim: want MANAGER, got %v", got)
	}
}

func TestStaffTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	tok, err := NewStaffToken("right-secret", 1, 1, "SERVER", 5)
	if err != nil {
		t.Fatalf("new staff token: %v", err)
	}
	_, err = jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Fatal("token signed with another secret should not validate")
	}
}

func TestServiceKeyHashRoundTrip(t *testing.T) {
	t.Parallel()
	hash, err := HashServiceKey("callback-key", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyServiceKey(hash, "callback-key") {
		t.Fatal("correct key should verify")
	}
	if VerifyServiceKey(hash, "other-key") {
		t.Fatal("wrong key should not verify")
	}
}
