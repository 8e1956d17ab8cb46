package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr, err := NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := mgr.Generate("user-1", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("UserID = %q, want user-1", claims.UserID)
	}
	if !claims.IsAdmin {
		t.Fatalf("IsAdmin = false, want true")
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	issuer, _ := NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	verifier, _ := NewTokenManager("fedcba9876543210fedcba9876543210", time.Hour)

	token, err := issuer.Generate("user-1", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := verifier.Validate(token); err == nil {
		t.Fatalf("expected validation error for token signed with a different secret")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	mgr, _ := NewTokenManager("0123456789abcdef0123456789abcdef", time.Nanosecond)
	token, err := mgr.Generate("user-1", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := mgr.Validate(token); err == nil {
		t.Fatalf("expected validation error for expired token")
	}
}

func TestNewTokenManagerRejectsEmptySecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter2secret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2secret" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPassword("hunter2secret", hash) {
		t.Fatalf("CheckPassword should accept the original password")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("CheckPassword should reject a wrong password")
	}
}
