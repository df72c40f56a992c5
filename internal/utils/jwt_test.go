package utils

import (
	"testing"
	"time"
)

func init() {
	SetJWTSecret("unit-test-signing-secret")
}

func TestGenerateBusinessToken_RoundTrip(t *testing.T) {
	token, err := GenerateBusinessToken(42, 9, "owner", "admin", 24)
	if err != nil {
		t.Fatalf("GenerateBusinessToken() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, expected 42", claims.UserID)
	}
	if claims.BusinessID != 9 {
		t.Errorf("BusinessID = %d, expected 9", claims.BusinessID)
	}
	if claims.Username != "owner" || claims.Role != "admin" {
		t.Errorf("unexpected identity claims %+v", claims)
	}
	if claims.Issuer != "repustack" {
		t.Errorf("Issuer = %q", claims.Issuer)
	}
}

func TestGenerateToken_NoBusinessScope(t *testing.T) {
	token, err := GenerateToken(1, "sysadmin", "admin", 24)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.BusinessID != 0 {
		t.Errorf("unscoped token carries business %d", claims.BusinessID)
	}
}

func TestParseToken_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong segment count", "a.b"},
		{"tampered signature", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.e30.bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.token); err == nil {
				t.Error("ParseToken should reject this token")
			}
		})
	}
}

func TestParseToken_SecretRotation(t *testing.T) {
	SetJWTSecret("secret-before-rotation")
	token, err := GenerateBusinessToken(1, 1, "owner", "admin", 24)
	if err != nil {
		t.Fatalf("GenerateBusinessToken() error = %v", err)
	}

	SetJWTSecret("secret-after-rotation")
	defer SetJWTSecret("unit-test-signing-secret")

	if _, err := ParseToken(token); err == nil {
		t.Error("tokens signed with the old secret must not validate")
	}
}

func TestGenerateBusinessToken_Expiry(t *testing.T) {
	token, err := GenerateBusinessToken(1, 1, "owner", "admin", 2)
	if err != nil {
		t.Fatalf("GenerateBusinessToken() error = %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	want := time.Now().Add(2 * time.Hour)
	diff := claims.ExpiresAt.Time.Sub(want)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiry off by %v", diff)
	}
}
