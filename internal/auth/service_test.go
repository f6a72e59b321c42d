package auth

import (
	"strings"
	"testing"

	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

func testService(secret string) *Service {
	return &Service{
		cfg: &shared.Config{
			Security: shared.SecurityConfig{
				JWTSecret:          secret,
				JWTExpirationHours: 168,
			},
		},
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	svc := testService("test-secret-key")

	token, expiresAt, err := svc.GenerateToken("STU-123", shared.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.IsZero() {
		t.Fatal("expected non-zero expiry")
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "STU-123" {
		t.Errorf("expected user id STU-123, got %s", claims.UserID)
	}
	if claims.Role != shared.RoleStudent {
		t.Errorf("expected role %s, got %s", shared.RoleStudent, claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := testService("secret-a").GenerateToken("ADM-1", shared.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := testService("secret-b").ParseToken(token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := testService("test-secret-key")
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ParseToken(bad); err == nil {
			t.Errorf("expected parse failure for %q", bad)
		}
	}
}

func TestTokensAreUnique(t *testing.T) {
	svc := testService("test-secret-key")
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		token, _, err := svc.GenerateToken("TCH-1", shared.RoleTeacher)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		if seen[token] {
			t.Fatal("expected distinct tokens per issue")
		}
		seen[token] = true
	}
}

func TestGenerateOTPCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateOTPCode()
		if err != nil {
			t.Fatalf("generateOTPCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digit code, got %q", code)
		}
		if strings.Trim(code, "0123456789") != "" {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}
}
