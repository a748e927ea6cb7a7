package utils

import (
	"testing"
	"time"
)

func init() {
	SetJWTSecret("test-secret-key-for-testing")
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(1, "alice@example.com", "seeker", 24)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateToken() returned empty token")
	}

	if len(token) < 50 {
		t.Errorf("token seems too short: %d chars", len(token))
	}
}

func TestGenerateToken_DifferentTokens(t *testing.T) {
	token1, _ := GenerateToken(1, "alice@example.com", "seeker", 24)
	token2, _ := GenerateToken(2, "bob@example.com", "company", 24)

	if token1 == token2 {
		t.Error("different users should produce different tokens")
	}
}

func TestParseToken(t *testing.T) {
	userID := uint(42)
	username := "carol@example.com"
	role := "company"

	token, _ := GenerateToken(userID, username, role, 24)

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("UserID = %d, expected %d", claims.UserID, userID)
	}
	if claims.Username != username {
		t.Errorf("Username = %q, expected %q", claims.Username, username)
	}
	if claims.Role != role {
		t.Errorf("Role = %q, expected %q", claims.Role, role)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	invalidTokens := []string{
		"",
		"notatoken",
		"invalid.jwt.token",
		"eyJhbGciOiJIUzI1NiJ9.eyJmb28iOiJiYXIifQ.invalid",
	}

	for _, token := range invalidTokens {
		if _, err := ParseToken(token); err == nil {
			t.Errorf("ParseToken(%q) should have failed", token)
		}
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken(1, "alice@example.com", "seeker", 24)

	SetJWTSecret("a-different-secret")
	defer SetJWTSecret("test-secret-key-for-testing")

	if _, err := ParseToken(token); err == nil {
		t.Error("token signed with the old secret should not parse")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, _ := GenerateToken(1, "alice@example.com", "seeker", -1)

	time.Sleep(10 * time.Millisecond)
	if _, err := ParseToken(token); err == nil {
		t.Error("expired token should not parse")
	}
}

func TestResetToken_RoundTrip(t *testing.T) {
	token, err := GenerateResetToken(7, 1)
	if err != nil {
		t.Fatalf("GenerateResetToken() error = %v", err)
	}

	userID, err := ParseResetToken(token)
	if err != nil {
		t.Fatalf("ParseResetToken() error = %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d, expected 7", userID)
	}
}

func TestParseResetToken_RejectsAccessToken(t *testing.T) {
	// An ordinary access token must not double as a reset token
	token, _ := GenerateToken(7, "alice@example.com", "seeker", 1)

	if _, err := ParseResetToken(token); err == nil {
		t.Error("access token should not parse as reset token")
	}
}

func TestParseToken_RejectsResetToken(t *testing.T) {
	token, _ := GenerateResetToken(7, 1)

	if _, err := ParseToken(token); err == nil {
		t.Error("reset token should not act as an access token")
	}
}
