package security

import (
	"testing"
	"time"
)

const testSecret = "test-secret-used-only-in-tests"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, tokenID, err := IssueAccessToken(testSecret, "user-1", "session-1", "MEMBER", time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if tokenID == "" {
		t.Fatal("expected a token id")
	}

	claims, err := ParseAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("user id = %q", claims.UserID)
	}
	if claims.SessionID != "session-1" {
		t.Fatalf("session id = %q", claims.SessionID)
	}
	if claims.Role != "MEMBER" {
		t.Fatalf("role = %q", claims.Role)
	}
	if claims.ID != tokenID {
		t.Fatalf("jti = %q, want %q", claims.ID, tokenID)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, _, err := IssueAccessToken(testSecret, "user-1", "session-1", "MEMBER", time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(token, "another-secret"); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, _, err := IssueAccessToken(testSecret, "user-1", "session-1", "MEMBER", -time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(token, testSecret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, tokenID, err := IssueRefreshToken(testSecret, "user-2", time.Hour)
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	claims, err := ParseRefreshToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
	if claims.UserID != "user-2" {
		t.Fatalf("user id = %q", claims.UserID)
	}
	if claims.ID != tokenID {
		t.Fatalf("jti = %q, want %q", claims.ID, tokenID)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	// Separate secrets keep the two token kinds from being swapped.
	refresh, _, err := IssueRefreshToken("refresh-secret", "user-3", time.Hour)
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	if _, err := ParseAccessToken(refresh, "access-secret"); err == nil {
		t.Fatal("expected refresh token to fail access parsing")
	}
}

func TestHashTokenIDStable(t *testing.T) {
	if HashTokenID("abc") != HashTokenID("abc") {
		t.Fatal("expected stable hash")
	}
	if HashTokenID("abc") == HashTokenID("abd") {
		t.Fatal("expected distinct hashes")
	}
}
