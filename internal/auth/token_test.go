package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret-at-least-32-bytes-long!!", 15*time.Minute, 7*24*time.Hour)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()

	access, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	userID, err := svc.Verify(access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}

	refresh, err := svc.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	userID, err = svc.Verify(refresh, TokenTypeRefresh)
	if err != nil {
		t.Fatalf("Verify refresh: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}
}

func TestTokenTypeConfusion(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()

	access, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	refresh, err := svc.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	// An access token must not pass where a refresh token is required
	if _, err := svc.Verify(access, TokenTypeRefresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access-as-refresh: err = %v, want ErrInvalidToken", err)
	}

	// And the other way around
	if _, err := svc.Verify(refresh, TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh-as-access: err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("test-secret-at-least-32-bytes-long!!", -1*time.Minute, -1*time.Minute)

	token, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := svc.Verify(token, TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()
	other := NewTokenService("another-secret-also-32-bytes-long!!!", 15*time.Minute, 7*24*time.Hour)

	token, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := other.Verify(token, TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()

	for _, tokenStr := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(tokenStr, TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): err = %v, want ErrInvalidToken", tokenStr, err)
		}
	}
}
