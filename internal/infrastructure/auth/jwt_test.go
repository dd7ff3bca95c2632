package auth

import (
	"context"
	"testing"
	"time"

	"cg-server/internal/config"
)

func testManager(accessTTL, refreshTTL time.Duration) *TokenManager {
	return NewTokenManager(&config.Config{
		JWTSecret:       "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
		ServiceName:     "cg-server",
	})
}

func TestIssueAndVerifyPair(t *testing.T) {
	m := testManager(15*time.Minute, 24*time.Hour)
	ctx := context.Background()

	access, refresh, err := m.IssuePair(42, "a@b.co")
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	claims, err := m.VerifyAccess(ctx, access)
	if err != nil {
		t.Fatalf("VerifyAccess failed: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Errorf("UserID = %d, err = %v", id, err)
	}
	if claims.Email != "a@b.co" {
		t.Errorf("email = %q", claims.Email)
	}

	if _, err := m.VerifyRefresh(ctx, refresh); err != nil {
		t.Errorf("VerifyRefresh failed: %v", err)
	}
}

func TestVerify_RejectsWrongTokenType(t *testing.T) {
	m := testManager(15*time.Minute, 24*time.Hour)
	ctx := context.Background()

	access, refresh, err := m.IssuePair(1, "a@b.co")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.VerifyAccess(ctx, refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := m.VerifyRefresh(ctx, access); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	m := testManager(15*time.Minute, 24*time.Hour)
	other := NewTokenManager(&config.Config{
		JWTSecret:       "ffffffffffffffffffffffffffffffff",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		ServiceName:     "cg-server",
	})

	access, _, err := other.IssuePair(1, "a@b.co")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyAccess(context.Background(), access); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	m := testManager(-time.Minute, 24*time.Hour)

	access, _, err := m.IssuePair(1, "a@b.co")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyAccess(context.Background(), access); err == nil {
		t.Error("expired token accepted")
	}
}

func TestVerify_RejectsGarbage(t *testing.T) {
	m := testManager(15*time.Minute, 24*time.Hour)
	if _, err := m.VerifyAccess(context.Background(), "not.a.jwt"); err == nil {
		t.Error("malformed token accepted")
	}
}
