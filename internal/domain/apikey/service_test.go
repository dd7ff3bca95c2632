package apikey_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"cg-server/internal/domain/apikey"
)

// mockKeyRepository keeps keys in memory and mirrors the rotation semantics of
// the real store: inserting a key first revokes the owner's active rows.
type mockKeyRepository struct {
	keys      []apikey.Key
	createErr error
}

func (m *mockKeyRepository) CreateRevokingActive(ctx context.Context, key *apikey.Key) (*apikey.Key, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	for i := range m.keys {
		if !m.keys[i].IsActive() {
			continue
		}
		sameUser := key.UserID != nil && m.keys[i].UserID != nil && *key.UserID == *m.keys[i].UserID
		sameCustomer := key.UserID == nil && key.CustomerID != nil &&
			m.keys[i].CustomerID != nil && *key.CustomerID == *m.keys[i].CustomerID
		if sameUser || sameCustomer {
			revokedAt := key.CreatedAt
			m.keys[i].Status = apikey.StatusRevoked
			m.keys[i].RevokedAt = &revokedAt
		}
	}
	m.keys = append(m.keys, *key)
	return key, nil
}

func (m *mockKeyRepository) FindActiveByPrefix(ctx context.Context, prefix string) ([]apikey.Key, error) {
	var out []apikey.Key
	for _, k := range m.keys {
		if k.IsActive() && k.KeyPrefix == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *mockKeyRepository) FindActiveByUser(ctx context.Context, userID uint) (*apikey.Key, error) {
	for i := len(m.keys) - 1; i >= 0; i-- {
		if m.keys[i].IsActive() && m.keys[i].UserID != nil && *m.keys[i].UserID == userID {
			k := m.keys[i]
			return &k, nil
		}
	}
	return nil, nil
}

func (m *mockKeyRepository) RevokeAllForUser(ctx context.Context, userID uint, revokedAt time.Time) error {
	for i := range m.keys {
		if m.keys[i].IsActive() && m.keys[i].UserID != nil && *m.keys[i].UserID == userID {
			m.keys[i].Status = apikey.StatusRevoked
			t := revokedAt
			m.keys[i].RevokedAt = &t
		}
	}
	return nil
}

func (m *mockKeyRepository) RevokeAllForCustomer(ctx context.Context, customerID string, revokedAt time.Time) error {
	for i := range m.keys {
		if m.keys[i].IsActive() && m.keys[i].CustomerID != nil && *m.keys[i].CustomerID == customerID {
			m.keys[i].Status = apikey.StatusRevoked
			t := revokedAt
			m.keys[i].RevokedAt = &t
		}
	}
	return nil
}

func newTestService(repo apikey.Repository) *apikey.Service {
	return apikey.NewService(repo, apikey.Config{HashRounds: bcrypt.MinCost}, zerolog.Nop())
}

func TestIssue_TokenShape(t *testing.T) {
	repo := &mockKeyRepository{}
	svc := newTestService(repo)

	userID := uint(42)
	raw, key, err := svc.Issue(context.Background(), apikey.IssueParams{UserID: &userID})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if !strings.HasPrefix(raw, apikey.TokenPrefix) {
		t.Errorf("raw token %q missing prefix %q", raw, apikey.TokenPrefix)
	}
	if key.KeyPrefix != raw[:apikey.PrefixLen] {
		t.Errorf("stored prefix %q != first %d chars of token", key.KeyPrefix, apikey.PrefixLen)
	}
	if strings.Contains(key.KeyHash, raw) {
		t.Error("raw token must not appear in the stored hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(raw)); err != nil {
		t.Errorf("stored hash does not verify the raw token: %v", err)
	}
	if key.Plan != apikey.PlanPro {
		t.Errorf("expected default plan pro, got %q", key.Plan)
	}
	if key.TenantID != "42" {
		t.Errorf("expected tenant derived from user id, got %q", key.TenantID)
	}
	if key.CreatedAt.IsZero() {
		t.Error("issued key should carry a creation timestamp")
	}
}

func TestIssue_RequiresOwner(t *testing.T) {
	svc := newTestService(&mockKeyRepository{})

	if _, _, err := svc.Issue(context.Background(), apikey.IssueParams{}); err == nil {
		t.Fatal("expected error for ownerless issue")
	}
}

func TestIssue_RotationLeavesSingleActive(t *testing.T) {
	repo := &mockKeyRepository{}
	svc := newTestService(repo)
	userID := uint(7)

	firstRaw, _, err := svc.Issue(context.Background(), apikey.IssueParams{UserID: &userID})
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	secondRaw, _, err := svc.Issue(context.Background(), apikey.IssueParams{UserID: &userID})
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}

	active := 0
	for _, k := range repo.keys {
		if k.IsActive() {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly 1 active key after rotation, got %d", active)
	}

	if _, err := svc.Verify(context.Background(), firstRaw); err != apikey.ErrNotFound {
		t.Errorf("rotated-out token should not verify, got %v", err)
	}
	if _, err := svc.Verify(context.Background(), secondRaw); err != nil {
		t.Errorf("newest token should verify, got %v", err)
	}
}

func TestVerify_RejectsMutations(t *testing.T) {
	repo := &mockKeyRepository{}
	svc := newTestService(repo)
	userID := uint(9)

	raw, _, err := svc.Issue(context.Background(), apikey.IssueParams{UserID: &userID})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"short token", "cg_live_"},
		{"empty token", ""},
		{"flipped tail", raw[:len(raw)-1] + flip(raw[len(raw)-1])},
		{"truncated", raw[:len(raw)-4]},
		{"same prefix different secret", raw[:apikey.PrefixLen] + strings.Repeat("A", len(raw)-apikey.PrefixLen)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(context.Background(), tt.token); err != apikey.ErrNotFound {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func flip(b byte) string {
	if b == 'A' {
		return "B"
	}
	return "A"
}

func TestRevokeAll(t *testing.T) {
	repo := &mockKeyRepository{}
	svc := newTestService(repo)
	userID := uint(3)

	raw, _, err := svc.Issue(context.Background(), apikey.IssueParams{UserID: &userID})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if err := svc.RevokeAll(context.Background(), userID); err != nil {
		t.Fatalf("RevokeAll failed: %v", err)
	}
	if _, err := svc.Verify(context.Background(), raw); err != apikey.ErrNotFound {
		t.Errorf("revoked token should not verify, got %v", err)
	}

	// revoking again is a no-op
	if err := svc.RevokeAll(context.Background(), userID); err != nil {
		t.Fatalf("second RevokeAll failed: %v", err)
	}
}

func TestRevokeAllForCustomer(t *testing.T) {
	repo := &mockKeyRepository{}
	svc := newTestService(repo)
	customerID := "cus_1"

	raw, _, err := svc.Issue(context.Background(), apikey.IssueParams{CustomerID: &customerID})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if err := svc.RevokeAllForCustomer(context.Background(), customerID); err != nil {
		t.Fatalf("RevokeAllForCustomer failed: %v", err)
	}
	if _, err := svc.Verify(context.Background(), raw); err != apikey.ErrNotFound {
		t.Errorf("revoked token should not verify, got %v", err)
	}
}

func TestIsSubscriber(t *testing.T) {
	tests := []struct {
		plan string
		want bool
	}{
		{apikey.PlanPro, true},
		{apikey.PlanTeam, true},
		{apikey.PlanDemo, false},
		{"", false},
	}
	for _, tt := range tests {
		k := apikey.Key{Plan: tt.plan}
		if got := k.IsSubscriber(); got != tt.want {
			t.Errorf("IsSubscriber(%q) = %v, want %v", tt.plan, got, tt.want)
		}
	}
}
