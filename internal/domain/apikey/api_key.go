package apikey

import (
	"context"
	"time"
)

// Plan tiers a credential can carry.
const (
	PlanDemo = "demo"
	PlanPro  = "pro"
	PlanTeam = "team"
)

// Lifecycle statuses.
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

// Key represents one issued bearer credential. Only the display prefix and a
// bcrypt verifier are stored; the raw token is returned exactly once at issue
// time. Revoked rows are kept for rotation history.
type Key struct {
	ID         string
	UserID     *uint
	KeyPrefix  string
	KeyHash    string
	TenantID   string
	Plan       string
	Status     string
	CustomerID *string
	CreatedAt  time.Time
	RevokedAt  *time.Time
}

// IsActive reports whether the credential is usable.
func (k *Key) IsActive() bool {
	return k.Status == StatusActive && k.RevokedAt == nil
}

// IsSubscriber reports whether the plan grants access to the generation API.
func (k *Key) IsSubscriber() bool {
	return k.Plan == PlanPro || k.Plan == PlanTeam
}

// Repository defines storage operations for credentials.
type Repository interface {
	// CreateRevokingActive revokes every active row for the key's owner (user
	// if set, otherwise customer id) and inserts the new row, all inside one
	// transaction so a failed insert never leaves the owner without a key.
	CreateRevokingActive(ctx context.Context, key *Key) (*Key, error)
	FindActiveByPrefix(ctx context.Context, prefix string) ([]Key, error)
	FindActiveByUser(ctx context.Context, userID uint) (*Key, error)
	RevokeAllForUser(ctx context.Context, userID uint, revokedAt time.Time) error
	RevokeAllForCustomer(ctx context.Context, customerID string, revokedAt time.Time) error
}
