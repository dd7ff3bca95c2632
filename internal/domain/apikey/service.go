package apikey

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"cg-server/internal/utils/platformerrors"
)

// TokenPrefix is the visible literal every raw token starts with.
const TokenPrefix = "cg_live_"

// PrefixLen is how much of the raw token is stored and displayed.
const PrefixLen = 16

// 36 random bytes gives 288 bits of entropy before encoding.
const secretBytes = 36

// ErrNotFound indicates no active credential matched the presented token.
var ErrNotFound = errors.New("api key not found")

// Service orchestrates credential issuance and verification.
type Service struct {
	repo       Repository
	logger     zerolog.Logger
	hashRounds int
}

// Config configures the Service.
type Config struct {
	HashRounds int
}

// NewService constructs a credential service.
func NewService(repo Repository, cfg Config, logger zerolog.Logger) *Service {
	rounds := cfg.HashRounds
	if rounds < bcrypt.MinCost {
		rounds = 12
	}
	return &Service{
		repo:       repo,
		logger:     logger.With().Str("component", "api-key-service").Logger(),
		hashRounds: rounds,
	}
}

// IssueParams identifies the owner and plan for a new credential. At least one
// of UserID or CustomerID must be set.
type IssueParams struct {
	UserID     *uint
	CustomerID *string
	TenantID   string
	Plan       string
}

// Issue revokes the owner's active credentials and creates a fresh one. The
// returned raw token is shown once and never retrievable again.
func (s *Service) Issue(ctx context.Context, params IssueParams) (string, *Key, error) {
	if params.UserID == nil && params.CustomerID == nil {
		return "", nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "credential owner is required")
	}

	plan := params.Plan
	if plan == "" {
		plan = PlanPro
	}

	raw, err := generateToken()
	if err != nil {
		return "", nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), s.hashRounds)
	if err != nil {
		return "", nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "hash credential")
	}

	tenantID := params.TenantID
	if tenantID == "" {
		switch {
		case params.UserID != nil:
			tenantID = strconv.FormatUint(uint64(*params.UserID), 10)
		case params.CustomerID != nil:
			tenantID = *params.CustomerID
		}
	}

	record := &Key{
		ID:         uuid.NewString(),
		UserID:     params.UserID,
		KeyPrefix:  raw[:PrefixLen],
		KeyHash:    string(hash),
		TenantID:   tenantID,
		Plan:       plan,
		Status:     StatusActive,
		CustomerID: params.CustomerID,
		CreatedAt:  nowFunc(),
	}

	persisted, err := s.repo.CreateRevokingActive(ctx, record)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().
		Str("prefix", persisted.KeyPrefix).
		Str("plan", persisted.Plan).
		Str("tenant", persisted.TenantID).
		Msg("api key issued")
	return raw, persisted, nil
}

// Verify checks a presented raw token against stored active credentials.
// Candidates share a prefix; the bcrypt comparison per candidate is
// constant-time on the secret remainder.
func (s *Service) Verify(ctx context.Context, raw string) (*Key, error) {
	if len(raw) < PrefixLen {
		return nil, ErrNotFound
	}

	candidates, err := s.repo.FindActiveByPrefix(ctx, raw[:PrefixLen])
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].KeyHash), []byte(raw)) == nil {
			return &candidates[i], nil
		}
	}
	return nil, ErrNotFound
}

// ActiveKeyForUser returns the newest active credential for display purposes.
func (s *Service) ActiveKeyForUser(ctx context.Context, userID uint) (*Key, error) {
	return s.repo.FindActiveByUser(ctx, userID)
}

// RevokeAll transitions every active credential for a user to revoked.
// Idempotent.
func (s *Service) RevokeAll(ctx context.Context, userID uint) error {
	return s.repo.RevokeAllForUser(ctx, userID, nowFunc())
}

// RevokeAllForCustomer revokes every active credential tied to a billing
// customer, for keys issued without a local account.
func (s *Service) RevokeAllForCustomer(ctx context.Context, customerID string) error {
	return s.repo.RevokeAllForCustomer(ctx, customerID, nowFunc())
}

// overridable in tests
var nowFunc = time.Now

func generateToken() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
