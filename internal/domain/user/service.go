package user

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"cg-server/internal/utils/platformerrors"
)

// ErrEmailTaken indicates the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials indicates email/password did not match an account.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service orchestrates account registration and password authentication.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService constructs a user service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "user-service").Logger(),
	}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "email is required")
	}
	if len(password) < 8 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "password must be at least 8 characters")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "hash password")
	}

	created, err := s.repo.Create(ctx, &User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Uint("user_id", created.ID).Msg("account registered")
	return created, nil
}

// Authenticate verifies an email/password pair and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// AttachStripeCustomer persists the billing customer id for an account.
func (s *Service) AttachStripeCustomer(ctx context.Context, u *User, customerID string) error {
	u.StripeCustomerID = &customerID
	return s.repo.Update(ctx, u)
}
