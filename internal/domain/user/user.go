package user

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID               uint
	Email            string
	PasswordHash     string
	StripeCustomerID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Repository defines storage operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*User, error)
	Update(ctx context.Context, u *User) error
}
