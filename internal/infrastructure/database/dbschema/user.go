package dbschema

import (
	"time"

	"cg-server/internal/domain/user"
	"cg-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(&User{})
}

// User represents the persisted account schema.
type User struct {
	ID               uint    `gorm:"primaryKey"`
	Email            string  `gorm:"type:varchar(320);not null;uniqueIndex"`
	PasswordHash     string  `gorm:"type:varchar(128);not null"`
	StripeCustomerID *string `gorm:"type:varchar(128);index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewSchemaUser converts a domain user into a schema instance.
func NewSchemaUser(u *user.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:               u.ID,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		StripeCustomerID: u.StripeCustomerID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// EtoD converts a schema user back to the domain representation.
func (u *User) EtoD() *user.User {
	if u == nil {
		return nil
	}
	return &user.User{
		ID:               u.ID,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		StripeCustomerID: u.StripeCustomerID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
