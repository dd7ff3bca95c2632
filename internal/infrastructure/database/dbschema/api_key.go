package dbschema

import (
	"time"

	"cg-server/internal/domain/apikey"
	"cg-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(&ApiKey{})
}

// ApiKey represents the persisted credential schema. The raw token is never
// stored, only the display prefix and a bcrypt verifier.
type ApiKey struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	UserID     *uint   `gorm:"index"`
	KeyPrefix  string  `gorm:"type:varchar(32);not null;index"`
	KeyHash    string  `gorm:"type:varchar(128);not null"`
	TenantID   string  `gorm:"type:varchar(128);not null;index"`
	Plan       string  `gorm:"type:varchar(16);not null"`
	Status     string  `gorm:"type:varchar(16);not null;index"`
	CustomerID *string `gorm:"type:varchar(128);index"`
	CreatedAt  time.Time
	RevokedAt  *time.Time
}

// NewSchemaApiKey converts a domain key into a schema instance.
func NewSchemaApiKey(k *apikey.Key) *ApiKey {
	if k == nil {
		return nil
	}
	return &ApiKey{
		ID:         k.ID,
		UserID:     k.UserID,
		KeyPrefix:  k.KeyPrefix,
		KeyHash:    k.KeyHash,
		TenantID:   k.TenantID,
		Plan:       k.Plan,
		Status:     k.Status,
		CustomerID: k.CustomerID,
		CreatedAt:  k.CreatedAt,
		RevokedAt:  k.RevokedAt,
	}
}

// EtoD converts a schema key back to the domain representation.
func (k *ApiKey) EtoD() *apikey.Key {
	if k == nil {
		return nil
	}
	return &apikey.Key{
		ID:         k.ID,
		UserID:     k.UserID,
		KeyPrefix:  k.KeyPrefix,
		KeyHash:    k.KeyHash,
		TenantID:   k.TenantID,
		Plan:       k.Plan,
		Status:     k.Status,
		CustomerID: k.CustomerID,
		CreatedAt:  k.CreatedAt,
		RevokedAt:  k.RevokedAt,
	}
}
