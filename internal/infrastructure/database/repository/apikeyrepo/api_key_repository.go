package apikeyrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cg-server/internal/domain/apikey"
	"cg-server/internal/infrastructure/database/dbschema"
	"cg-server/internal/utils/platformerrors"
)

type Repository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) apikey.Repository {
	return &Repository{db: db}
}

// CreateRevokingActive revokes every active credential owned by the new key's
// user (or customer when no user is attached) and inserts the replacement in
// the same transaction, so rotation never leaves the owner keyless.
func (r *Repository) CreateRevokingActive(ctx context.Context, key *apikey.Key) (*apikey.Key, error) {
	model := dbschema.NewSchemaApiKey(key)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		revoke := tx.Model(&dbschema.ApiKey{}).
			Where("status = ? AND revoked_at IS NULL", apikey.StatusActive)
		switch {
		case key.UserID != nil:
			revoke = revoke.Where("user_id = ?", *key.UserID)
		case key.CustomerID != nil:
			revoke = revoke.Where("customer_id = ?", *key.CustomerID)
		default:
			revoke = revoke.Where("tenant_id = ?", key.TenantID)
		}
		if err := revoke.Updates(map[string]any{
			"status":     apikey.StatusRevoked,
			"revoked_at": key.CreatedAt,
		}).Error; err != nil {
			return err
		}
		return tx.Create(model).Error
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to rotate api key")
	}
	return model.EtoD(), nil
}

func (r *Repository) FindActiveByPrefix(ctx context.Context, prefix string) ([]apikey.Key, error) {
	var models []dbschema.ApiKey
	if err := r.db.WithContext(ctx).
		Where("key_prefix = ? AND status = ? AND revoked_at IS NULL", prefix, apikey.StatusActive).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list api keys by prefix")
	}
	result := make([]apikey.Key, 0, len(models))
	for _, m := range models {
		if domain := m.EtoD(); domain != nil {
			result = append(result, *domain)
		}
	}
	return result, nil
}

func (r *Repository) FindActiveByUser(ctx context.Context, userID uint) (*apikey.Key, error) {
	var model dbschema.ApiKey
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND revoked_at IS NULL", userID, apikey.StatusActive).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to fetch api key")
	}
	return model.EtoD(), nil
}

func (r *Repository) RevokeAllForUser(ctx context.Context, userID uint, revokedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&dbschema.ApiKey{}).
		Where("user_id = ? AND status = ? AND revoked_at IS NULL", userID, apikey.StatusActive).
		Updates(map[string]any{
			"status":     apikey.StatusRevoked,
			"revoked_at": revokedAt,
		}).Error
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to revoke api keys")
	}
	return nil
}

func (r *Repository) RevokeAllForCustomer(ctx context.Context, customerID string, revokedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&dbschema.ApiKey{}).
		Where("customer_id = ? AND status = ? AND revoked_at IS NULL", customerID, apikey.StatusActive).
		Updates(map[string]any{
			"status":     apikey.StatusRevoked,
			"revoked_at": revokedAt,
		}).Error
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to revoke api keys")
	}
	return nil
}
