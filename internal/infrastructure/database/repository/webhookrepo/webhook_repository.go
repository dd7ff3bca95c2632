package webhookrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"cg-server/internal/domain/billing"
	"cg-server/internal/infrastructure/database/dbschema"
	"cg-server/internal/utils/platformerrors"
)

type Repository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) billing.WebhookRepository {
	return &Repository{db: db}
}

// Record inserts the dedup marker. A unique violation on the event id means
// the event was already processed and reports firstSeen=false without error.
func (r *Repository) Record(ctx context.Context, event *billing.WebhookEvent) (bool, error) {
	model := dbschema.NewSchemaWebhookEvent(event)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to record webhook event")
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
