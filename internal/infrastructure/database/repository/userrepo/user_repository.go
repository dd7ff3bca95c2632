package userrepo

import (
	"context"

	"gorm.io/gorm"

	"cg-server/internal/domain/user"
	"cg-server/internal/infrastructure/database/dbschema"
	"cg-server/internal/utils/platformerrors"
)

type Repository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	model := dbschema.NewSchemaUser(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create user")
	}
	return model.EtoD(), nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model dbschema.User
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to fetch user")
	}
	return model.EtoD(), nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model dbschema.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to fetch user by email")
	}
	return model.EtoD(), nil
}

func (r *Repository) FindByStripeCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	var model dbschema.User
	if err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to fetch user by customer id")
	}
	return model.EtoD(), nil
}

func (r *Repository) Update(ctx context.Context, u *user.User) error {
	model := dbschema.NewSchemaUser(u)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to update user")
	}
	return nil
}
