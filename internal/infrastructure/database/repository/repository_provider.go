package repository

import (
	"cg-server/internal/infrastructure/database/repository/apikeyrepo"
	"cg-server/internal/infrastructure/database/repository/userrepo"
	"cg-server/internal/infrastructure/database/repository/webhookrepo"

	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	userrepo.NewUserRepository,
	apikeyrepo.NewAPIKeyRepository,
	webhookrepo.NewWebhookRepository,
)
