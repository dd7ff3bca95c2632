package domain

import (
	"github.com/google/wire"

	"cg-server/internal/config"
	"cg-server/internal/domain/apikey"
	"cg-server/internal/domain/billing"
	"cg-server/internal/domain/generation"
	"cg-server/internal/domain/user"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	user.NewService,

	ProvideAPIKeyConfig,
	apikey.NewService,

	billing.NewService,

	ProvideTenantKeys,
	generation.NewService,
)

func ProvideAPIKeyConfig(cfg *config.Config) apikey.Config {
	return apikey.Config{
		HashRounds: cfg.KeyHashRounds,
	}
}

// ProvideTenantKeys seeds the per-site credential store with the process-wide
// fallback keys.
func ProvideTenantKeys(cfg *config.Config) *generation.TenantKeys {
	return generation.NewTenantKeys(generation.ProviderKeys{
		OpenAIKey: cfg.OpenAIAPIKey,
		GeminiKey: cfg.GeminiAPIKey,
	}, cfg.TenantKeyTTL)
}
