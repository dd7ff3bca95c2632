package infrastructure

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"cg-server/internal/config"
	"cg-server/internal/infrastructure/auth"
	"cg-server/internal/infrastructure/crontab"
	"cg-server/internal/infrastructure/database"
	"cg-server/internal/infrastructure/database/repository"
	"cg-server/internal/infrastructure/inference"
	"cg-server/internal/infrastructure/logger"
	"cg-server/internal/infrastructure/stripeclient"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	ProvideConfig,

	// Database
	ProvideDatabase,
	repository.RepositoryProvider,

	// Upstream clients
	inference.NewInferenceProvider,
	stripeclient.NewClient,

	// Session tokens
	auth.NewTokenManager,

	// Logger
	logger.GetLogger,

	// Background jobs
	crontab.NewCrontab,
)
