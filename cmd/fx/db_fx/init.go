package db_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripcraft/internal/config"
	"tripcraft/internal/infra"
	"tripcraft/internal/repositories"
)

var Module = fx.Provide(
	provideDB,
	provideProfileRepo)

func provideDB(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg.PostgresURL, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		infra.ClosePostgresql(db, logger)
	}))
	return db, nil
}

// provideProfileRepo keeps profiles in process memory when no database is configured.
func provideProfileRepo(db *gorm.DB) repositories.ProfileRepository {
	if db == nil {
		return repositories.NewInMemoryProfileRepository()
	}
	return repositories.NewProfileRepository(db)
}
