package memory_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcraft/internal/api/controllers"
	"tripcraft/internal/repositories"
	"tripcraft/internal/services"
)

var Module = fx.Provide(
	provideMemoryService, provideMemoryController,
)

func provideMemoryService(repo repositories.ProfileRepository, logger *zap.Logger) services.MemoryServiceInterface {
	return services.NewMemoryService(repo, logger.Named("memory"))
}

func provideMemoryController(memory services.MemoryServiceInterface, logger *zap.Logger) *controllers.MemoryController {
	return controllers.NewMemoryController(memory, logger)
}
