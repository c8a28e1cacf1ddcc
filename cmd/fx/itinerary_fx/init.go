package itinerary_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcraft/internal/api/controllers"
	"tripcraft/internal/config"
	"tripcraft/internal/services"
	"tripcraft/pkg/utils"
)

var Module = fx.Provide(
	provideFallbackLibrary,
	provideItineraryService,
	provideItineraryMutator,
	provideItineraryController,
)

func provideFallbackLibrary() *services.FallbackContentLibrary {
	return services.NewFallbackContentLibrary(nil)
}

func provideItineraryService(llm utils.LLMClientInterface, library *services.FallbackContentLibrary, logger *zap.Logger, cfg *config.Config) services.ItineraryServiceInterface {
	return services.NewItineraryService(llm, library, logger.Named("itinerary"), cfg.LLM.Timeout)
}

func provideItineraryMutator(llm utils.LLMClientInterface, library *services.FallbackContentLibrary, logger *zap.Logger, cfg *config.Config) services.ItineraryMutatorInterface {
	return services.NewItineraryMutator(llm, library, logger.Named("mutator"), cfg.LLM.Timeout)
}

func provideItineraryController(
	generator services.ItineraryServiceInterface,
	mutator services.ItineraryMutatorInterface,
	memory services.MemoryServiceInterface,
	logger *zap.Logger,
) *controllers.ItineraryController {
	return controllers.NewItineraryController(generator, mutator, memory, logger)
}
