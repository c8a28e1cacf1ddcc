package media_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcraft/internal/api/controllers"
	"tripcraft/internal/config"
	"tripcraft/internal/services"
	mem "tripcraft/pkg/memcache"
)

var Module = fx.Provide(provideMediaBackend, provideMediaService, provideMediaController)

func provideMediaBackend(cfg *config.Config, logger *zap.Logger) services.MediaBackendInterface {
	if cfg.Media.BackendURL == "" || cfg.Media.APIKey == "" {
		logger.Warn("no media backend configured, serving curated images")
		return nil
	}
	return services.NewHTTPMediaBackend(
		cfg.Media.BackendURL,
		cfg.Media.APIKey,
		cfg.Media.Timeout,
		cfg.Media.RatePerSecond,
		cfg.Media.Burst,
	)
}

func provideMediaService(
	backend services.MediaBackendInterface,
	cache mem.URLCache,
	library *services.FallbackContentLibrary,
	logger *zap.Logger,
	cfg *config.Config,
) services.MediaServiceInterface {
	ttl := cfg.Media.CacheTTL
	if mem.IsShared(cache) {
		ttl = cfg.Redis.TTL
	}
	return services.NewMediaService(backend, cache, library, logger.Named("media"), services.MediaServiceOptions{
		CacheTTL:      ttl,
		LookupTimeout: cfg.Media.Timeout,
		MaxWidth:      cfg.Media.MaxWidth,
		MaxHeight:     cfg.Media.MaxHeight,
	})
}

func provideMediaController(media services.MediaServiceInterface) *controllers.MediaController {
	return controllers.NewMediaController(media)
}
