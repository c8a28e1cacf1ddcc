package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcraft/internal/config"
	mem "tripcraft/pkg/memcache"
)

var Module = fx.Provide(providePhotoCache)

const sweepEvery = 10 * time.Minute

// providePhotoCache always has a process-local tier. Redis is added as a shared tier when
// REDIS_ADDR is set and reachable at startup.
func providePhotoCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) mem.URLCache {
	local := mem.NewLocalURLCache(sweepEvery)
	lc.Append(fx.StopHook(local.Stop))

	if cfg.Redis.Addr == "" {
		return local
	}

	shared := mem.NewRedisURLCache(mem.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := shared.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, photo cache stays local", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = shared.Close()
		return local
	}
	lc.Append(fx.StopHook(shared.Close))

	logger.Info("photo cache backed by redis", zap.String("addr", cfg.Redis.Addr))
	return mem.NewTieredURLCache(local, shared, cfg.Media.CacheTTL)
}
