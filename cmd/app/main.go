package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"tripcraft/cmd/fx/config_fx"
	"tripcraft/cmd/fx/controllers_fx"
	"tripcraft/cmd/fx/db_fx"
	"tripcraft/cmd/fx/itinerary_fx"
	"tripcraft/cmd/fx/llm_fx"
	"tripcraft/cmd/fx/media_fx"
	"tripcraft/cmd/fx/memcache_fx"
	"tripcraft/cmd/fx/memory_fx"
	"tripcraft/internal/api/controllers"
	"tripcraft/internal/config"
	"tripcraft/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		db_fx.Module,
		llm_fx.Module,
		memcache_fx.Module,
		memory_fx.Module,
		itinerary_fx.Module,
		media_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	itineraryController *controllers.ItineraryController,
	mediaController *controllers.MediaController,
	memoryController *controllers.MemoryController,
	healthController *controllers.HealthController) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	RegisterRoutes(r, itineraryController, mediaController, memoryController, healthController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	itineraryController *controllers.ItineraryController,
	mediaController *controllers.MediaController,
	memoryController *controllers.MemoryController,
	healthController *controllers.HealthController) {

	r.GET("/health", healthController.Health)

	itineraryGroup := r.Group("/itineraries")
	itineraryGroup.POST("/generate", itineraryController.Generate)
	itineraryGroup.POST("/regenerate-day", itineraryController.RegenerateDay)
	itineraryGroup.POST("/update", itineraryController.Update)

	activityGroup := itineraryGroup.Group("/activities")
	activityGroup.POST("/add", itineraryController.AddActivity)
	activityGroup.POST("/delete", itineraryController.DeleteActivity)
	activityGroup.POST("/update", itineraryController.UpdateActivity)
	activityGroup.POST("/soft-delete", itineraryController.SoftDeleteActivity)

	mediaGroup := r.Group("/media")
	mediaGroup.GET("/photo", mediaController.GetPhoto)
	mediaGroup.GET("/map", mediaController.GetMap)

	memoryGroup := r.Group("/memory")
	memoryGroup.GET("/profile", memoryController.GetProfile)
	memoryGroup.DELETE("/profile", memoryController.ResetProfile)
	memoryGroup.POST("/trips", memoryController.SaveTrip)
	memoryGroup.PUT("/trips/:id/feedback", memoryController.UpdateFeedback)
	memoryGroup.PUT("/preferences", memoryController.UpdatePreferences)
	memoryGroup.DELETE("/history", memoryController.ClearHistory)
	memoryGroup.GET("/export", memoryController.Export)
	memoryGroup.POST("/import", memoryController.Import)
}
