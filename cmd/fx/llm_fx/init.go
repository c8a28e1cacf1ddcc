package llm_fx

import (
	"context"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcraft/internal/config"
	"tripcraft/pkg/utils"
)

var Module = fx.Provide(ProvideLLMClient)

// ProvideLLMClient returns nil when no api key is configured; the generator then serves
// curated fallback itineraries.
func ProvideLLMClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (utils.LLMClientInterface, error) {
	if cfg.LLM.APIKey == "" {
		logger.Warn("no language model key configured, serving fallback itineraries",
			zap.String("provider", cfg.LLM.Provider))
		return nil, nil
	}

	client, err := utils.NewLLMClient(cfg.LLM.Provider, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return nil, err
	}
	logger.Info("language model client ready",
		zap.String("provider", client.Provider()),
		zap.String("model", cfg.LLM.Model))

	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return closer.Close()
			},
		})
	}
	return client, nil
}
