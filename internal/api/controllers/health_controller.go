package controllers

import (
	"github.com/gin-gonic/gin"

	"tripcraft/internal/config"
	mem "tripcraft/pkg/memcache"
	"tripcraft/pkg/utils"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Model     string `json:"model"`
	Media     bool   `json:"media"`
	Shared    bool   `json:"sharedCache"`
	Persisted bool   `json:"persisted"`
}

type HealthController struct {
	llm   utils.LLMClientInterface
	cache mem.URLCache
	cfg   *config.Config
}

func NewHealthController(llm utils.LLMClientInterface, cache mem.URLCache, cfg *config.Config) *HealthController {
	return &HealthController{llm: llm, cache: cache, cfg: cfg}
}

// Health reports which backends are live. "fallback" means itineraries come from curated content.
func (hc *HealthController) Health(c *gin.Context) {
	model := "fallback"
	if hc.llm != nil {
		model = hc.llm.Provider()
	}
	utils.RespondSuccess(c, HealthResponse{
		Status:    "ok",
		Model:     model,
		Media:     hc.cfg.Media.BackendURL != "" && hc.cfg.Media.APIKey != "",
		Shared:    mem.IsShared(hc.cache),
		Persisted: hc.cfg.PostgresURL != "",
	}, "")
}
