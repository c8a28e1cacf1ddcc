package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string      `yaml:"port"`
	AppEnv      string      `yaml:"app_env"`
	PostgresURL string      `yaml:"postgres_url"`
	CORSOrigins []string    `yaml:"cors_origins"`
	LLM         LLMConfig   `yaml:"llm"`
	Media       MediaConfig `yaml:"media"`
	Redis       RedisConfig `yaml:"redis"`
}

// LLMConfig with an empty APIKey runs the generator in fallback-only mode.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MediaConfig struct {
	BackendURL    string        `yaml:"backend_url"`
	APIKey        string        `yaml:"api_key"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	MaxWidth      int           `yaml:"max_width"`
	MaxHeight     int           `yaml:"max_height"`
}

// RedisConfig is optional; an empty Addr disables the shared cache tier.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:        "8080",
		AppEnv:      "production",
		CORSOrigins: []string{"*"},
		LLM: LLMConfig{
			Provider: "gemini",
			Timeout:  60 * time.Second,
		},
		Media: MediaConfig{
			Timeout:       15 * time.Second,
			RatePerSecond: 5,
			Burst:         10,
			CacheTTL:      6 * time.Hour,
			MaxWidth:      800,
			MaxHeight:     600,
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// Load reads .env (when present), then the YAML file named by CONFIG_FILE, then
// environment overrides. Environment always wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

func (c *Config) applyEnvOverrides() error {
	c.Port = getEnvWithDefault("PORT", c.Port)
	c.AppEnv = getEnvWithDefault("APP_ENV", c.AppEnv)
	c.PostgresURL = getEnvWithDefault("POSTGRES_URL", c.PostgresURL)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = splitList(origins)
	}

	c.LLM.Provider = strings.ToLower(getEnvWithDefault("LLM_PROVIDER", c.LLM.Provider))
	switch c.LLM.Provider {
	case "openai":
		c.LLM.APIKey = getEnvWithDefault("OPENAI_API_KEY", c.LLM.APIKey)
		c.LLM.Model = getEnvWithDefault("OPENAI_MODEL", c.LLM.Model)
	default:
		c.LLM.APIKey = getEnvWithDefault("GEMINI_API_KEY", c.LLM.APIKey)
		c.LLM.Model = getEnvWithDefault("GEMINI_MODEL", c.LLM.Model)
	}

	c.Media.BackendURL = strings.TrimRight(getEnvWithDefault("MEDIA_BACKEND_URL", c.Media.BackendURL), "/")
	c.Media.APIKey = getEnvWithDefault("MEDIA_API_KEY", c.Media.APIKey)

	c.Redis.Addr = getEnvWithDefault("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnvWithDefault("REDIS_PASSWORD", c.Redis.Password)

	var err error
	if c.LLM.Timeout, err = durationEnv("LLM_TIMEOUT", c.LLM.Timeout); err != nil {
		return err
	}
	if c.Media.Timeout, err = durationEnv("MEDIA_TIMEOUT", c.Media.Timeout); err != nil {
		return err
	}
	if c.Media.CacheTTL, err = durationEnv("MEDIA_CACHE_TTL", c.Media.CacheTTL); err != nil {
		return err
	}
	if v := os.Getenv("MEDIA_RATE_PER_SECOND"); v != "" {
		if c.Media.RatePerSecond, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("invalid MEDIA_RATE_PER_SECOND: %w", err)
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if c.Redis.DB, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}
	return nil
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// durationEnv accepts Go durations ("90s") and bare seconds ("90").
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
