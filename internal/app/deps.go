package app

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"prompt-gateway/internal/cache"
	"prompt-gateway/internal/config"
	"prompt-gateway/internal/extract"
	"prompt-gateway/internal/gateway"
	"prompt-gateway/internal/logger"
	"prompt-gateway/internal/prompt"
	"prompt-gateway/internal/provider"
)

// Deps bundles common runtime dependencies for the service.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Registry  *provider.Registry
	Cache     cache.Cache
	Extractor extract.Extractor
	Gateway   *gateway.Gateway
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	// A .env file is optional; real deployments configure the process
	// environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	registry := buildRegistry(cfg)
	log.Info("providers registered", "names", registry.Names())

	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}

	gw := gateway.New(log, registry, c, gateway.Options{
		MaxRetries: cfg.MaxRetries,
		CacheTTL:   cfg.CacheTTL,
	})

	return Deps{
		Config:    cfg,
		Log:       log,
		Registry:  registry,
		Cache:     c,
		Extractor: extract.New(),
		Gateway:   gw,
	}, nil
}

// buildRegistry registers every known provider. A provider with a missing
// credential stays registered but unavailable; the gateway reports that as a
// configuration error when it is selected, without attempting the network.
func buildRegistry(cfg config.Config) *provider.Registry {
	registry := provider.NewRegistry()

	registry.Register("claude", provider.NewAnthropic(provider.AnthropicOptions{
		APIKey:  cfg.AnthropicKey,
		Model:   cfg.AnthropicModel,
		Timeout: cfg.RequestTimeout,
	}))

	registry.Register("gemini", provider.NewGoogle(provider.GoogleOptions{
		APIKey:  cfg.GeminiKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.RequestTimeout,
	}))

	registry.Register("groq", provider.NewChat(provider.ChatOptions{
		Name:    "groq",
		APIKey:  cfg.GroqKey,
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   cfg.GroqModel,
		Timeout: cfg.RequestTimeout,
	}))

	azureAvailable := cfg.AzureOpenAIKey != "" && cfg.AzureOpenAIEndpoint != ""
	azureKey := cfg.AzureOpenAIKey
	if !azureAvailable {
		azureKey = ""
	}
	registry.Register("openai", provider.NewChat(provider.ChatOptions{
		Name:            "openai",
		APIKey:          azureKey,
		AzureEndpoint:   cfg.AzureOpenAIEndpoint,
		AzureAPIVersion: cfg.AzureOpenAIAPIVersion,
		Model:           cfg.AzureOpenAIDeployment,
		Dialect:         prompt.DialectFilesBundle,
		Timeout:         cfg.RequestTimeout,
	}))

	return registry
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		log.Info("using Redis result cache")
		return c, nil
	case "noop", "":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, noop)", cfg.CacheProvider)
	}
}
