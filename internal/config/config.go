package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"tmp"`

	// Dispatch
	DefaultProvider string        `env:"DEFAULT_PROVIDER" envDefault:"groq"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxRetries      int           `env:"MAX_RETRIES" envDefault:"0"`

	// Provider credentials, read at startup. A missing credential disables
	// that provider rather than failing the whole service.
	AnthropicKey   string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-sonnet-20240229"`

	GeminiKey   string `env:"GEMINI_API_KEY"`
	GeminiModel string `env:"GEMINI_MODEL" envDefault:"gemini-pro"`

	GroqKey   string `env:"GROQ_API_KEY"`
	GroqModel string `env:"GROQ_MODEL" envDefault:"llama3-8b-8192"`

	AzureOpenAIKey        string `env:"AZURE_OPENAI_API_KEY"`
	AzureOpenAIEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIDeployment string `env:"AZURE_OPENAI_DEPLOYMENT" envDefault:"gpt-4"`
	AzureOpenAIAPIVersion string `env:"AZURE_OPENAI_API_VERSION" envDefault:"2025-01-01-preview"`

	// Result cache
	CacheProvider string        `env:"CACHE_PROVIDER" envDefault:"noop"` // "redis" or "noop"
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"15m"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
