package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	// Server
	Port          string        `envconfig:"PORT" default:"8080"`
	Env           string        `envconfig:"ENV" default:"development"`
	TrustProxy    bool          `envconfig:"TRUST_PROXY" default:"false"`
	ShutdownGrace time.Duration `envconfig:"SHUTDOWN_GRACE" default:"10s"`

	// Gemini AI
	GeminiAPIKey      string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiTimeout     time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
	GeminiTemperature float32       `envconfig:"GEMINI_TEMPERATURE" default:"1.0"`
	PersonaFile       string        `envconfig:"PERSONA_FILE"`
	MaxHistory        int           `envconfig:"MAX_HISTORY" default:"50"`

	// Origins
	FrontendURL    string   `envconfig:"FRONTEND_URL"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`

	// Rate limiting
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"10m"`
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"200"`
	RateLimitStore  string        `envconfig:"RATE_LIMIT_STORE" default:"memory"`

	// Redis
	RedisURL string `envconfig:"REDIS_URL"`

	// Observability
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDev         bool   `envconfig:"LOG_DEV" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.GeminiTimeout <= 0 {
		return fmt.Errorf("GEMINI_TIMEOUT must be positive, got %s", c.GeminiTimeout)
	}
	switch c.RateLimitStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when RATE_LIMIT_STORE=%s", StoreRedis)
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_STORE %q", c.RateLimitStore)
	}
	if len(c.Origins()) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	return nil
}

// Origins returns the allow-list of browser origins: ALLOWED_ORIGINS plus
// FRONTEND_URL, trimmed and de-duplicated.
func (c *Config) Origins() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range append(append([]string{}, c.AllowedOrigins...), c.FrontendURL) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
