package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the chat service.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8084"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// DatabaseURL is optional: when empty the service runs on the in-memory
	// conversation store, which is the local development mode.
	DatabaseURL    string        `env:"CHAT_DATABASE_URL" envDefault:""`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`

	PerplexityAPIKey  string `env:"PERPLEXITY_API_KEY" envDefault:""`
	PerplexityBaseURL string `env:"PERPLEXITY_BASE_URL" envDefault:"https://api.perplexity.ai"`
	PerplexityModel   string `env:"PERPLEXITY_MODEL" envDefault:"llama-3.1-sonar-large-128k-online"`

	MaxTurnIterations int           `env:"MAX_TURN_ITERATIONS" envDefault:"5"`
	ModelCallTimeout  time.Duration `env:"MODEL_CALL_TIMEOUT" envDefault:"75s"`
	ToolTimeout       time.Duration `env:"TOOL_EXECUTION_TIMEOUT" envDefault:"45s"`

	GolfNowUsername    string        `env:"GOLFNOW_USERNAME" envDefault:""`
	GolfNowPassword    string        `env:"GOLFNOW_PASSWORD" envDefault:""`
	GolfNowChannelID   string        `env:"GOLFNOW_CHANNEL_ID" envDefault:""`
	GolfNowAffiliateID string        `env:"GOLFNOW_AFFILIATE_ID" envDefault:""`
	GolfNowBaseURL     string        `env:"GOLFNOW_BASE_URL" envDefault:"https://sandbox.api.gnsvc.com/rest"`
	GolfNowTimeout     time.Duration `env:"GOLFNOW_TIMEOUT" envDefault:"30s"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if cfg.MaxTurnIterations <= 0 {
		cfg.MaxTurnIterations = 5
	}
	if cfg.ModelCallTimeout <= 0 {
		cfg.ModelCallTimeout = 75 * time.Second
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = 45 * time.Second
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// HasOpenAI reports whether the tool-calling backend is configured.
func (c *Config) HasOpenAI() bool {
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}

// HasPerplexity reports whether the search-only backend is configured.
func (c *Config) HasPerplexity() bool {
	return strings.TrimSpace(c.PerplexityAPIKey) != ""
}

// GolfNowConfigured reports whether live booking-provider credentials exist.
// Without them the client answers from the bundled catalog.
func (c *Config) GolfNowConfigured() bool {
	return c.GolfNowUsername != "" && c.GolfNowPassword != "" && c.GolfNowChannelID != ""
}
