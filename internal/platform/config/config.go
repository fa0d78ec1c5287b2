// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	APIPort     int    `env:"API_PORT" envDefault:"8080"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8081"`

	// Remote generation backend
	OpenAIAPIKey string  `env:"OPENAI_API_KEY"`
	OpenAIModel  string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIRPS    float64 `env:"OPENAI_RPS" envDefault:"1"`

	// Retry/fallback behavior
	GenerateMaxRetries   int           `env:"GENERATE_MAX_RETRIES" envDefault:"2"`
	GenerateInitialDelay time.Duration `env:"GENERATE_INITIAL_DELAY" envDefault:"500ms"`
	GenerateTimeout      time.Duration `env:"GENERATE_TIMEOUT" envDefault:"60s"`

	// Input validation gate
	MaxInputChars int `env:"MAX_INPUT_CHARS" envDefault:"20000"`

	// API rate limiting (token bucket per client)
	APIRateLimitRPS   float64 `env:"API_RATE_LIMIT_RPS" envDefault:"1"`
	APIRateLimitBurst int     `env:"API_RATE_LIMIT_BURST" envDefault:"5"`

	// URL ingestion
	IngestEnabled   bool          `env:"INGEST_ENABLED" envDefault:"true"`
	IngestTimeout   time.Duration `env:"INGEST_TIMEOUT" envDefault:"30s"`
	IngestMaxBytes  int64         `env:"INGEST_MAX_BYTES" envDefault:"2097152"`
	IngestUserAgent string        `env:"INGEST_USER_AGENT" envDefault:"threadforge/1.0"`

	// Telegram front-end
	BotToken string  `env:"BOT_TOKEN"`
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
