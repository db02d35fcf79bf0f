package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the back-office API root; all request paths are
	// resolved against it.
	APIBaseURL string `env:"BACKOFFICE_API_URL, default=http://localhost:8000"`
	Env        string `env:"ENV,                default=development"`
	LogLevel   string `env:"LOG_LEVEL,          default=info"`

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=15s"`

	// Home overrides the directory holding the credentials file.
	// Empty means "<user home>/.backoffice".
	Home string `env:"BACKOFFICE_HOME"`
}

// Load reads configuration from a .env file (when present) and the
// environment, using go-envconfig.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
