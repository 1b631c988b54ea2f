package kassza

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the till, loaded from the
// environment (a local .env file is honored when present).
type Config struct {
	// DataDir is the directory holding the per-day state and journal files.
	DataDir string `env:"KASSZA_DATA_DIR" envDefault:"data"`

	// Currency is the ISO code of the till currency.
	Currency string `env:"KASSZA_CURRENCY" envDefault:"HUF"`

	// Verbose enables debug logging.
	Verbose bool `env:"KASSZA_VERBOSE" envDefault:"false"`
}

// LoadConfig reads the configuration from a .env file (if any) and the
// process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
