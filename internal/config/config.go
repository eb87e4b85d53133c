// Package config loads runtime settings from the environment and, optionally,
// a YAML, TOML, JSON or .env file.
package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/dukerupert/shoppinglist/internal/database"
)

type Config struct {
	DB  DB  `yaml:"db" toml:"db" json:"db"`
	Log Log `yaml:"log" toml:"log" json:"log"`
}

type DB struct {
	Driver  string `yaml:"driver" toml:"driver" json:"driver" env:"SHOPPING_DB_DRIVER" env-default:"sqlite" env-description:"database engine: postgres or sqlite"`
	URL     string `yaml:"url" toml:"url" json:"url" env:"SHOPPING_DB_URL" env-default:"shoppinglist.db" env-description:"connection URL or SQLite file path"`
	Migrate bool   `yaml:"migrate" toml:"migrate" json:"migrate" env:"SHOPPING_MIGRATE" env-default:"true" env-description:"apply migrations when connecting"`
	// BusyTimeout is in milliseconds and only applies to SQLite.
	BusyTimeout int `yaml:"busy_timeout" toml:"busy_timeout" json:"busy_timeout" env:"SHOPPING_DB_BUSY_TIMEOUT" env-default:"5000" env-description:"SQLite busy timeout in milliseconds"`
}

type Log struct {
	Level  string `yaml:"level" toml:"level" json:"level" env:"SHOPPING_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	Format string `yaml:"format" toml:"format" json:"format" env:"SHOPPING_LOG_FORMAT" env-default:"text" env-description:"text or json"`
}

// Load reads the environment. When path is non-empty the file is read first
// and environment variables only fill the fields it leaves empty.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// Driver parses the configured engine name.
func (c *Config) Driver() (database.Driver, error) {
	return database.ParseDriver(c.DB.Driver)
}

func (c *Config) Validate() error {
	if _, err := c.Driver(); err != nil {
		return err
	}
	if strings.TrimSpace(c.DB.URL) == "" {
		return fmt.Errorf("database url must not be empty")
	}
	if c.DB.BusyTimeout < 0 {
		return fmt.Errorf("busy timeout must not be negative, got %d", c.DB.BusyTimeout)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Usage describes the environment variables Load understands.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
