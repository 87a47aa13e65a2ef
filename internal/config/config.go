// Package config loads the customloads configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CUSTOMLOADS_"

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration of the customloads binary.
type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Directory with catalog YAML files; empty uses the embedded catalog.
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`

	// Rounds the extra material cost is computed for; 0 uses the template recipe's product count.
	CraftCountOverride int `yaml:"craft_count_override" env:"CRAFT_COUNT_OVERRIDE"`

	Storage Storage `yaml:"storage" envPrefix:"STORAGE_"`
}

// Storage selects where drafts are persisted.
type Storage struct {
	Driver     string         `yaml:"driver"      env:"DRIVER"`
	SQLitePath string         `yaml:"sqlite_path" env:"SQLITE_PATH"`
	Database   DatabaseConfig `yaml:"database"    envPrefix:"DB_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"     env:"HOST"`
	Port     int    `yaml:"port"     env:"PORT"`
	User     string `yaml:"user"     env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname"   env:"NAME"`
	SSLMode  string `yaml:"sslmode"  env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Storage: Storage{
			Driver:     DriverSQLite,
			SQLitePath: "customloads.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "customloads",
				Password: "customloads",
				DBName:   "customloads",
				SSLMode:  "disable",
			},
		},
	}
}

// Load reads config from a YAML file, then applies CUSTOMLOADS_* environment overrides.
// If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the binary cannot run with.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.CraftCountOverride < 0 {
		return fmt.Errorf("craft_count_override must not be negative, got %d", c.CraftCountOverride)
	}
	return nil
}
