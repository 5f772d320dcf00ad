package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Storage backend selectors. The backend is decided once at process
// start; services only ever see the store interfaces.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config represents the complete service configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Redis   RedisConfig   `toml:"redis"`
	Jobs    JobsConfig    `toml:"jobs"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Backend       string `toml:"backend"`
	DatabaseURL   string `toml:"database_url"`
	MigrationsDir string `toml:"migrations_dir"`
}

// AuthConfig contains token signing settings
type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	SessionHours int    `toml:"session_hours"`
}

// RedisConfig contains cache settings; Addr empty disables caching.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// JobsConfig contains background job settings
type JobsConfig struct {
	SessionSweepMinutes int `toml:"session_sweep_minutes"`
}

// Load reads configuration from an optional TOML file, then applies
// environment-variable overrides and defaults. An empty filename skips
// the file; the environment alone is a complete configuration.
func Load(filename string) (*Config, error) {
	cfg := &Config{}

	if filename != "" {
		if _, err := toml.DecodeFile(filename, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.Storage.Backend != BackendMemory && cfg.Storage.Backend != BackendPostgres {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == BackendPostgres && cfg.Storage.DatabaseURL == "" {
		return nil, fmt.Errorf("postgres backend requires DATABASE_URL")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.DatabaseURL = v
	}
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		cfg.Storage.MigrationsDir = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendMemory
	}
	if cfg.Storage.MigrationsDir == "" {
		cfg.Storage.MigrationsDir = "migrations"
	}
	if cfg.Auth.SessionHours == 0 {
		cfg.Auth.SessionHours = 7 * 24
	}
	if cfg.Jobs.SessionSweepMinutes == 0 {
		cfg.Jobs.SessionSweepMinutes = 60
	}
}
