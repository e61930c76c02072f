package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	envPrefix = "RAL"

	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string  `envconfig:"APP_ENV" default:"dev"`
	Port          string  `envconfig:"PORT" default:"8080"`
	Store         string  `envconfig:"STORE" default:"sqlite"`
	DBPath        string  `envconfig:"DB_PATH" default:"./ral.db"`
	RedisURL      string  `envconfig:"REDIS_URL"`
	RedisAddr     string  `envconfig:"REDIS_ADDR"`
	RedisPassword string  `envconfig:"REDIS_PASSWORD"`
	RedisDB       int     `envconfig:"REDIS_DB" default:"0"`
	BaseListPrice float64 `envconfig:"BASE_LIST_PRICE" default:"298.31"`
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string  `envconfig:"LOG_FORMAT" default:"json"`
}

// IsDev reports whether the service runs in the development environment.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev")
}

// Load reads .env (if present) and the RAL_* environment variables.
func Load() (Config, error) {
	return load(".env")
}

func load(dotenvPath string) (Config, error) {
	// Variables already present in the environment win over the file.
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if cfg.Store == StoreRedis && cfg.RedisURL == "" && cfg.RedisAddr == "" {
		return Config{}, errors.New("RAL_REDIS_URL or RAL_REDIS_ADDR is required for the redis store")
	}
	if cfg.BaseListPrice < 0 {
		return Config{}, fmt.Errorf("base list price must be >= 0, got %v", cfg.BaseListPrice)
	}

	return cfg, nil
}
