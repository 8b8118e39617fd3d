package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DotEnvFile is the optional file loaded into the process environment
// before configuration is read. Variables already set are not overridden.
var DotEnvFile = ".env"

// envBindings maps configuration keys to the environment variables that
// populate them.
var envBindings = map[string]string{
	"server.port":              "TASKS_SERVER_PORT",
	"server.log_level":         "TASKS_SERVER_LOG_LEVEL",
	"server.cors_origins":      "TASKS_SERVER_CORS_ORIGINS",
	"database.host":            "DB_HOST",
	"database.port":            "DB_PORT",
	"database.user":            "DB_USER",
	"database.password":        "DB_PASSWORD",
	"database.name":            "DB_NAME",
	"database.connect_timeout": "DB_CONNECT_TIMEOUT",
	"database.acquire_timeout": "DB_ACQUIRE_TIMEOUT",
	"database.max_conns":       "DB_MAX_CONNS",
	"metrics.port":             "TASKS_METRICS_PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "tasks")
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.acquire_timeout", 10*time.Second)
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("metrics.port", 0)
}

// Load configuration from environment variables and the optional .env file.
// Every setting has a default, so an empty environment yields a usable config.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
