package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel    string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	CORSOrigins []string `mapstructure:"cors_origins" validate:"required,min=1"`
}

// DatabaseConfig contains the connection settings for the task database.
type DatabaseConfig struct {
	Host           string        `mapstructure:"host" validate:"required,hostname_rfc1123|ip"`
	Port           int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	User           string        `mapstructure:"user" validate:"required"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name" validate:"required"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	// AcquireTimeout bounds how long a request waits for a pooled connection.
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout" validate:"gt=0"`
	MaxConns       int           `mapstructure:"max_conns" validate:"gte=1,lte=1000"`
}

// MetricsConfig controls the optional Prometheus listener. Port 0 disables it.
type MetricsConfig struct {
	Port int `mapstructure:"port" validate:"gte=0,lt=65536"`
}
