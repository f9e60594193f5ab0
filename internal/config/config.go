package config

import (
	"github.com/maxviazov/settings-service/internal/logger"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Storage    StorageConfig       `mapstructure:"storage"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	// ShutdownTimeout is the graceful shutdown window in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"min=0"`
}

// StorageConfig tunes the SQLite settings store.
type StorageConfig struct {
	Path          string `mapstructure:"path" validate:"required"`
	MaxConns      int    `mapstructure:"max_conns" validate:"min=1"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms" validate:"min=0"`
}

// PaginationConfig bounds list requests: an absent limit becomes DefaultLimit
// and every limit is capped at MaxLimit.
type PaginationConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"min=1"`
	MaxLimit     int `mapstructure:"max_limit" validate:"min=1"`
}
