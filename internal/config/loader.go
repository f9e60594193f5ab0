package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// legacyEnv maps config keys to the bare environment names the service has always honored.
var legacyEnv = map[string]string{
	"storage.path":             "DATABASE_PATH",
	"pagination.default_limit": "DEFAULT_LIMIT",
	"pagination.max_limit":     "MAX_LIMIT",
	"app.port":                 "PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "settings-service")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.port", 3000)
	v.SetDefault("app.shutdown_timeout", 5)

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.format", "")
	v.SetDefault("logger.output_target", "")
	v.SetDefault("logger.time_field", "")
	v.SetDefault("logger.time_format", "")
	v.SetDefault("logger.service_name", "")
	v.SetDefault("logger.service_version", "")
	v.SetDefault("logger.env", "")
	v.SetDefault("logger.with_caller", false)
	v.SetDefault("logger.stacktrace", false)

	v.SetDefault("storage.path", "./data/settings.db")
	v.SetDefault("storage.max_conns", 5)
	v.SetDefault("storage.busy_timeout_ms", 5000)

	v.SetDefault("pagination.default_limit", 10)
	v.SetDefault("pagination.max_limit", 100)
}

// Load reads configuration with priority: defaults < YAML file < env. For env, APP_* names win
// over the legacy bare names, which are consulted only when the APP_* variable is unset.
// An empty path or a missing file falls back to defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	for key, name := range legacyEnv {
		envKey := "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, name); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", name, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &config, nil
}
