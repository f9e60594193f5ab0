package logger

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		zerolog.TimestampFieldName = "time"
		zerolog.TimeFieldFormat = time.RFC3339
	})

	tests := []struct {
		name        string
		config      *LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "valid production environment",
			config: &LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "timestamp",
				TimeFormat:     "unix",
				Fields:         map[string]interface{}{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "invalid configuration - wrong env",
			config: &LoggerConfig{
				ServiceName: "bad-service",
				Env:         "wrong-env", // not allowed by validator
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "invalid log level",
			config: &LoggerConfig{
				Env:   "prod",
				Level: "invalid-level",
			},
			expectError: true,
		},
		{
			name: "invalid time format",
			config: &LoggerConfig{
				Env:        "staging",
				TimeFormat: "ansic",
			},
			expectError: true,
		},
		{
			name: "trace level for SQL statement logging",
			config: &LoggerConfig{
				Env:   "staging",
				Level: "trace",
			},
			wantLevel: zerolog.TraceLevel,
		},
		{
			name:      "empty config falls back to prod defaults",
			config:    &LoggerConfig{},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestSetDefaults(t *testing.T) {
	t.Run("prod", func(t *testing.T) {
		c := &LoggerConfig{}
		c.setDefaults()
		assert.Equal(t, "prod", c.Env)
		assert.Equal(t, "info", c.Level)
		assert.Equal(t, "json", c.Format)
		assert.Equal(t, "stdout", c.OutputTarget)
		assert.Equal(t, "settings-service", c.ServiceName)
		assert.True(t, c.Stacktrace)
		assert.False(t, c.WithCaller)
		assert.NotNil(t, c.Fields)
	})

	t.Run("dev", func(t *testing.T) {
		c := &LoggerConfig{Env: "dev"}
		c.setDefaults()
		assert.Equal(t, "debug", c.Level)
		assert.Equal(t, "console", c.Format)
		assert.True(t, c.WithCaller)
		assert.False(t, c.Stacktrace)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		c := &LoggerConfig{Env: "staging", Level: "warn", Format: "console", ServiceName: "svc"}
		c.setDefaults()
		assert.Equal(t, "warn", c.Level)
		assert.Equal(t, "console", c.Format)
		assert.Equal(t, "svc", c.ServiceName)
	})
}

func TestWriter(t *testing.T) {
	c := &LoggerConfig{Env: "prod", Format: "json", OutputTarget: "stderr"}
	assert.Same(t, os.Stderr, c.writer())

	c = &LoggerConfig{Env: "prod", Format: "json", OutputTarget: "stdout"}
	assert.Same(t, os.Stdout, c.writer())

	c = &LoggerConfig{Env: "staging", Level: "info", Format: "console", OutputTarget: "stdout"}
	_, ok := c.writer().(zerolog.ConsoleWriter)
	assert.True(t, ok)
}

func TestTimeLayout(t *testing.T) {
	assert.Equal(t, time.RFC3339, timeLayout("rfc3339"))
	assert.Equal(t, time.RFC3339Nano, timeLayout("rfc3339nano"))
	assert.Equal(t, zerolog.TimeFormatUnix, timeLayout("unix"))
	assert.Equal(t, zerolog.TimeFormatUnixMs, timeLayout("unix_ms"))
}
