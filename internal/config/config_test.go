package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimal environment for Load to succeed
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "password")
	t.Setenv("DB_NAME", "progress")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, float64(DefaultCompletionThreshold), cfg.Progress.CompletionThreshold)
	assert.Equal(t, float64(DefaultGateThreshold), cfg.Progress.GateThreshold)
	assert.Equal(t, float64(DefaultQuizPassScore), cfg.Progress.QuizPassScore)
	assert.Equal(t, "root:password@tcp(localhost:3306)/progress?parseTime=true&charset=utf8mb4", cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("PROGRESS_COMPLETION_THRESHOLD", "80")
	t.Setenv("PROGRESS_GATE_THRESHOLD", "80")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "15m")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 80.0, cfg.Progress.CompletionThreshold)
	assert.Equal(t, 80.0, cfg.Progress.GateThreshold)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		value         string
		errorContains string
	}{
		{name: "missing db host", key: "DB_HOST", value: "", errorContains: "DB_HOST is required"},
		{name: "invalid db port", key: "DB_PORT", value: "abc", errorContains: "invalid DB_PORT"},
		{name: "missing jwt secret", key: "JWT_SECRET", value: "", errorContains: "JWT_SECRET is required"},
		{name: "invalid threshold", key: "PROGRESS_GATE_THRESHOLD", value: "150", errorContains: "PROGRESS_GATE_THRESHOLD"},
		{name: "zero threshold", key: "PROGRESS_COMPLETION_THRESHOLD", value: "0", errorContains: "PROGRESS_COMPLETION_THRESHOLD"},
		{name: "invalid rate limit", key: "RATE_LIMIT_PER_MINUTE", value: "-1", errorContains: "RATE_LIMIT_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestDSN_EmptyHost(t *testing.T) {
	cfg := &Config{}

	assert.Equal(t, "", cfg.DSN())
}
