// Copyright 2026 Kavish05-Turabit
// Tests for config loading

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  port: 8080
  middleware:
    auth: true
    rate_limit: true
    rate_limit_rps: 20
    jwt_key: "static-key"
    jwt_timeout: "8h"
agent:
  max_rounds: 5
crm:
  base_url: "http://127.0.0.1:8000"
  timeout: "15s"
log:
  level: "debug"
  format: "text"
rate_limits:
  llm:
    gemini:
      requests_per_minute: 30
      max_concurrent: 4
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.True(t, cfg.API.Middleware.Auth)
	assert.Equal(t, 20, cfg.API.Middleware.RateLimitRPS)
	assert.Equal(t, "static-key", cfg.API.Middleware.JWTKey)
	assert.Equal(t, 5, cfg.Agent.MaxRounds)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.CRM.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, float64(30), cfg.RateLimits.LLM["gemini"].RequestsPerMinute)
	assert.Equal(t, 4, cfg.RateLimits.LLM["gemini"].MaxConcurrent)
}

func TestLoadConfig_EnvVarReplacement(t *testing.T) {
	t.Setenv("TEST_ASSISTANT_JWT_KEY", "from-env")
	t.Setenv("TEST_GEMINI_API_KEY", "gm-key")

	path := writeConfig(t, `
api:
  middleware:
    jwt_key: "${TEST_ASSISTANT_JWT_KEY}"
model:
  llm:
    providers:
      gemini:
        api_key: "${TEST_GEMINI_API_KEY}"
        models:
          flash:
            name: "gemini-2.5-flash"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.API.Middleware.JWTKey)
	assert.Equal(t, "gm-key", cfg.Model.LLM.Providers["gemini"].APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model.LLM.Providers["gemini"].Models["flash"].Name)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
