package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-markup/internal/llm"
	"github.com/jonathan/resume-markup/internal/quality"
)

// clearEnv isolates a test from fallbacks present in the developer's shell
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "DATABASE_URL", "REDIS_URL"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "engine.yaml", `
server:
  port: 9090
  read_timeout: 5s
templates:
  dir: /srv/templates
  default_id: modern
scoring:
  quality_threshold: 60
  weights:
    no_skills: 25
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "/srv/templates", cfg.Templates.Dir)
	assert.Equal(t, "modern", cfg.Templates.DefaultID)
	assert.Equal(t, 60, cfg.Scoring.QualityThreshold)
	assert.Equal(t, 25, cfg.Scoring.Weights.NoSkills)
	assert.Equal(t, 40, cfg.Scoring.Weights.NoExperience)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "engine.json", `{"llm": {"api_key": "from-file", "standard_model": "gemini-custom"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-custom", cfg.ModelConfig().GetModel(llm.TierStandard))
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.ModelConfig().GetModel(llm.TierLite))
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESUME_SERVER_PORT", "7070")
	t.Setenv("RESUME_FETCH_USE_BROWSER", "true")
	t.Setenv("RESUME_SCORING_QUALITY_THRESHOLD", "80")
	path := writeFile(t, "engine.yaml", "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Fetch.UseBrowser)
	assert.Equal(t, 80, cfg.Scoring.QualityThreshold)
}

func TestLoad_ConventionalEnvFallbacks(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/resume")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	path := writeFile(t, "engine.yaml", "logging:\n  level: info\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://localhost/resume", cfg.Database.URL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoad_PrefixedEnvWinsOverFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "fallback")
	t.Setenv("RESUME_LLM_API_KEY", "primary")
	path := writeFile(t, "engine.yaml", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.LLM.APIKey)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, want.Server.Port, cfg.Server.Port)
	assert.Equal(t, want.Scoring, cfg.Scoring)
	assert.Equal(t, want.Templates, cfg.Templates)
	assert.Equal(t, want.Logging, cfg.Logging)
	assert.Equal(t, want.Fetch, cfg.Fetch)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	_, err = Load(writeFile(t, "bad.yaml", "server: [unclosed"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "invalid.yaml", "scoring:\n  quality_threshold: 150\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "negative port", mutate: func(c *Config) { c.Server.Port = -1 }, wantErr: "server.port"},
		{name: "zero threshold", mutate: func(c *Config) { c.Scoring.QualityThreshold = 0 }, wantErr: "quality_threshold"},
		{name: "threshold above max", mutate: func(c *Config) { c.Scoring.QualityThreshold = 101 }, wantErr: "quality_threshold"},
		{name: "threshold at max", mutate: func(c *Config) { c.Scoring.QualityThreshold = 100 }},
		{name: "negative weight", mutate: func(c *Config) { c.Scoring.Weights.NoEducation = -5 }, wantErr: "must not be negative"},
		{name: "unknown log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "other" }, wantErr: "llm.provider"},
		{name: "bad template id", mutate: func(c *Config) { c.Templates.DefaultID = "../etc" }, wantErr: "templates.default_id"},
		{name: "rate limit without window", mutate: func(c *Config) { c.RateLimit.DefaultWindow = 0 }, wantErr: "ratelimit"},
		{name: "rate limit disabled", mutate: func(c *Config) {
			c.RateLimit.Enabled = false
			c.RateLimit.DefaultLimit = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultConfig_CalibrationValues(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, quality.DefaultGateQuality, cfg.Scoring.QualityThreshold)
	assert.Equal(t, quality.DefaultWeights(), cfg.Scoring.Weights)
	assert.Equal(t, "classic", cfg.Templates.DefaultID)
}

func TestFetchOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetch.Timeout = 10 * time.Second
	cfg.Fetch.UseBrowser = true

	opts := cfg.FetchOptions()
	assert.Equal(t, 10*time.Second, opts.Timeout)
	assert.Equal(t, 10*time.Second, opts.BrowserTimeout)
	assert.True(t, opts.UseBrowser)
	assert.NotEmpty(t, opts.UserAgent)
}

func TestRateLimiterConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.Whitelist = []string{" 10.0.0.1 ", ""}

	rl := cfg.RateLimiterConfig()
	assert.True(t, rl.Enabled)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, rl.Whitelist)
	assert.Empty(t, rl.Blacklist)
	assert.NotEmpty(t, rl.EndpointConfigs)
}
