// Package config provides configuration loading and validation for the
// engine binary and its HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-markup/internal/fetch"
	"github.com/jonathan/resume-markup/internal/llm"
	"github.com/jonathan/resume-markup/internal/quality"
	"github.com/jonathan/resume-markup/internal/server/ratelimit"
	"github.com/jonathan/resume-markup/internal/templates"
)

// EnvPrefix prefixes every environment override, e.g. RESUME_SERVER_PORT
const EnvPrefix = "RESUME"

// DefaultConfigName is searched for in the working directory when no
// explicit config file is given
const DefaultConfigName = "resume-engine"

// Config is the full engine configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// AllowedOrigins for CORS; empty allows any origin
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig is optional; an empty URL disables Postgres templates and
// the render archive
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig is optional; an empty URL keeps the template cache in memory
type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LLMConfig configures the AI collaborator. An empty API key runs every
// operation on its heuristic path.
type LLMConfig struct {
	Provider      string  `mapstructure:"provider"`
	APIKey        string  `mapstructure:"api_key"`
	LiteModel     string  `mapstructure:"lite_model"`
	StandardModel string  `mapstructure:"standard_model"`
	AdvancedModel string  `mapstructure:"advanced_model"`
	Temperature   float32 `mapstructure:"temperature"`
}

// TemplatesConfig selects where skeletons come from
type TemplatesConfig struct {
	Dir       string `mapstructure:"dir"`
	DefaultID string `mapstructure:"default_id"`
}

// ScoringConfig holds the calibration values of the match engine
type ScoringConfig struct {
	QualityThreshold int             `mapstructure:"quality_threshold"`
	Weights          quality.Weights `mapstructure:"weights"`
}

// FetchConfig configures job posting retrieval
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	UseBrowser bool          `mapstructure:"use_browser"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// LoggingConfig selects log level and encoding
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig configures the per-client HTTP limiter
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() *Config {
	models := llm.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Redis: RedisConfig{KeyPrefix: templates.DefaultKeyPrefix},
		LLM: LLMConfig{
			Provider:      string(llm.ProviderGemini),
			LiteModel:     models.GetModel(llm.TierLite),
			StandardModel: models.GetModel(llm.TierStandard),
			AdvancedModel: models.GetModel(llm.TierAdvanced),
			Temperature:   llm.DefaultTemperature,
		},
		Templates: TemplatesConfig{DefaultID: templates.DefaultID},
		Scoring: ScoringConfig{
			QualityThreshold: quality.DefaultGateQuality,
			Weights:          quality.DefaultWeights(),
		},
		Fetch: FetchConfig{
			Timeout:  fetch.DefaultTimeout,
			CacheTTL: fetch.DefaultTextCacheTTL,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
	}
}

// Load reads configuration from path, or from resume-engine.{yaml,json} in
// the working directory when path is empty. Environment variables override
// file values (RESUME_SERVER_PORT, RESUME_LLM_API_KEY, ...), and the
// conventional GEMINI_API_KEY, DATABASE_URL and REDIS_URL fill values
// still unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyEnvFallbacks(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so env overrides apply even when the
// config file omits it
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("redis.url", d.Redis.URL)
	v.SetDefault("redis.key_prefix", d.Redis.KeyPrefix)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.lite_model", d.LLM.LiteModel)
	v.SetDefault("llm.standard_model", d.LLM.StandardModel)
	v.SetDefault("llm.advanced_model", d.LLM.AdvancedModel)
	v.SetDefault("llm.temperature", d.LLM.Temperature)

	v.SetDefault("templates.dir", d.Templates.Dir)
	v.SetDefault("templates.default_id", d.Templates.DefaultID)

	w := d.Scoring.Weights
	v.SetDefault("scoring.quality_threshold", d.Scoring.QualityThreshold)
	v.SetDefault("scoring.weights.no_experience", w.NoExperience)
	v.SetDefault("scoring.weights.one_experience", w.OneExperience)
	v.SetDefault("scoring.weights.no_skills", w.NoSkills)
	v.SetDefault("scoring.weights.few_skills", w.FewSkills)
	v.SetDefault("scoring.weights.no_content", w.NoContent)
	v.SetDefault("scoring.weights.little_content", w.LittleContent)
	v.SetDefault("scoring.weights.weak_summary", w.WeakSummary)
	v.SetDefault("scoring.weights.no_education", w.NoEducation)

	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.use_browser", d.Fetch.UseBrowser)
	v.SetDefault("fetch.cache_ttl", d.Fetch.CacheTTL)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("ratelimit.enabled", d.RateLimit.Enabled)
	v.SetDefault("ratelimit.default_limit", d.RateLimit.DefaultLimit)
	v.SetDefault("ratelimit.default_window", d.RateLimit.DefaultWindow)
	v.SetDefault("ratelimit.cleanup_interval", d.RateLimit.CleanupInterval)
	v.SetDefault("ratelimit.whitelist", d.RateLimit.Whitelist)
	v.SetDefault("ratelimit.blacklist", d.RateLimit.Blacklist)
}

func applyEnvFallbacks(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = os.Getenv("REDIS_URL")
	}
}

// Validate checks that the configuration has usable values
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Scoring.QualityThreshold <= 0 || c.Scoring.QualityThreshold > quality.MaxScore {
		return fmt.Errorf("config error: 'scoring.quality_threshold' must be in (0, %d], got %d", quality.MaxScore, c.Scoring.QualityThreshold)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console", "text":
	default:
		return fmt.Errorf("config error: unknown 'logging.format' %q", c.Logging.Format)
	}
	if c.LLM.Provider != "" && c.LLM.Provider != string(llm.ProviderGemini) {
		return fmt.Errorf("config error: unsupported 'llm.provider' %q", c.LLM.Provider)
	}
	if c.Templates.DefaultID != "" && !templates.ValidID(c.Templates.DefaultID) {
		return fmt.Errorf("config error: invalid 'templates.default_id' %q", c.Templates.DefaultID)
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit <= 0 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: 'ratelimit' needs a positive default_limit and default_window")
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("config error: 'fetch.timeout' must not be negative")
	}
	return nil
}

// ModelConfig converts the llm section for the client
func (c *Config) ModelConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	for tier, model := range map[llm.ModelTier]string{
		llm.TierLite:     c.LLM.LiteModel,
		llm.TierStandard: c.LLM.StandardModel,
		llm.TierAdvanced: c.LLM.AdvancedModel,
	} {
		if model != "" {
			cfg = cfg.WithModel(tier, model)
		}
	}
	if c.LLM.Temperature > 0 {
		cfg.Temperature = c.LLM.Temperature
	}
	return cfg
}

// FetchOptions converts the fetch section for the posting client
func (c *Config) FetchOptions() fetch.Options {
	opts := fetch.DefaultOptions()
	if c.Fetch.Timeout > 0 {
		opts.Timeout = c.Fetch.Timeout
		opts.BrowserTimeout = c.Fetch.Timeout
	}
	opts.UseBrowser = c.Fetch.UseBrowser
	return opts
}

// RateLimiterConfig converts the ratelimit section for the HTTP limiter
func (c *Config) RateLimiterConfig() *ratelimit.Config {
	return &ratelimit.Config{
		Enabled:         c.RateLimit.Enabled,
		DefaultLimit:    c.RateLimit.DefaultLimit,
		DefaultWindow:   c.RateLimit.DefaultWindow,
		CleanupInterval: c.RateLimit.CleanupInterval,
		Whitelist:       toSet(c.RateLimit.Whitelist),
		Blacklist:       toSet(c.RateLimit.Blacklist),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	}
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out[item] = true
		}
	}
	return out
}
