// Package config resolves provider selection and per-provider settings
// from static configuration, optionally layered with a mutable override
// store so operators can hot-swap providers without a deploy.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ProviderConfig holds the static settings for one extraction backend.
type ProviderConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"min=0"`
	MaxRetries int           `mapstructure:"max_retries" validate:"min=0,max=10"`
	Priority   int           `mapstructure:"priority" validate:"min=1"`
}

// Config is the full static configuration for the extraction core.
type Config struct {
	Primary            string                    `mapstructure:"primary" validate:"required"`
	Secondary          string                    `mapstructure:"secondary"`
	FallbackEnabled    bool                      `mapstructure:"fallback_enabled"`
	StopOnFirstSuccess bool                      `mapstructure:"stop_on_first_success"`
	AllowOverride      bool                      `mapstructure:"allow_override"`
	OverrideTTL        time.Duration             `mapstructure:"override_ttl" validate:"min=0"`
	DatabaseURL        string                    `mapstructure:"database_url"`
	Providers          map[string]ProviderConfig `mapstructure:"providers" validate:"required,dive"`
}

var configValidator = validator.New()

// setDefaults registers the deploy-time defaults on a viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("primary", "anthropic")
	v.SetDefault("secondary", "openai")
	v.SetDefault("fallback_enabled", true)
	v.SetDefault("stop_on_first_success", true)
	v.SetDefault("allow_override", false)
	v.SetDefault("override_ttl", time.Hour)

	defaults := map[string]int{"anthropic": 1, "openai": 2, "gemini": 3}
	for name, priority := range defaults {
		v.SetDefault(fmt.Sprintf("providers.%s.enabled", name), true)
		v.SetDefault(fmt.Sprintf("providers.%s.timeout", name), 30*time.Second)
		v.SetDefault(fmt.Sprintf("providers.%s.max_retries", name), 3)
		v.SetDefault(fmt.Sprintf("providers.%s.priority", name), priority)
	}
}

// Load reads configuration from the given viper instance, which is
// expected to already have its config file and environment bindings set
// up by the CLI layer.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	// API keys come from the environment by convention.
	bindKey := func(name, envKey string) {
		p := cfg.Providers[name]
		if p.APIKey == "" {
			p.APIKey = v.GetString(envKey)
			cfg.Providers[name] = p
		}
	}
	bindKey("anthropic", "anthropic_api_key")
	bindKey("openai", "openai_api_key")
	bindKey("gemini", "gemini_api_key")

	if err := configValidator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, ok := cfg.Providers[cfg.Primary]; !ok {
		return nil, fmt.Errorf("primary provider %q has no configuration", cfg.Primary)
	}
	if cfg.Secondary != "" {
		if _, ok := cfg.Providers[cfg.Secondary]; !ok {
			return nil, fmt.Errorf("secondary provider %q has no configuration", cfg.Secondary)
		}
	}
	return &cfg, nil
}

// Default returns the deploy-time defaults without reading any file or
// environment. Used by tests.
func Default() *Config {
	v := viper.New()
	cfg, err := Load(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// available reports whether a provider is enabled and fully configured.
// Unavailable providers are silently excluded from ordering, never tried.
func (p ProviderConfig) available() bool {
	return p.Enabled && p.APIKey != ""
}
