package config

import (
	"time"

	"github.com/paperlens/paperlens/internal/providers"
)

// Config holds paperlens configuration.
type Config struct {
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	YouTube      YouTubeCfg                `mapstructure:"youtube" yaml:"youtube"`
	Analysis     AnalysisCfg               `mapstructure:"analysis" yaml:"analysis"`
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type           string  `mapstructure:"type" yaml:"type"`                       // "gemini", "openai"
	Model          string  `mapstructure:"model" yaml:"model"`                     // Model name
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`               // Optional endpoint override
	RateLimit      float64 `mapstructure:"rate_limit" yaml:"rate_limit"`           // Requests per minute
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // HTTP timeout
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider"`
}

// YouTubeCfg configures the Data API metadata client.
type YouTubeCfg struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// AnalysisCfg bounds prompt construction.
type AnalysisCfg struct {
	MaxPromptChars int `mapstructure:"max_prompt_chars" yaml:"max_prompt_chars"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {
				Type:           "gemini",
				Model:          "gemini-1.5-pro-002",
				APIKey:         "${GEMINI_API_KEY}",
				RateLimit:      60,
				TimeoutSeconds: 120,
				Enabled:        true,
			},
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o-mini",
				APIKey:         "${OPENAI_API_KEY}",
				RateLimit:      60,
				TimeoutSeconds: 120,
				Enabled:        false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider: "gemini",
		},
		YouTube: YouTubeCfg{
			APIKey:         "${YOUTUBE_API_KEY}",
			TimeoutSeconds: 30,
		},
		Analysis: AnalysisCfg{
			MaxPromptChars: 30000,
		},
	}
}

// ToProviderRegistryConfig converts config into the providers package
// shape, resolving ${ENV_VAR} references in API keys.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	out := providers.RegistryConfig{
		LLMProviders: make(map[string]providers.LLMProviderConfig, len(c.LLMProviders)),
		DefaultLLM:   c.Defaults.LLMProvider,
	}
	for name, pc := range c.LLMProviders {
		out.LLMProviders[name] = providers.LLMProviderConfig{
			Type:      pc.Type,
			Model:     pc.Model,
			APIKey:    ResolveEnvVars(pc.APIKey),
			BaseURL:   pc.BaseURL,
			RateLimit: pc.RateLimit,
			Timeout:   time.Duration(pc.TimeoutSeconds) * time.Second,
			Enabled:   pc.Enabled,
		}
	}
	return out
}

// YouTubeAPIKey returns the resolved Data API key.
func (c *Config) YouTubeAPIKey() string {
	return ResolveEnvVars(c.YouTube.APIKey)
}
