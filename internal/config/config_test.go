package config

import (
	"testing"
	"time"
)

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("PAPERLENS_TEST_KEY", "secret-value")

	tests := []struct {
		in   string
		want string
	}{
		{"${PAPERLENS_TEST_KEY}", "secret-value"},
		{"prefix-${PAPERLENS_TEST_KEY}-suffix", "prefix-secret-value-suffix"},
		{"${PAPERLENS_TEST_UNSET_VAR}", ""},
		{"no references here", "no references here"},
		{"$NOT_BRACED", "$NOT_BRACED"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "8080" {
		t.Errorf("server defaults = %s:%s", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Defaults.LLMProvider != "gemini" {
		t.Errorf("default provider = %q", cfg.Defaults.LLMProvider)
	}
	if cfg.Analysis.MaxPromptChars != 30000 {
		t.Errorf("max prompt chars = %d", cfg.Analysis.MaxPromptChars)
	}

	gemini, ok := cfg.LLMProviders["gemini"]
	if !ok {
		t.Fatal("gemini provider missing from defaults")
	}
	if !gemini.Enabled {
		t.Error("gemini should be enabled by default")
	}
	if openai := cfg.LLMProviders["openai"]; openai.Enabled {
		t.Error("openai should be disabled by default")
	}
}

func TestToProviderRegistryConfig(t *testing.T) {
	t.Setenv("PAPERLENS_TEST_GEMINI_KEY", "resolved-key")

	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {
				Type:           "gemini",
				Model:          "gemini-1.5-pro-002",
				APIKey:         "${PAPERLENS_TEST_GEMINI_KEY}",
				RateLimit:      30,
				TimeoutSeconds: 45,
				Enabled:        true,
			},
		},
		Defaults: DefaultsCfg{LLMProvider: "gemini"},
	}

	rc := cfg.ToProviderRegistryConfig()
	if rc.DefaultLLM != "gemini" {
		t.Errorf("DefaultLLM = %q", rc.DefaultLLM)
	}

	pc, ok := rc.LLMProviders["gemini"]
	if !ok {
		t.Fatal("gemini missing from registry config")
	}
	if pc.APIKey != "resolved-key" {
		t.Errorf("APIKey = %q, want env-resolved value", pc.APIKey)
	}
	if pc.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", pc.Timeout)
	}
	if pc.RateLimit != 30 {
		t.Errorf("RateLimit = %v", pc.RateLimit)
	}
}

func TestYouTubeAPIKey(t *testing.T) {
	t.Setenv("PAPERLENS_TEST_YT_KEY", "yt-key")
	cfg := &Config{YouTube: YouTubeCfg{APIKey: "${PAPERLENS_TEST_YT_KEY}"}}
	if got := cfg.YouTubeAPIKey(); got != "yt-key" {
		t.Errorf("YouTubeAPIKey() = %q", got)
	}
}
