package providers

import (
	"testing"
	"time"
)

func TestRegistry_Reload(t *testing.T) {
	t.Run("builds enabled providers only", func(t *testing.T) {
		r := NewRegistry()
		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"gemini": {Type: "gemini", APIKey: "key", Enabled: true},
				"openai": {Type: "openai", APIKey: "key", Enabled: false},
			},
			DefaultLLM: "gemini",
		})

		names := r.ListLLM()
		if len(names) != 1 || names[0] != "gemini" {
			t.Errorf("ListLLM() = %v, want [gemini]", names)
		}

		client, err := r.DefaultLLM()
		if err != nil {
			t.Fatalf("DefaultLLM() error = %v", err)
		}
		if client.Name() != GeminiName {
			t.Errorf("default = %s, want gemini", client.Name())
		}
	})

	t.Run("unknown type is skipped", func(t *testing.T) {
		r := NewRegistry()
		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"weird": {Type: "notreal", Enabled: true},
				"mock":  {Type: "mock", Enabled: true},
			},
		})

		if _, err := r.LLM("weird"); err == nil {
			t.Error("expected error for unknown provider type")
		}
		if _, err := r.LLM("mock"); err != nil {
			t.Errorf("mock should be registered: %v", err)
		}
	})

	t.Run("empty default falls back to first registered", func(t *testing.T) {
		r := NewRegistry()
		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"b-mock": {Type: "mock", Enabled: true},
				"a-mock": {Type: "mock", Enabled: true},
			},
		})

		// Deterministic: lexicographically first name wins.
		if _, err := r.DefaultLLM(); err != nil {
			t.Fatalf("DefaultLLM() error = %v", err)
		}
	})

	t.Run("reload replaces previous clients", func(t *testing.T) {
		r := NewRegistry()
		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"mock": {Type: "mock", Enabled: true},
			},
		})
		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"gemini": {Type: "gemini", APIKey: "key", Timeout: time.Second, Enabled: true},
			},
			DefaultLLM: "gemini",
		})

		if _, err := r.LLM("mock"); err == nil {
			t.Error("mock should be gone after reload")
		}
		client, err := r.DefaultLLM()
		if err != nil {
			t.Fatalf("DefaultLLM() error = %v", err)
		}
		if client.Name() != GeminiName {
			t.Errorf("default = %s, want gemini", client.Name())
		}
	})
}

func TestRegistry_RegisterLLM(t *testing.T) {
	r := NewRegistry()

	if _, err := r.DefaultLLM(); err == nil {
		t.Error("empty registry should have no default")
	}

	mock := NewMockClient()
	r.RegisterLLM("mock", mock)

	client, err := r.DefaultLLM()
	if err != nil {
		t.Fatalf("DefaultLLM() error = %v", err)
	}
	if client != LLMClient(mock) {
		t.Error("first registered client should become default")
	}
}
