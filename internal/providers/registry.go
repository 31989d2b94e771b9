package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// LLMProviderConfig configures a single LLM provider entry.
type LLMProviderConfig struct {
	Type      string  // "gemini", "openai"
	Model     string  // Default model name
	APIKey    string  // Resolved API key (env references already expanded)
	BaseURL   string  // Optional override, used by tests
	RateLimit float64 // Requests per minute
	Timeout   time.Duration
	Enabled   bool
}

// RegistryConfig is the provider section of application config.
type RegistryConfig struct {
	LLMProviders map[string]LLMProviderConfig
	DefaultLLM   string
}

// Registry holds configured LLM clients and the default selection.
type Registry struct {
	mu         sync.RWMutex
	llm        map[string]LLMClient
	defaultLLM string
	logger     *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		llm:    make(map[string]LLMClient),
		logger: slog.Default(),
	}
}

// SetLogger sets the registry logger.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if logger != nil {
		r.logger = logger
	}
}

// RegisterLLM adds or replaces a client under the given name.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llm[name] = client
	if r.defaultLLM == "" {
		r.defaultLLM = name
	}
}

// LLM returns the client registered under name.
func (r *Registry) LLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.llm[name]
	if !ok {
		return nil, fmt.Errorf("llm provider %q not registered", name)
	}
	return c, nil
}

// DefaultLLM returns the default client.
func (r *Registry) DefaultLLM() (LLMClient, error) {
	r.mu.RLock()
	name := r.defaultLLM
	r.mu.RUnlock()
	if name == "" {
		return nil, fmt.Errorf("no llm provider configured")
	}
	return r.LLM(name)
}

// ListLLM returns the names of registered clients, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llm))
	for name := range r.llm {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload rebuilds clients from configuration. Called at startup and from
// the config manager's change callback.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.llm = make(map[string]LLMClient, len(cfg.LLMProviders))
	for name, pc := range cfg.LLMProviders {
		if !pc.Enabled {
			continue
		}
		client, err := buildLLMClient(pc)
		if err != nil {
			r.logger.Warn("skipping llm provider", "name", name, "error", err)
			continue
		}
		r.llm[name] = client
	}

	r.defaultLLM = cfg.DefaultLLM
	if r.defaultLLM == "" {
		// Fall back to the first registered provider, deterministic order.
		names := make([]string, 0, len(r.llm))
		for name := range r.llm {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(names) > 0 {
			r.defaultLLM = names[0]
		}
	}
}

func buildLLMClient(pc LLMProviderConfig) (LLMClient, error) {
	switch pc.Type {
	case "gemini":
		return NewGeminiClient(GeminiConfig{
			APIKey:       pc.APIKey,
			BaseURL:      pc.BaseURL,
			DefaultModel: pc.Model,
			Timeout:      pc.Timeout,
			RPM:          int(pc.RateLimit),
		}), nil
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       pc.APIKey,
			BaseURL:      pc.BaseURL,
			DefaultModel: pc.Model,
			Timeout:      pc.Timeout,
			RPM:          int(pc.RateLimit),
		}), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider type %q", pc.Type)
	}
}
