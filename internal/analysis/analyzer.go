// Package analysis builds prompts, delegates to an LLM provider, and parses
// the structured markdown that comes back.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paperlens/paperlens/internal/providers"
)

// DefaultMaxPromptChars bounds the document text included in a prompt.
// Longer inputs are truncated silently, matching the upstream contract.
const DefaultMaxPromptChars = 30000

// Analyzer turns extracted text into a markdown analysis via the
// configured LLM provider.
type Analyzer struct {
	registry *providers.Registry
	maxChars int
	logger   *slog.Logger
}

// Config holds analyzer configuration.
type Config struct {
	// Registry supplies the LLM client. The default provider is resolved
	// per call so config hot-reload takes effect without restart.
	Registry *providers.Registry
	// MaxPromptChars caps document text in prompts (default: 30000).
	MaxPromptChars int
	Logger         *slog.Logger
}

// New creates an Analyzer.
func New(cfg Config) *Analyzer {
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = DefaultMaxPromptChars
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Analyzer{
		registry: cfg.Registry,
		maxChars: cfg.MaxPromptChars,
		logger:   cfg.Logger,
	}
}

// AnalyzePaper returns the raw markdown analysis of a paper's text.
func (a *Analyzer) AnalyzePaper(ctx context.Context, text string) (string, error) {
	return a.run(ctx, paperPrompt(truncate(text, a.maxChars)))
}

// AnalyzeVideo returns the raw markdown analysis of a video transcript.
func (a *Analyzer) AnalyzeVideo(ctx context.Context, videoID, transcript string) (string, error) {
	return a.run(ctx, videoPrompt(videoID, truncate(transcript, a.maxChars)))
}

func (a *Analyzer) run(ctx context.Context, prompt string) (string, error) {
	client, err := a.registry.DefaultLLM()
	if err != nil {
		return "", fmt.Errorf("analysis: %w", err)
	}

	result, err := client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("analysis: %w", err)
	}

	a.logger.Debug("analysis complete",
		"provider", result.Provider,
		"model", result.ModelUsed,
		"tokens", result.TotalTokens,
		"duration", result.ExecutionTime)

	return result.Content, nil
}

// truncate bounds s to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
