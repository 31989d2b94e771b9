// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/paperlens/paperlens/internal/analysis"
	"github.com/paperlens/paperlens/internal/extract"
	"github.com/paperlens/paperlens/internal/providers"
	"github.com/paperlens/paperlens/internal/youtube"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Extractor   *extract.Extractor
	Transcripts *youtube.TranscriptClient
	Videos      *youtube.MetadataClient
	Analyzer    *analysis.Analyzer
	Registry    *providers.Registry
	Logger      *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ExtractorFrom extracts the document extractor from context.
func ExtractorFrom(ctx context.Context) *extract.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Extractor
	}
	return nil
}

// TranscriptsFrom extracts the transcript client from context.
func TranscriptsFrom(ctx context.Context) *youtube.TranscriptClient {
	if s := ServicesFrom(ctx); s != nil {
		return s.Transcripts
	}
	return nil
}

// VideosFrom extracts the video metadata client from context.
func VideosFrom(ctx context.Context) *youtube.MetadataClient {
	if s := ServicesFrom(ctx); s != nil {
		return s.Videos
	}
	return nil
}

// AnalyzerFrom extracts the analyzer from context.
func AnalyzerFrom(ctx context.Context) *analysis.Analyzer {
	if s := ServicesFrom(ctx); s != nil {
		return s.Analyzer
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
