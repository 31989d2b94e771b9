// Package endpoints defines the HTTP API surface. Each endpoint pairs its
// route with the cobra command that calls it, so the CLI and server never
// drift apart.
package endpoints

import (
	"github.com/paperlens/paperlens/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Analysis endpoints
		&AnalyzePaperEndpoint{},
		&AnalyzeVideoEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}

// AnalysisCommands returns the endpoints exposed under the "api" command
// group.
func AnalysisCommands() []api.Endpoint {
	return []api.Endpoint{
		&AnalyzePaperEndpoint{},
		&AnalyzeVideoEndpoint{},
	}
}

// HealthCommands returns the health-related endpoints for CLI grouping.
func HealthCommands() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},
		&SwaggerEndpoint{},
	}
}
