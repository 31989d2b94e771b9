package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/paperlens/paperlens/internal/providers"
	"github.com/paperlens/paperlens/internal/testutil"
)

func TestServerLifecycle(t *testing.T) {
	cfg := testutil.NewServerConfig(t)

	srv, err := New(Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		Logger: cfg.Logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	if err := testutil.WaitForServer(cfg.URL(), 5*time.Second); err != nil {
		t.Fatalf("server never became healthy: %v", err)
	}
	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}

	t.Run("health endpoint", func(t *testing.T) {
		resp, err := testutil.HTTPClient().Get(cfg.URL() + "/health")
		if err != nil {
			t.Fatalf("GET /health error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})

	t.Run("ready reflects provider registration", func(t *testing.T) {
		resp, err := testutil.HTTPClient().Get(cfg.URL() + "/ready")
		if err != nil {
			t.Fatalf("GET /ready error = %v", err)
		}
		resp.Body.Close()
		// No providers configured without a config manager.
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503 before providers exist", resp.StatusCode)
		}

		srv.Registry().RegisterLLM("mock", providers.NewMockClient())

		resp, err = testutil.HTTPClient().Get(cfg.URL() + "/ready")
		if err != nil {
			t.Fatalf("GET /ready error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200 after registration", resp.StatusCode)
		}
	})

	t.Run("status endpoint", func(t *testing.T) {
		resp, err := testutil.HTTPClient().Get(cfg.URL() + "/status")
		if err != nil {
			t.Fatalf("GET /status error = %v", err)
		}
		defer resp.Body.Close()

		var status struct {
			Server    string `json:"server"`
			Providers struct {
				LLM []string `json:"llm"`
			} `json:"providers"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			t.Fatalf("failed to decode status: %v", err)
		}
		if status.Server != "ok" {
			t.Errorf("server = %q", status.Server)
		}
	})

	// Graceful shutdown.
	cancel()
	if err := testutil.WaitForShutdown(done, 10*time.Second); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestServerDoubleStart(t *testing.T) {
	cfg := testutil.NewServerConfig(t)
	srv, err := New(Config{Host: cfg.Host, Port: cfg.Port, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	if err := testutil.WaitForServer(cfg.URL(), 5*time.Second); err != nil {
		t.Fatalf("server never started: %v", err)
	}

	if err := srv.Start(ctx); err == nil {
		t.Error("second Start() should fail while running")
	}

	cancel()
	if err := testutil.WaitForShutdown(done, 10*time.Second); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}
}
