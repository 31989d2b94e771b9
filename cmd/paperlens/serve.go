package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens/internal/config"
	"github.com/paperlens/paperlens/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PaperLens server",
	Long: `Start the PaperLens HTTP server.

The server provides:
  - /api/analyze-paper - Analyze an uploaded PDF or Word document
  - /api/analyze-video - Analyze a YouTube video's transcript
  - /health, /ready, /status - Health and readiness checks

Configuration is hot-reloaded when the config file changes; edits to
provider API keys or the default provider take effect without restart.

Examples:
  paperlens serve                    # Start on default port 8080
  paperlens serve --port 3000        # Start on custom port
  paperlens serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		host := serveHost
		port := servePort
		if !cmd.Flags().Changed("host") && cfgMgr.Get().Server.Host != "" {
			host = cfgMgr.Get().Server.Host
		}
		if !cmd.Flags().Changed("port") && cfgMgr.Get().Server.Port != "" {
			port = cfgMgr.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: cfgMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
