package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/brickbuilder/internal/catalog"
	"github.com/lehigh-university-libraries/brickbuilder/internal/config"
	"github.com/lehigh-university-libraries/brickbuilder/internal/handlers"
	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var port string
	var staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the brick identification gateway",
		Long: `Starts the HTTP gateway that identifies bricks with the configured vision
provider and proxies part and set lookups to Rebrickable.

Provider and catalog settings come from the environment (or .env):
VISION_PROVIDER, VISION_MODEL, ANTHROPIC_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY,
OLLAMA_URL, REBRICKABLE_API_KEY.`,
		Example: `  # Start server on default port 3001
  brickbuilder serve

  # Start server on custom port and serve a built frontend
  brickbuilder serve --port 8080 --static ./frontend/dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("static") {
				cfg.StaticDir = staticDir
			}

			provider, err := identify.NewProvider(*cfg)
			if err != nil {
				return err
			}
			identifier := identify.NewService(provider, cfg.VisionModel)
			catalogService := catalog.NewService(catalog.NewClient(cfg.RebrickableBaseURL, cfg.RebrickableAPIKey))
			if cfg.RebrickableAPIKey == "" {
				slog.Warn("REBRICKABLE_API_KEY not set, part and set lookups will report the catalog as not configured")
			}

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handlers.New(identifier, catalogService, cfg.StaticDir).Routes(),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Brick Builder gateway available", "addr", addr, "url", "http://localhost"+addr, "provider", provider.Name(), "model", cfg.VisionModel)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "3001", "Port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory of a built frontend to serve at / (overrides STATIC_DIR)")

	return cmd
}
