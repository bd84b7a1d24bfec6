package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SewarRihani/OnlineLabelingApp/internal/catalog"
	"github.com/SewarRihani/OnlineLabelingApp/internal/handlers"
	"github.com/SewarRihani/OnlineLabelingApp/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the labeling web interface",
		Long: `Starts the labeling web interface.

The audio directory is scanned once at startup for .wav and .mp3 files. When
it does not exist and an archive is configured, the archive is extracted into
it first. A missing directory and archive is a startup error.`,
		Example: `  # Start server on default port 8888
  labeler serve

  # Start server on custom port with audio extracted from an archive
  labeler serve --port 3000 --audio-dir ./data --archive ./data.zip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			applyCatalogFlags(cmd, &cfg)
			overrideString(cmd, "port", &cfg.Port)

			if err := catalog.Materialize(cfg.AudioDir, cfg.Archive); err != nil {
				return err
			}
			files, err := catalog.Scan(cfg.AudioDir, cfg.Extensions)
			if err != nil {
				return err
			}
			slog.Info("Audio catalog loaded", "root", cfg.AudioDir, "files", len(files))

			sessions := storage.New()
			handler := handlers.New(files, storage.NewLabelStore(cfg.LabelsDir), sessions, cfg.MaxUploadBytes)

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go sweepSessions(ctx, sessions, cfg.SessionTTL)

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Labeling interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
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
				return fmt.Errorf("server failed: %w", err)
			}
		},
	}

	addCatalogFlags(cmd)
	cmd.Flags().StringP("port", "p", "", "Port to listen on (default from config: 8888)")

	return cmd
}

// sweepSessions evicts idle browser sessions until ctx is done
func sweepSessions(ctx context.Context, sessions *storage.SessionStore, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(ttl); n > 0 {
				slog.Info("Expired idle sessions", "count", n, "active", sessions.Len())
			}
		}
	}
}
