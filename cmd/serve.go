package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/bokul-dev/folio/internal/config"
	"github.com/bokul-dev/folio/internal/handlers"
	"github.com/bokul-dev/folio/internal/media"
)

func newServeCmd() *cobra.Command {
	var port int
	var noChat bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long: `Starts the dashboard API on the configured port.

The API pages the project list, opens edit drafts, stages and orders images,
serves local previews of staged images and, unless disabled, the chat assistant.`,
		Example: `  # Start server on the configured port (default 8888)
  folio serve

  # Start server on a custom port without the chat assistant
  folio serve --port 3000 --no-chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Merge(&config.Config{Server: config.ServerConfig{Port: port}})
			}

			limits := cfg.Images.Limits()
			previews, err := media.NewPreviewStore(cfg.Server.PreviewDir, "/previews")
			if err != nil {
				return err
			}

			opts := handlers.Options{
				API:      newClient(),
				Previews: previews,
				Fetcher:  media.NewFetcher(limits.MaxSizeBytes),
				Limits:   limits,
			}
			if !noChat {
				manager, err := newChatManager()
				if err != nil {
					return fmt.Errorf("failed to start chat: %w", err)
				}
				opts.Chat = manager
			}

			handler := handlers.New(opts)
			defer handler.Close()

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Folio dashboard API available", "addr", addr, "url", "http://localhost"+addr, "api", cfg.API.URL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
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

	cmd.Flags().IntVarP(&port, "port", "p", 8888, "Port to listen on")
	cmd.Flags().BoolVar(&noChat, "no-chat", false, "Disable the chat assistant routes")

	return cmd
}
