package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the companion HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer log.Close()

			if port > 0 {
				cfg.Server.HTTPPort = port
			}

			log.Info("Starting holidaze-booking %s...", Version)
			log.Info("Configuration loaded from %s (policy=%s)", opts.configPath, cfg.Booking.OverlapPolicy)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Токен пользователя приходит в каждом запросе, middleware кладет его в контекст
			a, err := newApp(ctx, cfg, log, credentials.NewContext(), prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}
			defer a.close()

			addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
			srv := &http.Server{
				Addr:         addr,
				Handler:      newRouter(a, promhttp.Handler()),
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("Starting server on %s", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			// Ожидаем сигнал завершения или падение сервера
			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("server failed to start: %w", err)
				}
			case <-ctx.Done():
			}

			log.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
			)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("Server forced to shutdown: %v", err)
			}

			log.Info("Server stopped gracefully")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server.http_port")
	return cmd
}
