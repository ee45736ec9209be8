package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fatali-fataliyev/club_treasury/api"
	"github.com/fatali-fataliyev/club_treasury/internal/config"
	"github.com/fatali-fataliyev/club_treasury/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := logging.Init(logging.Options{
				Level:  cfg.Log.Level,
				AppEnv: cfg.AppEnv,
				Dir:    cfg.Log.Dir,
			}); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func newHandler(cfg *config.Config, a *app) http.Handler {
	corsConf := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})
	return corsConf.Handler(api.Routes(api.NewApi(a.treasury)))
}

func serve(ctx context.Context, cfg *config.Config) error {
	logging.Logger.Info("application starting...")

	a := newApp(cfg)

	if cfg.Session.SweepInterval > 0 {
		go a.registry.RunSweeper(ctx, cfg.Session.SweepInterval)
		logging.Logger.WithField("interval", cfg.Session.SweepInterval).Info("session sweep enabled")
	}

	server := &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      newHandler(cfg, a),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.WithFields(logrus.Fields{
			"port":          cfg.Port,
			"data_dir":      cfg.Data.Dir,
			"session_store": a.sessions.GetStorageType(),
		}).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
