package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/woolshed/flockmark/internal/adapters/http/api"
	"github.com/woolshed/flockmark/internal/app"
	"github.com/woolshed/flockmark/internal/config"
	"github.com/woolshed/flockmark/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the flockmark HTTP service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}
	log := logger.Get()

	opts := []app.Option{
		app.WithWorkerCount(cfg.ScoringWorkers),
	}
	if cfg.RubricPath != "" {
		rubric, err := config.LoadRubric(cfg.RubricPath)
		if err != nil {
			return fmt.Errorf("load rubric: %w", err)
		}
		opts = append(opts, app.WithRubric(rubric))
	}
	if cfg.RubricDBPath != "" {
		opts = append(opts, app.WithRubricDB(cfg.RubricDBPath))
	}

	service := app.New(opts...)
	if err := service.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer service.Stop()

	mux := http.NewServeMux()
	server := api.NewServer(service, api.WithTopLimit(cfg.MaxTopLimit))
	server.Register(mux)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server listening", logger.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
