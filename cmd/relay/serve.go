package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/api"
	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/internal/logging"
	"github.com/jafarshop/paymentrelay/internal/service"
	"github.com/jafarshop/paymentrelay/internal/telemetry"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	warnMissingCredentials(cfg, logger)

	shutdownTracing, err := telemetry.Setup(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	catalog, err := domain.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	svcs := service.NewServices(cfg, catalog, logger)
	router := api.NewRouter(cfg, svcs, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.Addr()),
			zap.String("environment", cfg.Environment),
			zap.String("paypal_base_url", cfg.PayPal.BaseURL),
			zap.Int("flavors", len(catalog.Flavors())),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("Server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("Failed to flush traces", zap.Error(err))
	}
	logger.Info("Server stopped")
	return nil
}

// warnMissingCredentials makes a missing secret obvious at startup. The
// affected endpoints still answer, with a 500 naming the setting.
func warnMissingCredentials(cfg *config.Config, logger *zap.Logger) {
	if cfg.PayPal.ClientID != "" {
		logger.Info("PayPal client configured", zap.String("client_id", cfg.PayPal.ClientID))
	}
	if !cfg.PayPal.Configured() {
		logger.Warn("PAYPAL_SECRET is not set, PayPal endpoints will fail")
	}
	if !cfg.Stripe.Configured() {
		logger.Warn("STRIPE_SECRET_KEY is not set, Stripe endpoints will fail")
	}
}
