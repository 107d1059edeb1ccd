package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ihuusa2/ihu-usa-sub002/internal/adapter/repo"
	"github.com/ihuusa2/ihu-usa-sub002/internal/donations"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra/credentials"
	"github.com/ihuusa2/ihu-usa-sub002/internal/providers/paypal"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	if !cfg.PayPalEnabled() {
		logger.Fatal().Msg("worker: PAYPAL_CLIENT_ID is required to reconcile donations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg, "worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	client := paypal.NewClient(paypal.Options{
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		BaseURL:      cfg.PayPalBaseURL,
		Secrets:      credentials.NewStore(runner),
		Logger:       &logger,
	})
	svc := donations.NewService(repo.NewDonationRepository(runner), client, logger)

	reconciler, err := donations.NewReconciler(svc, donations.ReconcilerOptions{
		StaleAfter:  cfg.ReconcileStale,
		ExpireAfter: cfg.ReconcileExpire,
		BatchSize:   cfg.ReconcileBatchSize,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: reconciler setup failed")
	}

	if err := reconciler.Run(ctx, cfg.ReconcileInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("worker stopped with error")
		return
	}
	logger.Info().Msg("worker stopped")
}
