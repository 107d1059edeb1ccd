package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ihuusa2/ihu-usa-sub002/internal/adapter/repo"
	"github.com/ihuusa2/ihu-usa-sub002/internal/donations"
	"github.com/ihuusa2/ihu-usa-sub002/internal/http/handlers"
	httpapi "github.com/ihuusa2/ihu-usa-sub002/internal/http/httpapi"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra/credentials"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra/geoip"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra/google"
	"github.com/ihuusa2/ihu-usa-sub002/internal/providers/paypal"
	"github.com/ihuusa2/ihu-usa-sub002/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := infra.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("auto migrate failed")
		}
		logger.Info().Msg("migrations applied")
	}

	dbpool, err := infra.NewDBPool(ctx, cfg, "api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	tokens := credentials.NewStore(runner)

	var payments donations.PaymentProvider
	if cfg.PayPalEnabled() {
		payments = paypal.NewClient(paypal.Options{
			ClientID:     cfg.PayPalClientID,
			ClientSecret: cfg.PayPalClientSecret,
			BaseURL:      cfg.PayPalBaseURL,
			Secrets:      tokens,
			Logger:       &logger,
		})
	} else {
		logger.Warn().Msg("PAYPAL_CLIENT_ID not set; checkout endpoints are disabled")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip database unavailable")
	}
	defer resolver.Close()

	media, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}

	app := &handlers.App{
		Logger:     logger,
		JWTSecret:  cfg.JWTSecret,
		Donations:  donations.NewService(repo.NewDonationRepository(runner), payments, logger),
		Volunteers: repo.NewVolunteerRepository(runner),
		Users:      repo.NewUserRepository(runner),
		Content:    repo.NewContentRepository(runner),
		Stats:      repo.NewStatsRepository(runner),
		Media:      media,
		Google:     google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID, &http.Client{Timeout: cfg.HTTPReadTimeout}),
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   resolver.Lookup(),
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       media.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().Str("addr", server.Addr()).Bool("payments", payments != nil).Msg("API listening")
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		return
	}
	logger.Info().Msg("server stopped")
}
