package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/betterchoicedev/checkout-api/internal/adapter/repo"
	"github.com/betterchoicedev/checkout-api/internal/cache"
	"github.com/betterchoicedev/checkout-api/internal/catalog"
	"github.com/betterchoicedev/checkout-api/internal/checkout"
	"github.com/betterchoicedev/checkout-api/internal/domain"
	"github.com/betterchoicedev/checkout-api/internal/gateway/stripe"
	"github.com/betterchoicedev/checkout-api/internal/http/handlers"
	httpapi "github.com/betterchoicedev/checkout-api/internal/http/httpapi"
	"github.com/betterchoicedev/checkout-api/internal/infra"
	"github.com/betterchoicedev/checkout-api/internal/infra/geoip"
	"github.com/betterchoicedev/checkout-api/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Optional Postgres pool for the checkout-attempt audit trail.
	var attempts domain.CheckoutAttemptRepository
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	if dbpool != nil {
		defer dbpool.Close()
		attempts = repo.NewCheckoutAttemptRepository(infra.NewSQLRunner(dbpool, logger))
	}

	// Optional Redis-backed subscription cache.
	var subsCache cache.SubscriptionCache
	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		subsCache = cache.NewRedisCache(redisClient)
	}

	// Optional GeoIP country resolution for locale and currency selection.
	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	gateway, err := stripe.NewClient(stripe.Options{
		BaseURL:        cfg.PaymentAPIBaseURL,
		PublishableKey: cfg.StripePublishableKey,
		Logger:         &logger,
		RequestTimeout: cfg.GatewayTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build payment gateway client")
	}

	cat := catalog.New()
	coordinator := checkout.NewCoordinator(cat, gateway, attempts, logger, checkout.Config{
		OneTimePriceID: cfg.OneTimePriceID,
		SuccessURL:     cfg.CheckoutSuccessURL,
		CancelURL:      cfg.CheckoutCancelURL,
		LoginURL:       cfg.LoginURL,
	})

	app := handlers.NewApp(cat, coordinator, gateway, subsCache, logger)

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		DefaultLocale:   cfg.DefaultLocale,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   lookup,
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
