package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/industrialpartner/storefront-backend/api/routes"
	"github.com/industrialpartner/storefront-backend/internal/cart"
	"github.com/industrialpartner/storefront-backend/internal/catalog"
	"github.com/industrialpartner/storefront-backend/internal/featured"
	"github.com/industrialpartner/storefront-backend/internal/quotes"
	"github.com/industrialpartner/storefront-backend/internal/sitemap"
	"github.com/industrialpartner/storefront-backend/pkg/config"
	"github.com/industrialpartner/storefront-backend/pkg/db"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
	"github.com/industrialpartner/storefront-backend/pkg/metrics"
	"github.com/industrialpartner/storefront-backend/pkg/redis"
	"github.com/industrialpartner/storefront-backend/pkg/session"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	upstreamMetrics := metrics.NewUpstreamMetrics(prometheus.DefaultRegisterer)

	catalogClient, err := catalog.NewClient(cfg.Upstream, logg, upstreamMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create catalog client", err)
		os.Exit(1)
	}

	sessionStore, err := session.NewRedisStore(redisClient, cfg.Session)
	if err != nil {
		logg.Error(ctx, "failed to create session store", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.Params{
		Store:             sessionStore,
		Products:          catalogClient,
		SurfaceLookupMiss: cfg.Cart.SurfaceLookupMiss,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	quoteService, err := quotes.NewService(quotes.Params{
		Client: catalogClient,
		Store:  sessionStore,
		Logger: logg,
		Source: cfg.Upstream.QuoteSource,
	})
	if err != nil {
		logg.Error(ctx, "failed to create quote service", err)
		os.Exit(1)
	}

	featuredService, err := featured.NewService(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to create featured service", err)
		os.Exit(1)
	}

	sitemapService, err := sitemap.NewService(catalogClient)
	if err != nil {
		logg.Error(ctx, "failed to create sitemap service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			catalogClient,
			cartService,
			quoteService,
			featuredService,
			sitemapService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeErr := multierr.Combine(
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(ctx, "error closing dependencies", closeErr)
		os.Exit(1)
	}
}
