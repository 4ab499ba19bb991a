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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/routes"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/auth"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/cart"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/catalog"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/orders"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/settings"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/auth/session"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/cache"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/instance"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/metrics"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/migrate"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing connections", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefront(registry)

	viewTTL := cfg.Cache.ViewTTL
	if !cfg.Cache.Enabled {
		viewTTL = 0
	}
	views, err := cache.New(redisClient, viewTTL, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create view cache", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		views,
		logg,
		cfg.Catalog.DefaultImageURL,
		cfg.Catalog.RecentLimit,
	)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), views, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	cartEngine, err := cart.NewEngine(cart.NewRedisStorage(redisClient, cfg.Cart.TTL), logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create cart engine", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartEngine, catalogService, ordersService, logg)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Settings:           settings.NewRepository(dbClient.DB()),
		Sessions:           sessionManager,
		SessionConfig:      cfg.Session,
		FallbackPassphrase: cfg.Admin.Passphrase,
		Logger:             logg,
		Metrics:            storefrontMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})
	logg.Info(srvCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			catalogService,
			cartService,
			ordersService,
			authService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(srvCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(srvCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(srvCtx, "graceful shutdown failed", err)
		}
	}
}
