package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/catalog"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/orders"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/settings"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/cache"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/redis"
)

// services is what the operator commands act on.
type services struct {
	settings *settings.Repository
	catalog  catalog.Service
	orders   orders.Service
	password config.PasswordConfig
	close    func() error
}

type bootstrapFunc func(ctx context.Context) (*services, error)

type rootOptions struct {
	jsonOutput bool
	bootstrap  bootstrapFunc
}

func newRootCmd(bootstrap bootstrapFunc) *cobra.Command {
	opts := &rootOptions{bootstrap: bootstrap}

	root := &cobra.Command{
		Use:   "storefrontctl",
		Short: "Operator tasks for the Toppers Toolkit storefront",
		Long: `storefrontctl runs the operator tasks that have no admin page:
setting the admin passphrase and working the order queue from a shell.

It reads the same TOPPERS_* environment (and .env file) as the API.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newPassphraseCmd(opts),
		newOrdersCmd(opts),
		newNotesCmd(opts),
	)
	return root
}

// withServices bootstraps dependencies for the duration of fn. Errors from
// releasing them are reported alongside the command's own.
func (o *rootOptions) withServices(ctx context.Context, fn func(*services) error) (err error) {
	svc, err := o.bootstrap(ctx)
	if err != nil {
		return err
	}
	if svc.close != nil {
		defer func() {
			err = multierr.Append(err, svc.close())
		}()
	}
	return fn(svc)
}

func (o *rootOptions) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// bootstrapFromEnv wires the services against the configured database and
// Redis. Redis is only used to invalidate cached views after writes.
func bootstrapFromEnv(ctx context.Context) (*services, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "storefrontctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	closers := []func() error{dbClient.Close}

	var views *cache.ViewCache
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Warn(ctx, "redis unavailable, cached views will expire on their own: "+err.Error())
	} else {
		closers = append(closers, redisClient.Close)
		views, err = cache.New(redisClient, cfg.Cache.ViewTTL, logg, nil)
		if err != nil {
			return nil, err
		}
	}

	var orderViews cache.Views = cache.Nop{}
	catalogRepo := catalog.NewRepository(dbClient.DB())
	var catalogService catalog.Service
	if views != nil {
		orderViews = views
		catalogService, err = catalog.NewService(catalogRepo, views, logg, cfg.Catalog.DefaultImageURL, cfg.Catalog.RecentLimit)
	} else {
		catalogService, err = catalog.NewService(catalogRepo, nil, logg, cfg.Catalog.DefaultImageURL, cfg.Catalog.RecentLimit)
	}
	if err != nil {
		return nil, err
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), orderViews, logg, nil)
	if err != nil {
		return nil, err
	}

	return &services{
		settings: settings.NewRepository(dbClient.DB()),
		catalog:  catalogService,
		orders:   ordersService,
		password: cfg.Password,
		close: func() error {
			var errs error
			for _, c := range closers {
				errs = multierr.Append(errs, c())
			}
			return errs
		},
	}, nil
}
