package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ojuansoares/dolse-vitta/configs"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/cache"
	api "github.com/ojuansoares/dolse-vitta/internal/adapter/http"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/http/middleware"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/identity"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/repo"
	"github.com/ojuansoares/dolse-vitta/internal/logging"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// worker is a background loop that returns when ctx is done.
type worker func(ctx context.Context) error

type App struct {
	cfg     configs.Config
	log     *slog.Logger
	http    *http.Server
	grpc    *grpc.Server
	health  *health.Server
	workers []worker
}

// InitWithConfig connects every backing service and wires the use cases.
// The returned cleanup closes connections in reverse order and is safe to
// call more than once.
func InitWithConfig(ctx context.Context, cfg configs.Config) (*App, func(), error) {
	log := logging.New("app")
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		closers = nil
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	// init database
	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	db, err := repo.Open(pingCtx, cfg.Database.Driver, cfg.Database.DSN, repo.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	cancel()
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = db.Close() })
	log.Info("database connected", "driver", cfg.Database.Driver)

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	closers = append(closers, func() { _ = rdb.Close() })
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fail(fmt.Errorf("redis ping: %w", err))
	}

	// infra
	catalogRepo := repo.NewSQLCatalogRepo(db)
	orderRepo := repo.NewSQLOrderRepo(db)
	profileRepo := repo.NewSQLSiteProfileRepo(db)
	adminRepo := repo.NewSQLAdminRepo(db)

	listing := cache.NewListingCache(catalogRepo, rdb, cfg.Cache.ListingTTL)
	summaries := cache.NewRedisSummaryCache(rdb, cfg.Cache.SummaryTTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)

	a := &App{cfg: cfg, log: log}

	var orderEvents usecase.OrderEvents
	if cfg.Rabbit.Enabled {
		producer, w, closeRabbit, err := setupRabbit(cfg, summaries)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, closeRabbit)
		orderEvents = producer
		a.workers = append(a.workers, w)
	}

	var catalogEvents usecase.CatalogEvents
	if cfg.Kafka.Enabled {
		producer, w, closeKafka, err := setupKafka(cfg, listing)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, closeKafka)
		catalogEvents = producer
		a.workers = append(a.workers, w)
	}

	format := summaryFormat(cfg)

	// use cases
	checkoutOpts := []usecase.CheckoutOption{
		usecase.WithIdempotency(idem),
		usecase.WithSummaryFormat(format),
		usecase.WithDefaultDestination(cfg.Checkout.DefaultDestination),
	}
	if orderEvents != nil {
		checkoutOpts = append(checkoutOpts, usecase.WithOrderEvents(orderEvents))
	}
	checkoutUC := usecase.NewCheckout(catalogRepo, orderRepo, profileRepo, checkoutOpts...)
	catalogUC := usecase.NewCatalog(listing, catalogEvents)
	ordersUC := usecase.NewOrders(catalogRepo, orderRepo, summaries, format)
	profileUC := usecase.NewSiteProfile(profileRepo)
	authUC := usecase.NewAuth(identity.NewClient(cfg.Identity.URL, cfg.Identity.AnonKey, cfg.Identity.RequestTimeout), adminRepo)

	// init handlers + routers + middleware
	timeout := cfg.Checkout.Timeout
	router := api.NewRouter(api.Handlers{
		Checkout: api.NewCheckoutHandler(checkoutUC, timeout),
		Catalog:  api.NewCatalogHandler(catalogUC, timeout),
		Orders:   api.NewOrderHandler(ordersUC, timeout),
		Profile:  api.NewProfileHandler(profileUC, timeout),
		Auth:     api.NewAuthHandler(authUC, cfg.Identity.RequestTimeout+time.Second),
	}, middleware.NewAuthz(cfg.Identity.JWTSecret, cfg.Identity.Audience))

	a.http = &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	a.grpc, a.health = newGRPCServer()

	return a, cleanup, nil
}

// Run serves HTTP and gRPC and runs the background workers until ctx is
// cancelled or one of them fails, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("http listening", "addr", a.http.Addr)
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.cfg.App.GRPCAddr != "" {
		lis, err := net.Listen("tcp", a.cfg.App.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		g.Go(func() error {
			a.log.Info("grpc listening", "addr", lis.Addr().String())
			if err := a.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	for _, w := range a.workers {
		g.Go(func() error {
			if err := w(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down")
		a.health.Shutdown()

		timeout := a.cfg.HTTP.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := a.http.Shutdown(sctx)
		a.grpc.GracefulStop()
		return err
	})

	return g.Wait()
}

func summaryFormat(cfg configs.Config) usecase.SummaryFormat {
	return usecase.SummaryFormat{
		Title:         cfg.Checkout.Title,
		CustomerLabel: cfg.Checkout.CustomerLabel,
		ItemsLabel:    cfg.Checkout.ItemsLabel,
		TotalLabel:    cfg.Checkout.TotalLabel,
		Closing:       cfg.Checkout.Closing,
		Currency:      cfg.Checkout.Currency,
		Emphasis:      cfg.Checkout.Emphasis,
	}
}
