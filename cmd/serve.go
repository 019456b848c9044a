package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/handlers"
	"github.com/amirphl/affiliate-rhonat/app/middleware"
	"github.com/amirphl/affiliate-rhonat/app/router"
	"github.com/amirphl/affiliate-rhonat/app/services"
	"github.com/amirphl/affiliate-rhonat/app/services/authz"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/amirphl/affiliate-rhonat/repository/datasvc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the redirect, sale recording and reporting HTTP server",
	RunE:  runServe,
}

// Application represents the running service
type Application struct {
	router     router.Router
	config     *config.AppConfig
	metrics    *http.Server
	stopFuncs  []func()
	// closeFuncs release the store and cache once in-flight requests are done
	closeFuncs []func()
}

func runServe(cmd *cobra.Command, args []string) error {
	logging.Info().
		Str("service", cfg.Deployment.ServiceName).
		Str("version", cfg.Deployment.Version).
		Str("environment", cfg.Deployment.Environment).
		Msg("Starting affiliate service...")

	app, err := initializeApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			serverErr <- err
		}
	}()

	if app.metrics != nil {
		go func() {
			logging.Info().Str("address", app.metrics.Addr).Msg("Metrics server starting")
			if err := app.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	var runErr error
	select {
	case <-sigChan:
		logging.Info().Msg("Shutting down gracefully...")
	case runErr = <-serverErr:
		logging.Error().Err(runErr).Msg("Server failed")
	}

	app.shutdown()

	logging.Info().Msg("Server stopped")
	return runErr
}

func (a *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.router.GetApp().ShutdownWithContext(ctx); err != nil {
		logging.Error().Err(err).Msg("Error during shutdown")
	}
	if a.metrics != nil {
		if err := a.metrics.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("Error stopping metrics server")
		}
	}

	for _, fn := range a.stopFuncs {
		fn()
	}
	for _, fn := range a.closeFuncs {
		fn()
	}
}

// initializeStore picks the repositories behind the data service driver.
// It returns a nil store when the data service is not configured; the
// attribution endpoints then answer with a configuration error.
func initializeStore(cfg config.DataServiceConfig) (*repository.Store, func(), error) {
	if !cfg.Configured() {
		logging.Warn().Strs("missing", cfg.MissingKeys()).Msg("Data service is not configured")
		return nil, func() {}, nil
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := initializeDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewPostgresStore(db), closeDB, nil
	default:
		client := datasvc.NewClient(cfg.URL, cfg.ServiceRoleKey, datasvc.Options{
			Timeout:            cfg.Timeout,
			BreakerMaxFailures: cfg.BreakerMaxFailures,
			BreakerOpenTimeout: cfg.BreakerOpenTimeout,
		})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			// the hosted service may come up later; requests report their own failures
			logging.Warn().Err(err).Str("url", cfg.URL).Msg("Data service is not reachable yet")
		}

		logging.Info().Str("url", cfg.URL).Msg("Data service client initialized")
		return datasvc.NewStore(client), func() {}, nil
	}
}

// initializeDatabase opens the pooled gorm connection used by the postgres driver
func initializeDatabase(cfg config.DataServiceConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		Logger: logger.New(gormLogWriter{}, logger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Int("max_idle_conns", cfg.MaxIdleConns).
		Msg("Database connection established")

	return db, nil
}

// gormLogWriter routes gorm's slow query and error lines into zerolog
type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...any) {
	logging.Warn().Str("component", "gorm").Msgf(format, args...)
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.RedisDB != 0 {
		opt.DB = cfg.RedisDB
	}

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logging.Info().Str("addr", opt.Addr).Int("db", opt.DB).Msg("Redis connection established")
	return rc, nil
}

// initializeAuth builds token verification and route authorization for the
// reporting API. It returns nil when no verification key is configured.
func initializeAuth(cfg *config.AppConfig) (*middleware.AuthMiddleware, error) {
	if !cfg.JWT.Enabled() {
		return nil, nil
	}

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.DefaultRole,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	enforcer, err := authz.NewEnforcer(cfg.Authz.ModelPath, cfg.Authz.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authorization: %w", err)
	}

	logging.Info().Str("issuer", cfg.JWT.Issuer).Str("audience", cfg.JWT.Audience).Msg("Token verification initialized")
	return middleware.NewAuthMiddleware(tokenService, enforcer), nil
}

func newMetricsServer(cfg config.MetricsConfig) *http.Server {
	if !cfg.Enabled {
		return nil
	}
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.AppConfig) (*Application, error) {
	var stopFuncs, closeFuncs []func()
	release := func() {
		for _, fn := range stopFuncs {
			fn()
		}
		for _, fn := range closeFuncs {
			fn()
		}
	}

	store, closeStore, err := initializeStore(cfg.DataService)
	if err != nil {
		return nil, err
	}
	closeFuncs = append(closeFuncs, closeStore)

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		closeStore()
		return nil, err
	}

	cacheMonitor := repository.NewCacheMonitor(nil)
	if rc != nil {
		cacheMonitor = repository.NewCacheMonitor(rc)
		stopFuncs = append(stopFuncs, cacheMonitor.Start(context.Background(), cfg.Cache.HealthCheckInterval))
		closeFuncs = append(closeFuncs, func() { _ = rc.Close() })
		if store != nil {
			store.Links = repository.NewCachedAffiliateLinkRepository(store.Links, rc, cfg.Cache.RedisPrefix, cfg.Attribution.LinkCacheTTL)
		}
	}

	var (
		redirectFlow    businessflow.AffiliateRedirectFlow
		saleFlow        businessflow.SaleRecordFlow
		statsFlow       businessflow.AffiliateStatsFlow
		marketplaceFlow businessflow.MarketplaceFlow
		adminFlow       businessflow.AdminReportFlow
	)
	if store != nil {
		redirectFlow = businessflow.NewAffiliateRedirectFlow(store.Links, store.Products, store.Clicks, cfg.Attribution.ClickWriteTimeout)
		saleFlow = businessflow.NewSaleRecordFlow(store.Links, store.Products, store.Sales, cfg.Attribution.SaleWriteTimeout)
		statsFlow = businessflow.NewAffiliateStatsFlow(store.Affiliates, store.Reports)
		marketplaceFlow = businessflow.NewMarketplaceFlow(store.Reports, store.Products, store.Brands)
		adminFlow = businessflow.NewAdminReportFlow(store.Reports)
	}

	auth, err := initializeAuth(cfg)
	if err != nil {
		release()
		return nil, err
	}
	if store == nil {
		auth = nil
	}

	appRouter := router.NewFiberRouter(cfg, router.Handlers{
		Redirect:    handlers.NewRedirectHandler(redirectFlow, cfg.DataService, cfg.Server.WriteTimeout),
		SaleRecord:  handlers.NewSaleRecordHandler(saleFlow, cfg.DataService, cfg.Server.WriteTimeout),
		Health:      handlers.NewHealthHandler(cfg.Deployment, cfg.DataService, cacheMonitor),
		Affiliate:   handlers.NewAffiliateStatsHandler(statsFlow),
		Marketplace: handlers.NewMarketplaceHandler(marketplaceFlow),
		AdminReport: handlers.NewAdminReportHandler(adminFlow),
		Auth:        auth,
	})

	return &Application{
		router:     appRouter,
		config:     cfg,
		metrics:    newMetricsServer(cfg.Metrics),
		stopFuncs:  stopFuncs,
		closeFuncs: closeFuncs,
	}, nil
}
