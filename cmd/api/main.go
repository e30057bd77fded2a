package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/ratelimit"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/slug"
	"storefront/internal/storehours"
	"storefront/internal/task"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	storehours.DefaultTimezone = cfg.Store.DefaultTimezone

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	reserved, err := loadReservedSlugs(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load reserved slugs: %w", err)
	}

	m := metrics.NewRegistry()

	// Initialize repositories
	storeRepo := repository.NewStoreRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	draftRepo := repository.NewDraftStoreRepository(pool, logger)

	// Initialize services
	validator := slug.NewValidator(reserved)
	productService := service.NewProductService(productRepo, logger)
	checkoutService := service.NewCheckoutService(storeRepo, productRepo, orderRepo, couponRepo, m, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	storeService := service.NewStoreService(storeRepo, logger)
	draftService := service.NewDraftStoreService(draftRepo, storeRepo, validator, cfg.Draft.TTL, m, logger)
	slugService := service.NewSlugService(storeRepo, draftRepo, validator, logger)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(ratelimit.NewMemoryStore())
	} else {
		logger.Warn().Msg("rate limiting disabled")
	}

	sweeper, err := newSweeper(cfg, limiter, draftService, m, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize sweeper: %w", err)
	}
	sweeper.Start()

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Checkout:   handler.NewCheckoutHandler(checkoutService, logger),
		Orders:     handler.NewOrderHandler(orderService, logger),
		Products:   handler.NewProductHandler(productService, logger),
		Stores:     handler.NewStoreHandler(storeService, logger),
		DraftStore: handler.NewDraftStoreHandler(draftService, logger),
		Slug:       handler.NewSlugHandler(slugService, logger),
		Internal:   handler.NewInternalHandler(sweeper, logger),
	}, router.Options{
		APIKey:  cfg.Auth.APIKey,
		Limiter: limiter,
		Metrics: m,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		sweeper.Stop(context.Background())
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		sweeper.Stop(shutdownCtx)

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadReservedSlugs builds the reserved slug set from the built-in list and
// the configured files, read from S3 when enabled with a local fallback.
func loadReservedSlugs(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (slug.Set, error) {
	fileLoader := slug.NewFileLoader(logger)
	loader := fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := slug.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = slug.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
		}
	} else if len(cfg.Slug.ReservedFiles) > 0 {
		logger.Info().Msg("using local file system for reserved slug files (S3 disabled)")
	}

	return slug.NewReservedSet(ctx, slug.ReservedConfig{FilePaths: cfg.Slug.ReservedFiles}, loader, logger)
}

// newSweeper registers the housekeeping jobs. The rate-limit sweep only
// exists when rate limiting is enabled.
func newSweeper(cfg *config.Config, limiter *ratelimit.Limiter, drafts service.DraftStoreService, m *metrics.Registry, logger zerolog.Logger) (*task.Sweeper, error) {
	sweeper := task.NewSweeper(m, logger)

	if limiter != nil {
		err := sweeper.Register(task.Job{
			Name:     task.JobRateLimitSweep,
			Schedule: cfg.RateLimit.SweepSchedule,
			Run: func(context.Context) (int, error) {
				return limiter.Sweep(), nil
			},
		})
		if err != nil {
			return nil, err
		}
	}

	err := sweeper.Register(task.Job{
		Name:     task.JobDraftExpiry,
		Schedule: cfg.Draft.SweepSchedule,
		Run:      drafts.SweepExpired,
	})
	if err != nil {
		return nil, err
	}

	return sweeper, nil
}
