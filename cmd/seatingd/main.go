package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"restaurant-seating-backend/config"
	"restaurant-seating-backend/internal/api"
	"restaurant-seating-backend/internal/db"
	"restaurant-seating-backend/internal/events"
	"restaurant-seating-backend/internal/logging"
	"restaurant-seating-backend/internal/metrics"
	"restaurant-seating-backend/internal/seating"
	"restaurant-seating-backend/internal/store"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	envErr := godotenv.Load()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	usingDefaults := false
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err, usingDefaults = config.Default(), nil, true
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to read .env file", zap.Error(envErr))
	}
	if usingDefaults {
		logger.Info("configuration file not found, using defaults", zap.String("path", configPath))
	} else {
		logger.Info("configuration loaded", zap.String("path", configPath))
	}

	loc, err := time.LoadLocation(cfg.Seating.Timezone)
	if err != nil {
		logger.Fatal("invalid seating timezone", zap.String("timezone", cfg.Seating.Timezone), zap.Error(err))
	}

	layout, groups, err := seating.LayoutFromConfig(cfg.Seating)
	if err != nil {
		logger.Fatal("invalid seating layout", zap.Error(err))
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore, err := newStore(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	logger.Info("data store initialized", zap.String("driver", cfg.Database.Driver))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	publisher := newPublisher(ctx, cfg.Events, logger)

	svc := seating.NewService(appStore, seating.Options{
		Layout:         layout,
		ConflictGroups: groups,
		Location:       loc,
		Publisher:      publisher,
		Metrics:        metrics.New(registry),
		Logger:         logger.Named("seating"),
	})
	if err := svc.Reseed(ctx); err != nil {
		logger.Fatal("failed to seed layout", zap.Error(err))
	}

	router := api.NewRouter(ctx, svc, cfg.Server, logger.Named("http"), registry)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("shutdown signal received, stopping services")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("failed to close event publisher", zap.Error(err))
	}

	logger.Info("server gracefully stopped")
}

func newStore(cfg *config.DatabaseConfig) (store.Store, error) {
	if cfg.Driver == "memory" {
		return store.NewMemoryStore(), nil
	}
	gormDB, err := db.Init(cfg)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(gormDB), nil
}

// newPublisher returns the event publisher. A broker that cannot be reached
// disables events instead of stopping the service.
func newPublisher(ctx context.Context, cfg config.EventsConfig, logger *zap.Logger) events.Publisher {
	if !cfg.Enabled {
		return events.NopPublisher{}
	}
	amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		logger.Warn("reservation events disabled", zap.Error(err))
		return events.NopPublisher{}
	}
	dispatcher := events.NewDispatcher(cfg.Workers, cfg.QueueSize, amqpPublisher, logger.Named("events"))
	dispatcher.Start(ctx)
	logger.Info("publishing reservation events", zap.String("exchange", cfg.Exchange))
	return dispatcher
}
