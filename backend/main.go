package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"medlocator/m/internal/api"
	"medlocator/m/internal/config"
	"medlocator/m/internal/database"
	"medlocator/m/internal/geo"
	"medlocator/m/internal/logger"
	"medlocator/m/internal/metrics"
	"medlocator/m/internal/migrations"
	"medlocator/m/internal/recommend"
	"medlocator/m/internal/repository"
	"medlocator/m/internal/seed"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	if cfg.SeedDir != "" {
		res, err := seed.Load(ctx, db, cfg.SeedDir, log.Named("seed"))
		if err != nil {
			log.Warn("catalog seeding failed", zap.String("dir", cfg.SeedDir), zap.Error(err))
		} else if !res.Skipped {
			log.Info("catalog seeded",
				zap.Int("medicines", res.Medicines),
				zap.Int("stores", res.Stores),
				zap.Int("inventory", res.Inventory))
		}
	}

	method, _ := geo.ParseMethod(cfg.DistanceMethod)
	catalog := repository.NewCatalog(db)
	engine := recommend.NewEngine(catalog,
		recommend.WithDistanceFunc(method.Func()),
		recommend.WithStrictMatch(cfg.StrictMatch),
		recommend.WithLogger(log.Named("recommend")),
	)

	opts := api.Options{
		Weights: recommend.Weights{
			Price:        cfg.WeightPrice,
			Distance:     cfg.WeightDistance,
			Availability: cfg.WeightAvailability,
		},
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         log.Named("api"),
	}
	if cfg.MetricsEnabled {
		opts.Metrics = metrics.NewManager()
	}
	handler := api.New(engine, catalog, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	go func() {
		log.Info("medicine locator starting", zap.String("addr", srv.Addr), zap.String("distance_method", string(method)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("medicine locator stopped")
}
