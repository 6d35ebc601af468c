// Package main provides the progression engine binary: the resource
// accrual scheduler plus database health monitoring under one lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/towerline/towerline/internal/config"
	"github.com/towerline/towerline/internal/game/accrual"
	"github.com/towerline/towerline/internal/observability"
	"github.com/towerline/towerline/internal/server"
	"github.com/towerline/towerline/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting progression engine",
		zap.Duration("tick_interval", cfg.Scheduler.TickInterval),
	)

	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	heroRepo := postgres.NewHeroRepository(pool.DB())

	scheduler := accrual.NewScheduler(
		heroRepo,
		observability.Component(logger, "accrual"),
		cfg.Scheduler.TickInterval,
		cfg.Scheduler.MaxConcurrentHeroes,
	)

	lifecycle := server.NewLifecycle(logger)

	health := server.NewPoller(30*time.Second, func() {
		if err := pool.Health(ctx, 5*time.Second); err != nil {
			logger.Warn("database health check failed", zap.Error(err))
		}
	})

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: health.Start,
		StopFn: func() {
			health.Stop()
			pool.Close()
		},
	})

	lifecycle.Add("scheduler", scheduler)

	logger.Info("progression engine initialized",
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("engine error", zap.Error(err))
	}
}
