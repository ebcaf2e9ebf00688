package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atlas-voyages/accounting-backend/internal/core/services"
	"github.com/atlas-voyages/accounting-backend/internal/jobs"
	"github.com/atlas-voyages/accounting-backend/internal/platform/config"
	"github.com/atlas-voyages/accounting-backend/internal/repositories/database/pgsql"
	"github.com/atlas-voyages/accounting-backend/pkg/database"
	"github.com/hibiken/asynq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}

	repos := pgsql.NewRepositoryProvider(dbPool)
	enqueuer := jobs.NewClient(redisOpts)
	defer func() {
		if cerr := enqueuer.Close(); cerr != nil {
			logger.Error("Error closing task queue client", slog.String("error", cerr.Error()))
		}
	}()

	container := services.NewServiceContainer(cfg, *repos, enqueuer)

	worker := jobs.NewWorker(redisOpts, container.CashBox, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Worker starting", slog.String("redis_addr", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Worker shut down.")
}
