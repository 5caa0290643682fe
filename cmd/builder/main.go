package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/tennis-history/internal/app"
	"github.com/riskibarqy/tennis-history/internal/config"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/usecase"
)

const jobName = "builder"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Service: cfg.ServiceName,
		Version: cfg.ServiceVersion,
		Env:     cfg.AppEnv,
	}).With("job", jobName)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, logger)
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger) int {
	rt, err := app.NewRuntime(cfg, jobName, logger)
	if err != nil {
		logger.Error("build runtime", "error", err)
		return 1
	}
	defer func() {
		if err := rt.Close(context.Background()); err != nil {
			logger.Warn("runtime shutdown", "error", err)
		}
	}()

	result, err := rt.BuildDataset(ctx)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAccessDenied):
			logger.Error("match source denied access", "error", err)
		case errors.Is(err, usecase.ErrInconsistentCheckpoint):
			logger.Error("checkpoint tables are inconsistent, rerun with FRESH_START=true", "error", err)
		case errors.Is(err, context.Canceled):
			logger.Warn("dataset build interrupted, resume from the last checkpoint", "error", err)
		default:
			logger.Error("dataset build failed", "error", err)
		}
		return 1
	}

	logger.Info("dataset build finished",
		"candidates", result.Candidates,
		"accepted", result.Accepted,
		"skipped", result.Skipped,
		"current_rows", result.CurrentRows,
		"previous_rows", result.PreviousRows,
	)
	return 0
}
