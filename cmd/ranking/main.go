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

const jobName = "ranking"

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

	update, err := rt.UpdateRanking(ctx)
	if err != nil {
		if errors.Is(err, usecase.ErrAccessDenied) {
			logger.Error("ranking source denied access", "error", err)
		} else {
			logger.Error("ranking update failed", "error", err)
		}
		return 1
	}

	logger.Info("ranking update finished",
		"dates_added", update.DatesAdded,
		"players_added", update.PlayersAdded,
		"pages_failed", update.PagesFailed,
	)
	return 0
}
