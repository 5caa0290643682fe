// Package app wires configuration, provider clients, stores and use cases
// into the two runnable jobs: the ranking table refresh and the dataset
// build.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/tennis-history/external/matchstat"
	"github.com/riskibarqy/tennis-history/external/sofascore"
	"github.com/riskibarqy/tennis-history/internal/config"
	"github.com/riskibarqy/tennis-history/internal/infrastructure/repository/csvstore"
	"github.com/riskibarqy/tennis-history/internal/observability"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
)

const shutdownTimeout = 10 * time.Second

// Runtime holds the collaborators shared by every job of one process.
type Runtime struct {
	cfg     config.Config
	job     string
	logger  *logging.Logger
	metrics *metrics.Recorder
	store   *csvstore.Store

	closers []func(context.Context) error
}

// NewRuntime starts tracing, profiling and the diagnostics endpoint for the
// named job. Call Close when the job is done.
func NewRuntime(cfg config.Config, job string, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	rt := &Runtime{
		cfg:     cfg,
		job:     job,
		logger:  logger,
		metrics: metrics.New(""),
		store: csvstore.New(csvstore.Config{
			Dir:         cfg.DataDir,
			RankingFile: cfg.RankingFile,
			TotalSlots:  cfg.RankTotalSlots,
			Logger:      logger,
		}),
	}

	shutdownTracing, err := observability.InitUptrace(cfg, job, logger)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, shutdownTracing)

	stopProfiler, err := observability.InitPyroscope(cfg, job, logger)
	if err != nil {
		_ = rt.Close(context.Background())
		return nil, err
	}
	rt.closers = append(rt.closers, func(context.Context) error { return stopProfiler() })

	srv := observability.StartDiagnosticsServer(cfg, rt.metrics, logger)
	rt.closers = append(rt.closers, func(context.Context) error {
		return observability.StopDiagnosticsServer(srv, logger, shutdownTimeout)
	})

	return rt, nil
}

// Close releases everything NewRuntime started, last started first.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

func (rt *Runtime) matchSource() *sofascore.Client {
	p := rt.cfg.SofaScore
	return sofascore.NewClient(sofascore.ClientConfig{
		BaseURL:    p.BaseURL,
		Timeout:    p.Timeout,
		MaxRetries: p.MaxRetries,
		RetryDelay: p.RetryDelay,
		CacheTTL:   p.CacheTTL,
		Breaker:    p.Breaker,
		Logger:     rt.logger.With("provider", "sofascore"),
		Metrics:    rt.metrics,
	})
}

func (rt *Runtime) rankingSource() *matchstat.Client {
	p := rt.cfg.MatchStat
	return matchstat.NewClient(matchstat.ClientConfig{
		BaseURL:    p.BaseURL,
		Timeout:    p.Timeout,
		MaxRetries: p.MaxRetries,
		RetryDelay: p.RetryDelay,
		Breaker:    p.Breaker,
		Logger:     rt.logger.With("provider", "matchstat"),
		Metrics:    rt.metrics,
	})
}
