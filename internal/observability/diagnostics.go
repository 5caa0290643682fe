package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/tennis-history/internal/config"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
)

func diagnosticsMux(cfg config.Config, recorder *metrics.Recorder) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	if cfg.PprofEnabled {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return mux
}

// StartDiagnosticsServer serves /metrics, plus pprof when enabled, on
// METRICS_ADDR. It returns nil when no address is configured.
func StartDiagnosticsServer(cfg config.Config, recorder *metrics.Recorder, logger *logging.Logger) *http.Server {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.MetricsAddr == "" {
		logger.Info("diagnostics server disabled", "reason", "METRICS_ADDR empty")
		return nil
	}

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           diagnosticsMux(cfg, recorder),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("diagnostics server starting", "addr", cfg.MetricsAddr, "pprof", cfg.PprofEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("diagnostics server failed", "error", err)
		}
	}()

	return srv
}

func StopDiagnosticsServer(srv *http.Server, logger *logging.Logger, timeout time.Duration) error {
	if srv == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("diagnostics server stopped")

	return nil
}
