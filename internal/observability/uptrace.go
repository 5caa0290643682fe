package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/tennis-history/internal/config"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// ShutdownFunc flushes and stops a telemetry exporter.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitUptrace installs the global tracer provider exporting to Uptrace.
// Spans carry job as a resource attribute so ranking refreshes and dataset
// builds can be told apart.
func InitUptrace(cfg config.Config, job string, logger *logging.Logger) (ShutdownFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dsn := strings.TrimSpace(cfg.UptraceDSN)
	switch {
	case !cfg.UptraceEnabled:
		logger.Debug("tracing off", "reason", "UPTRACE_ENABLED=false")
		return noopShutdown, nil
	case dsn == "":
		logger.Warn("tracing off", "reason", "no uptrace dsn")
		return noopShutdown, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(jobAttributes(job)...),
	)

	logger.Info("tracing on", "exporter", "uptrace", "job", job, "environment", cfg.AppEnv)
	return uptrace.Shutdown, nil
}

func jobAttributes(job string) []attribute.KeyValue {
	if job == "" {
		return nil
	}
	return []attribute.KeyValue{attribute.String("job", job)}
}
