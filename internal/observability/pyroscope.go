package observability

import (
	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/tennis-history/internal/config"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
)

// batchProfileTypes leaves out the goroutine and block profiles: the jobs
// run a bounded worker pool and never park on locks for long.
var batchProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
}

// InitPyroscope starts continuous profiling tagged with the job name. The
// returned func stops the profiler and flushes the last upload.
func InitPyroscope(cfg config.Config, job string, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Debug("profiling off", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              profileTags(cfg, job),
		ProfileTypes:      batchProfileTypes,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("profiling on", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName, "job", job)
	return profiler.Stop, nil
}

func profileTags(cfg config.Config, job string) map[string]string {
	tags := map[string]string{
		"env":     cfg.AppEnv,
		"version": cfg.ServiceVersion,
	}
	if job != "" {
		tags["job"] = job
	}
	return tags
}
