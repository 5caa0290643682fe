package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/tennis-history/internal/config"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "tennis-history",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, "builder", logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EmptyDSNIsDisabled(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, UptraceDSN: "  "}

	shutdown, err := InitUptrace(cfg, "ranking", nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestJobAttributes(t *testing.T) {
	t.Parallel()

	assert.Empty(t, jobAttributes(""))
	attrs := jobAttributes("builder")
	require.Len(t, attrs, 1)
	assert.Equal(t, "job", string(attrs[0].Key))
	assert.Equal(t, "builder", attrs[0].Value.AsString())
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, "builder", logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestProfileTags(t *testing.T) {
	t.Parallel()

	cfg := config.Config{AppEnv: config.EnvProd, ServiceVersion: "v2"}
	assert.Equal(t, map[string]string{"env": "prod", "version": "v2", "job": "ranking"}, profileTags(cfg, "ranking"))
	assert.NotContains(t, profileTags(cfg, ""), "job")
}
