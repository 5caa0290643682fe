package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/tennis-history/internal/config"
	"github.com/riskibarqy/tennis-history/internal/infrastructure/repository/csvstore"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/resilience"
	"github.com/riskibarqy/tennis-history/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, rankingURL string) config.Config {
	t.Helper()

	dir := t.TempDir()
	return config.Config{
		AppEnv:              config.EnvDev,
		ServiceName:         "tennis-history",
		DataDir:             dir,
		RankingFile:         filepath.Join(dir, "ranking", "ranking.csv"),
		RankTotalSlots:      900,
		RankingMinDate:      time.Date(2009, 1, 12, 0, 0, 0, 0, time.UTC),
		RankingPagesPerDate: 2,
		RankingWorkers:      2,
		MatchStat: config.ProviderConfig{
			BaseURL:    rankingURL,
			Timeout:    time.Second,
			MaxRetries: 1,
			RetryDelay: time.Millisecond,
			Breaker:    resilience.BreakerConfig{Enabled: false},
		},
	}
}

func newRankingServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func TestRuntime_UpdateRanking_WritesTable(t *testing.T) {
	url := newRankingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/ranking/atp/filters":
			_, _ = w.Write([]byte(`{"date":["2024-01-15T00:00:00.000Z","2001-01-01T00:00:00.000Z"]}`))
		case r.URL.Path == "/ranking/atp/" && r.URL.Query().Get("page") == "0":
			_, _ = w.Write([]byte(`[{"position":1,"player":{"name":"Novak Djokovic"}},{"position":2,"player":{"name":"Carlos Alcaraz"}}]`))
		case r.URL.Path == "/ranking/atp/":
			_, _ = w.Write([]byte(`[]`))
		case strings.HasPrefix(r.URL.Path, "/profile/"):
			_, _ = w.Write([]byte(`{"birthday":"1987-05-22T00:00:00.000Z","country":{"name":"SRB"}}`))
		default:
			http.NotFound(w, r)
		}
	})
	cfg := testConfig(t, url)

	rt, err := NewRuntime(cfg, "ranking", logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })

	update, err := rt.UpdateRanking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, update.DatesAdded)
	assert.Equal(t, 2, update.PlayersAdded)

	reloaded, err := csvstore.New(csvstore.Config{Dir: cfg.DataDir, RankingFile: cfg.RankingFile, TotalSlots: cfg.RankTotalSlots}).
		LoadRanking(context.Background(), csvstore.KeysRaw)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
	assert.Equal(t, []int64{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Unix()}, reloaded.Dates())
	row, ok := reloaded.Row("Carlos Alcaraz")
	require.True(t, ok)
	require.NotNil(t, row.BirthDate)
}

func TestRuntime_UpdateRanking_AccessDenied(t *testing.T) {
	url := newRankingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	rt, err := NewRuntime(testConfig(t, url), "ranking", logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })

	_, err = rt.UpdateRanking(context.Background())
	require.ErrorIs(t, err, usecase.ErrAccessDenied)
}

func TestRuntime_Close_IsIdempotent(t *testing.T) {
	rt, err := NewRuntime(testConfig(t, "http://127.0.0.1:1"), "builder", nil)
	require.NoError(t, err)

	require.NoError(t, rt.Close(context.Background()))
	require.NoError(t, rt.Close(context.Background()))
}

func TestRuntime_KnownPlayers_FreshStartIgnoresCache(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	players := "id,birthDate,height,weight,rightHanded,fullName,country\n14882,737596800,1.88,77,1,Novak Djokovic,SRB\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "players.csv"), []byte(players), 0o644))

	cfg.FreshStart = true
	fresh, err := NewRuntime(cfg, "builder", logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = fresh.Close(context.Background()) })

	profiles, err := fresh.knownPlayers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)

	cfg.FreshStart = false
	resumed, err := NewRuntime(cfg, "builder", logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = resumed.Close(context.Background()) })

	profiles, err = resumed.knownPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	if profiles[0].ID != 14882 || profiles[0].FullName != "Novak Djokovic" {
		t.Fatalf("unexpected profile got=%+v", profiles[0])
	}
}
