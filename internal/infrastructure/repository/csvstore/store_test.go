package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/riskibarqy/tennis-history/internal/domain/ranking"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/usecase"
)

func ptr[T any](v T) *T { return &v }

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return New(Config{Dir: dir, TotalSlots: 900, Logger: logging.NewNop()}), dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func sampleCurrent() match.Record {
	return match.Record{
		TournamentID:   ptr(int64(2376)),
		TournamentName: "Rotterdam",
		SeasonID:       ptr(int64(57000)),
		EventID:        500,
		Round:          ptr(27),
		GroundType:     "Hardcourt indoor",
		PeriodCount:    3,
		WinnerCode:     ptr(0),
		StartTimestamp: ptr(int64(1707656400)),
		Year:           ptr(2024),
		Status:         ptr(100),
		Home: match.Participant{
			PlayerID:  ptr(int64(1)),
			BirthDate: ptr(int64(998524800)),
			Ranking: match.RankingFeatures{
				Actual:   match.RankedScore(897),
				Best:     match.RankedScore(899),
				BestDate: ptr(int64(1700000000)),
			},
			Height:  ptr(1.91),
			Weight:  ptr(77.0),
			Hand:    player.HandRight,
			Country: "ITA",
		},
		Away: match.Participant{
			PlayerID: ptr(int64(2)),
			Ranking: match.RankingFeatures{
				Actual: match.NoRank(match.RankStatusNotRanked),
				Best:   match.NoRank(match.RankStatusNotRanked),
			},
			Hand:    player.HandLeft,
			Country: "CZE",
		},
		ProbabilityHome: ptr(0.6666666666666666),
		ProbabilityAway: ptr(0.4),
	}
}

func sampleHistory() match.Record {
	rec := sampleCurrent()
	rec.EventID = 400
	rec.ProbabilityHome, rec.ProbabilityAway = nil, nil
	rec.NextEventID = ptr(int64(500))
	rec.LastMatchTimestamp = ptr(int64(1707000000))
	rec.Home.Score = ptr(2)
	rec.Away.Score = ptr(0)
	rec.Home.Sets = [match.SetCount]int{6, 7}
	rec.Away.Sets = [match.SetCount]int{3, 6}
	rec.Home.TotalGames = 13
	rec.Away.TotalGames = 9
	return rec
}

func TestStore_SaveCheckpoint_LoadTables(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)
	ctx := context.Background()

	rankings := ranking.NewStore(900)
	rankings.AddDate(1000)
	rankings.AddPlayer("jannik-sinner", ptr(int64(998524800)), "ITA")
	require.NoError(t, rankings.SetRank("jannik-sinner", 1000, 4))

	cp := usecase.Checkpoint{
		Current:  []match.Record{sampleCurrent()},
		Previous: []match.Record{sampleHistory(), sampleHistory()},
		Players: []player.Profile{
			{ID: 2, FullName: "Jakub Mensik", Weight: ptr(80.0), Country: "CZE"},
			{ID: 1, FullName: "Jannik Sinner", BirthDate: ptr(int64(998524800)), Hand: player.HandRight, Country: "ITA"},
		},
		Ranking: rankings,
	}
	require.NoError(t, store.SaveCheckpoint(ctx, cp))

	current, previous, err := store.LoadTables(ctx)
	require.NoError(t, err)
	require.Equal(t, cp.Current, current)
	require.Len(t, previous, 2)
	require.Equal(t, sampleHistory(), previous[0])

	players, err := store.LoadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.Equal(t, int64(1), players[0].ID)
	require.Equal(t, player.HandUnknown, players[1].Hand)

	raw, err := os.ReadFile(filepath.Join(dir, rankingCheckpoint))
	require.NoError(t, err)
	require.Equal(t, "player,birthDate,country,1000\njannik-sinner,998524800,ITA,4\n", string(raw))
}

func TestStore_SaveCheckpoint_WritesColumnStableHeaders(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)
	require.NoError(t, store.SaveCheckpoint(context.Background(), usecase.Checkpoint{}))

	raw, err := os.ReadFile(filepath.Join(dir, currentFile))
	require.NoError(t, err)
	header := strings.TrimSpace(string(raw))
	require.True(t, strings.HasPrefix(header, "idTournament,tournamentName,idSeason,idEvent,round,groundType,periodCount,winnerCode,startTimestamp,year,idHome,birthDateHome,ActualRankingHome"))
	require.True(t, strings.HasSuffix(header, "countryAway,status,ProbabilityHome,ProbabilityAway"))

	raw, err = os.ReadFile(filepath.Join(dir, previousFile))
	require.NoError(t, err)
	header = strings.TrimSpace(string(raw))
	require.Contains(t, header, "set1performanceHome,set1performanceAway")
	require.True(t, strings.HasSuffix(header, "totalGamesHome,totalGamesAway,lastMatchTimestamp,idNext"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestStore_LoadTables_NoDataRankAndEmptyCells(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)
	header := strings.Join(currentColumns, ",")
	row := make([]string, len(currentColumns))
	for i, col := range currentColumns {
		switch col {
		case "idEvent":
			row[i] = "77.0"
		case "idHome":
			row[i] = "5"
		case "idAway":
			row[i] = "6"
		case "ActualRankingHome":
			row[i] = "-100"
		case "BestRankingHome":
			row[i] = "850.0"
		case "RightHandedHome":
			row[i] = "1.0"
		}
	}
	writeFile(t, filepath.Join(dir, currentFile), header+"\n"+strings.Join(row, ",")+"\n")
	writeFile(t, filepath.Join(dir, previousFile), strings.Join(previousColumns, ",")+"\n")

	current, previous, err := store.LoadTables(context.Background())
	require.NoError(t, err)
	require.Empty(t, previous)
	require.Len(t, current, 1)

	rec := current[0]
	require.Equal(t, int64(77), rec.EventID)
	require.Equal(t, match.NoRank(match.RankStatusNotRanked), rec.Home.Ranking.Actual)
	require.Equal(t, match.RankedScore(850), rec.Home.Ranking.Best)
	require.Equal(t, match.NoRank(match.RankStatusUnresolved), rec.Away.Ranking.Actual)
	require.Equal(t, player.HandRight, rec.Home.Hand)
	require.Nil(t, rec.Home.Height)
	require.Nil(t, rec.ProbabilityHome)
}

func TestStore_LoadTables_RejectsBadCell(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, currentFile), "idEvent,idHome,idAway,round\n1,2,3,quarter\n")
	writeFile(t, filepath.Join(dir, previousFile), strings.Join(previousColumns, ",")+"\n")

	_, _, err := store.LoadTables(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "round")
}

func TestStore_LoadTables_MissingFile(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	_, _, err := store.LoadTables(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_LoadPlayers_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	players, err := store.LoadPlayers(context.Background())
	require.NoError(t, err)
	require.Empty(t, players)
}

func TestStore_LoadRanking_NormalizesKeysAndReadsFloats(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "ranking", "ranking.csv"),
		"player,birthDate,country,2000,1000\n"+
			"Sinner Jannik,998524800.0,ITA,1.0,-1.0\n"+
			"Carlos Alcaraz,0,ESP,2,3\n")

	rankings, err := store.LoadRanking(context.Background(), KeysNormalized)
	require.NoError(t, err)
	require.Equal(t, []int64{1000, 2000}, rankings.Dates())

	row, ok := rankings.Row("sinner-jannik")
	require.True(t, ok)
	require.Equal(t, []int32{ranking.NoRank, 1}, row.Ranks)
	require.Equal(t, int64(998524800), *row.BirthDate)

	row, ok = rankings.Row("carlos-alcaraz")
	require.True(t, ok)
	require.Nil(t, row.BirthDate)
	require.Equal(t, []int32{3, 2}, row.Ranks)
}

func TestStore_LoadRanking_RawKeysAndSave(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	empty, err := store.LoadRanking(ctx, KeysRaw)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())

	empty.AddDate(1000)
	empty.AddPlayer("Novak Djokovic", ptr(int64(548208000)), "SRB")
	require.NoError(t, empty.SetRank("Novak Djokovic", 1000, 1))
	require.NoError(t, store.SaveRanking(ctx, empty))

	loaded, err := store.LoadRanking(ctx, KeysRaw)
	require.NoError(t, err)
	require.True(t, loaded.Contains("Novak Djokovic"))
}

func TestStore_EventIDs_RoundTrip(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEventIDs(ctx, []int64{11, 12, 13}))

	raw, err := os.ReadFile(filepath.Join(dir, eventIDsFile))
	require.NoError(t, err)
	require.Equal(t, "id\n11\n12\n13\n", string(raw))

	ids, err := store.LoadEventIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{11, 12, 13}, ids)
}

func TestStore_SaveFinal_WritesCompleteDirectory(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)
	require.NoError(t, store.SaveFinal(context.Background(), []match.Record{sampleCurrent()}, []match.Record{sampleHistory()}))

	for _, name := range []string{currentFinalFile, previousFinalFile} {
		_, err := os.Stat(filepath.Join(dir, finalDir, name))
		require.NoError(t, err)
	}
}

func TestMatchLog_Append(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", auditFile)
	log := NewMatchLog(path)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, usecase.KeyRewrite{From: "rafael-nadal-parera", To: "rafael-nadal", Score: 84}))
	require.NoError(t, log.Append(ctx, usecase.KeyRewrite{From: "a-b", To: "a-c", Score: 45.5}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "matched rafael-nadal-parera player rafael-nadal score 84\nmatched a-b player a-c score 45.5\n", string(raw))
}
