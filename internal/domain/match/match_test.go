package match

import (
	"testing"

	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func admissibleRecord() Record {
	return Record{
		TournamentID:   ptr(int64(2480)),
		TournamentName: "Roland Garros",
		SeasonID:       ptr(int64(57000)),
		EventID:        12000001,
		Round:          ptr(29),
		GroundType:     "Red clay",
		PeriodCount:    5,
		WinnerCode:     ptr(0),
		StartTimestamp: ptr(int64(1717340400)),
		Year:           ptr(2024),
		Status:         ptr(StatusCompleted),
		Home: Participant{
			PlayerID:  ptr(int64(14486)),
			BirthDate: ptr(int64(518572800)),
			Ranking:   RankingFeatures{Actual: RankedScore(625), Best: RankedScore(900)},
			Height:    ptr(1.85),
			Weight:    ptr(85.0),
			Hand:      player.HandLeft,
			Country:   "ESP",
			Score:     ptr(3),
			Sets:      [SetCount]int{6, 6, 6},
		},
		Away: Participant{
			PlayerID:  ptr(int64(275923)),
			BirthDate: ptr(int64(1021939200)),
			Ranking:   RankingFeatures{Actual: RankedScore(899), Best: RankedScore(900)},
			Weight:    ptr(74.0),
			Hand:      player.HandRight,
			Country:   "ESP",
			Score:     ptr(0),
			Sets:      [SetCount]int{3, 2, 4},
		},
	}
}

func TestRules_Check_AcceptsCompleteRecordInBothModes(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rec := admissibleRecord()
	require.Equal(t, RejectNone, rules.Check(rec, ModeCurrent))
	require.Equal(t, RejectNone, rules.Check(rec, ModeHistory))
}

func TestRules_Check_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mode   Mode
		mutate func(*Record)
		want   RejectReason
	}{
		{name: "missing home id", mode: ModeHistory, mutate: func(r *Record) { r.Home.PlayerID = nil }, want: RejectMissingPlayer},
		{name: "missing tournament", mode: ModeHistory, mutate: func(r *Record) { r.TournamentName = "" }, want: RejectMissingTourney},
		{name: "exhibition", mode: ModeHistory, mutate: func(r *Record) { r.TournamentName = "Mubadala Exhibition" }, want: RejectExcludedTourney},
		{name: "davis cup", mode: ModeCurrent, mutate: func(r *Record) { r.TournamentName = "Davis Cup" }, want: RejectExcludedTourney},
		{name: "doubles", mode: ModeCurrent, mutate: func(r *Record) { r.TournamentName = "Wimbledon Doubles" }, want: RejectExcludedTourney},
		{name: "missing ground", mode: ModeHistory, mutate: func(r *Record) { r.GroundType = "" }, want: RejectMissingGround},
		{name: "missing winner", mode: ModeHistory, mutate: func(r *Record) { r.WinnerCode = nil }, want: RejectMissingWinner},
		{name: "retired before play", mode: ModeHistory, mutate: func(r *Record) { r.Status = ptr(70) }, want: RejectNotCompleted},
		{name: "missing status", mode: ModeHistory, mutate: func(r *Record) { r.Status = nil }, want: RejectNotCompleted},
		{name: "away without physicals", mode: ModeHistory, mutate: func(r *Record) { r.Away.Weight = nil }, want: RejectMissingPhysical},
		{name: "missing birth date", mode: ModeHistory, mutate: func(r *Record) { r.Home.BirthDate = nil }, want: RejectMissingBirthDate},
		{
			name: "current without ranking signal",
			mode: ModeCurrent,
			mutate: func(r *Record) {
				r.Away.Ranking = RankingFeatures{Actual: NoRank(RankStatusUnresolved), Best: NoRank(RankStatusUnresolved)}
			},
			want: RejectNoRanking,
		},
		{name: "history missing score", mode: ModeHistory, mutate: func(r *Record) { r.Away.Score = nil }, want: RejectMissingScore},
		{
			name: "history zero zero",
			mode: ModeHistory,
			mutate: func(r *Record) {
				r.Home.Score = ptr(0)
				r.Away.Score = ptr(0)
			},
			want: RejectNoGamesPlayed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := admissibleRecord()
			tc.mutate(&rec)
			if got := DefaultRules().Check(rec, tc.mode); got != tc.want {
				t.Fatalf("unexpected reject reason: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestRules_Check_HistoryIgnoresRankingSignal(t *testing.T) {
	t.Parallel()

	rec := admissibleRecord()
	rec.Away.Ranking = RankingFeatures{Actual: NoRank(RankStatusNotRanked), Best: NoRank(RankStatusNotRanked)}
	require.Equal(t, RejectNone, DefaultRules().Check(rec, ModeHistory))

	// One known rank is enough in current mode.
	rec.Away.Ranking.Best = RankedScore(400)
	require.Equal(t, RejectNone, DefaultRules().Check(rec, ModeCurrent))
}

func TestRecord_Swapped_IsInvolution(t *testing.T) {
	t.Parallel()

	rec := admissibleRecord()
	rec.ProbabilityHome = ptr(0.7)
	rec.ProbabilityAway = ptr(0.35)

	once := rec.Swapped()
	require.Equal(t, int64(275923), once.HomeID())
	require.Equal(t, int64(14486), once.AwayID())
	require.Equal(t, 1, *once.WinnerCode)
	require.Equal(t, 0.35, *once.ProbabilityHome)
	require.Equal(t, [SetCount]int{3, 2, 4}, once.Home.Sets)

	require.Equal(t, rec, once.Swapped())
}

func TestRecord_Swapped_LeavesUnknownWinner(t *testing.T) {
	t.Parallel()

	rec := admissibleRecord()
	rec.WinnerCode = nil
	require.Nil(t, rec.Swapped().WinnerCode)
}

func TestRecord_Finalize_SlamPeriodCounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		tournament int64
		season     int64
		round      int
		want       int
	}{
		{name: "roland garros qualifying", tournament: TournamentRolandGarros, round: 1, want: 3},
		{name: "roland garros main draw", tournament: TournamentRolandGarros, round: 29, want: 5},
		{name: "australian open qualifying", tournament: TournamentAustralianOpen, round: 60, want: 3},
		{name: "australian open final", tournament: TournamentAustralianOpen, round: 1, want: 5},
		{name: "us open late rounds season", tournament: TournamentUSOpen, season: 45261, round: 2, want: 5},
		{name: "us open qualifying", tournament: TournamentUSOpen, season: 52000, round: 2, want: 3},
		{name: "us open main draw", tournament: TournamentUSOpen, season: 52000, round: 28, want: 5},
		{name: "wimbledon late rounds season", tournament: TournamentWimbledon, season: 42300, round: 1, want: 5},
		{name: "wimbledon qualifying", tournament: TournamentWimbledon, season: 50000, round: 19, want: 3},
		{name: "other tournament untouched", tournament: 2391, round: 1, want: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := admissibleRecord()
			rec.TournamentID = ptr(tc.tournament)
			rec.SeasonID = ptr(tc.season)
			rec.Round = ptr(tc.round)
			rec.PeriodCount = 3
			if got := rec.Finalize(false).PeriodCount; got != tc.want {
				t.Fatalf("unexpected period count: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestRecord_Finalize_GroundAliasesAndDefaults(t *testing.T) {
	t.Parallel()

	rec := admissibleRecord()
	rec.GroundType = "Carpet indoor"
	rec.Round = nil
	rec.NextEventID = nil

	got := rec.Finalize(true)
	require.Equal(t, "Hardcourt indoor", got.GroundType)
	require.Equal(t, 0, *got.Round)
	require.Equal(t, int64(0), *got.NextEventID)

	rec.GroundType = "Clay"
	require.Equal(t, "Red clay", rec.Finalize(false).GroundType)
	require.Nil(t, rec.Finalize(false).NextEventID)
}

func TestRankFromValue(t *testing.T) {
	t.Parallel()

	require.True(t, RankFromValue(NoDataRank).NoData())
	require.Equal(t, NoDataRank, NoRank(RankStatusUnresolved).Value())
	require.Equal(t, 812, RankFromValue(812).Value())
}
