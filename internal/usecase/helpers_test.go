package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/riskibarqy/tennis-history/internal/domain/ranking"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
)

func ptr[T any](v T) *T {
	return &v
}

type recordingAudit struct {
	mu       sync.Mutex
	rewrites []KeyRewrite
	err      error
}

func (a *recordingAudit) Append(_ context.Context, rewrite KeyRewrite) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.rewrites = append(a.rewrites, rewrite)
	return nil
}

func fixedScorer(score float64) func(a, b string) float64 {
	return func(string, string) float64 { return score }
}

type seasonKey struct {
	tournamentID int64
	seasonID     int64
}

// fakeMatchSource serves canned payloads. Missing entries answer with
// ErrNotFound.
type fakeMatchSource struct {
	mu sync.Mutex

	events       map[int64]ExternalEvent
	playerPages  map[int64][][]ExternalEvent
	pageErrs     map[int64]map[int]error
	odds         map[int64]ExternalOdds
	players      map[int64]player.Profile
	playerErrs   map[int64]error
	tournaments  []ExternalTournament
	seasons      map[int64][]ExternalSeason
	seasonEvents map[seasonKey]map[int][]int64

	pageCalls   map[int64][]int
	playerCalls map[int64]int
}

func newFakeMatchSource() *fakeMatchSource {
	return &fakeMatchSource{
		events:       map[int64]ExternalEvent{},
		playerPages:  map[int64][][]ExternalEvent{},
		pageErrs:     map[int64]map[int]error{},
		odds:         map[int64]ExternalOdds{},
		players:      map[int64]player.Profile{},
		playerErrs:   map[int64]error{},
		seasons:      map[int64][]ExternalSeason{},
		seasonEvents: map[seasonKey]map[int][]int64{},
		pageCalls:    map[int64][]int{},
		playerCalls:  map[int64]int{},
	}
}

func (f *fakeMatchSource) GetEvent(_ context.Context, eventID int64) (ExternalEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[eventID]
	if !ok {
		return ExternalEvent{}, ErrNotFound
	}
	return ev, nil
}

func (f *fakeMatchSource) GetPlayerEvents(_ context.Context, playerID int64, page int) ([]ExternalEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls[playerID] = append(f.pageCalls[playerID], page)
	if err := f.pageErrs[playerID][page]; err != nil {
		return nil, err
	}
	pages := f.playerPages[playerID]
	if page < 0 || page >= len(pages) {
		return nil, ErrNotFound
	}
	return pages[page], nil
}

func (f *fakeMatchSource) GetOdds(_ context.Context, eventID int64) (ExternalOdds, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	odds, ok := f.odds[eventID]
	if !ok {
		return ExternalOdds{}, ErrNotFound
	}
	return odds, nil
}

func (f *fakeMatchSource) GetPlayer(_ context.Context, playerID int64) (player.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playerCalls[playerID]++
	if err := f.playerErrs[playerID]; err != nil {
		return player.Profile{}, err
	}
	profile, ok := f.players[playerID]
	if !ok {
		return player.Profile{}, ErrNotFound
	}
	return profile, nil
}

func (f *fakeMatchSource) ListTournaments(_ context.Context, _ int64) ([]ExternalTournament, error) {
	return f.tournaments, nil
}

func (f *fakeMatchSource) ListSeasons(_ context.Context, tournamentID int64) ([]ExternalSeason, error) {
	seasons, ok := f.seasons[tournamentID]
	if !ok {
		return nil, ErrNotFound
	}
	return seasons, nil
}

func (f *fakeMatchSource) ListSeasonEventIDs(_ context.Context, tournamentID, seasonID int64, page int) ([]int64, error) {
	pages, ok := f.seasonEvents[seasonKey{tournamentID: tournamentID, seasonID: seasonID}]
	if !ok {
		return nil, ErrNotFound
	}
	ids, ok := pages[page]
	if !ok {
		return nil, ErrNotFound
	}
	return ids, nil
}

type fakeProfileRepo struct {
	mu    sync.Mutex
	items map[int64]player.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{items: map[int64]player.Profile{}}
}

func (r *fakeProfileRepo) Get(_ context.Context, id int64) (player.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	return p, ok, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile player.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) List(_ context.Context) ([]player.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]player.Profile, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}

// testEvent builds a completed singles event won by the home side 2-0.
func testEvent(id, homeID, awayID, start int64) ExternalEvent {
	return ExternalEvent{
		ID:                 id,
		TournamentID:       ptr(int64(2376)),
		TournamentName:     "Rotterdam",
		SeasonID:           ptr(int64(57000)),
		SeasonYear:         "2024",
		GroundType:         "Hardcourt indoor",
		Round:              ptr(27),
		DefaultPeriodCount: ptr(3),
		StartTimestamp:     ptr(start),
		HomeTeamID:         ptr(homeID),
		AwayTeamID:         ptr(awayID),
		WinnerCode:         ptr(1),
		StatusCode:         ptr(100),
		HomeScore:          ExternalScore{Current: ptr(2), Periods: [5]*int{ptr(6), ptr(7)}},
		AwayScore:          ExternalScore{Current: ptr(0), Periods: [5]*int{ptr(3), ptr(6)}},
	}
}

// testHarness wires the usecases over fakes. Players 1 and 2 are ranked,
// player 3 has a birth date but no ranking history.
type testHarness struct {
	source    *fakeMatchSource
	profiles  *fakeProfileRepo
	store     *ranking.Store
	audit     *recordingAudit
	resolver  *IdentityResolver
	assembler *RecordAssembler
	fetcher   *HistoryFetcher
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	store, _, err := ranking.FromTable(ranking.DefaultTotalSlots, []int64{1000, 2000}, []ranking.Row{
		{NameKey: "jannik-sinner", BirthDate: ptr(int64(1000000000)), Country: "ITA", Ranks: []int32{10, 1}},
		{NameKey: "daniil-medvedev", BirthDate: ptr(int64(886000000)), Country: "RUS", Ranks: []int32{3, 4}},
	})
	if err != nil {
		t.Fatalf("build store: %v", err)
	}

	source := newFakeMatchSource()
	source.players[1] = player.Profile{FullName: "Jannik Sinner", BirthDate: ptr(int64(1000000000)), Height: ptr(191.0), Weight: ptr(77.0), Hand: player.HandRight, Country: "ITA"}
	source.players[2] = player.Profile{FullName: "Daniil Medvedev", BirthDate: ptr(int64(886000000)), Height: ptr(198.0), Hand: player.HandRight, Country: "RUS"}
	source.players[3] = player.Profile{FullName: "Jakub Mensik", BirthDate: ptr(int64(1127000000)), Weight: ptr(80.0), Country: "CZE"}

	h := &testHarness{
		source:   source,
		profiles: newFakeProfileRepo(),
		store:    store,
		audit:    &recordingAudit{},
	}
	logger := logging.NewNop()
	h.resolver = NewIdentityResolver(store, h.audit, IdentityResolverConfig{Logger: logger})
	h.assembler = NewRecordAssembler(source, NewProfileService(h.profiles, source, logger), h.resolver, match.DefaultRules(), logger)
	h.fetcher = NewHistoryFetcher(source, h.assembler, HistoryFetcherConfig{MaxPages: 5, Logger: logger})
	return h
}
