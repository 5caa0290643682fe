package sofascore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/usecase"
)

const eventJSON = `{"event":{
	"id":12345,
	"tournament":{"name":"Rotterdam, Netherlands","uniqueTournament":{"id":2376,"name":"Rotterdam"}},
	"season":{"id":57000,"name":"ATP Rotterdam 2024","year":"2024"},
	"groundType":"Hardcourt indoor",
	"roundInfo":{"round":27},
	"defaultPeriodCount":3,
	"startTimestamp":1707656400,
	"homeTeam":{"id":206570},
	"awayTeam":{"id":157754},
	"winnerCode":1,
	"status":{"code":100,"type":"finished"},
	"homeScore":{"current":2,"period1":7,"period2":6},
	"awayScore":{"current":0,"period1":5,"period2":4}
}}`

func newTestClient(t *testing.T, routes map[string]string) (*Client, map[string]*atomic.Int32) {
	t.Helper()

	counters := make(map[string]*atomic.Int32, len(routes))
	for path := range routes {
		counters[path] = &atomic.Int32{}
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		counters[r.URL.Path].Add(1)
		if body == "403" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL + "/api/v1",
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Logger:     logging.NewNop(),
	})
	return client, counters
}

func TestClient_GetEvent_MapsPayload(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, map[string]string{"/api/v1/event/12345": eventJSON})

	ev, err := client.GetEvent(context.Background(), 12345)
	require.NoError(t, err)
	require.Equal(t, int64(12345), ev.ID)
	require.Equal(t, int64(2376), *ev.TournamentID)
	require.Equal(t, "Rotterdam", ev.TournamentName)
	require.Equal(t, int64(57000), *ev.SeasonID)
	require.Equal(t, "2024", ev.SeasonYear)
	require.Equal(t, "Hardcourt indoor", ev.GroundType)
	require.Equal(t, 27, *ev.Round)
	require.Equal(t, 3, *ev.DefaultPeriodCount)
	require.Equal(t, int64(1707656400), *ev.StartTimestamp)
	require.Equal(t, int64(206570), *ev.HomeTeamID)
	require.Equal(t, int64(157754), *ev.AwayTeamID)
	require.Equal(t, 1, *ev.WinnerCode)
	require.Equal(t, 100, *ev.StatusCode)
	require.Equal(t, 2, *ev.HomeScore.Current)
	require.Equal(t, 7, *ev.HomeScore.Periods[0])
	require.Nil(t, ev.HomeScore.Periods[2])
	require.Equal(t, 4, *ev.AwayScore.Periods[1])
}

func TestClient_GetEvent_NotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil)

	_, err := client.GetEvent(context.Background(), 1)
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestClient_GetEvent_AccessDenied(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, map[string]string{"/api/v1/event/1": "403"})

	_, err := client.GetEvent(context.Background(), 1)
	require.ErrorIs(t, err, usecase.ErrAccessDenied)
}

func TestClient_GetPlayerEvents_CachesPages(t *testing.T) {
	t.Parallel()

	path := "/api/v1/team/206570/events/last/0"
	client, counters := newTestClient(t, map[string]string{
		path: `{"events":[{"id":1,"startTimestamp":100},{"id":2,"startTimestamp":200}],"hasNextPage":true}`,
	})

	for i := 0; i < 3; i++ {
		events, err := client.GetPlayerEvents(context.Background(), 206570, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, int64(2), events[1].ID)
		require.Equal(t, int64(200), *events[1].StartTimestamp)
	}
	require.Equal(t, int32(1), counters[path].Load())
}

func TestClient_GetOdds_ReadsOpeningPrices(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, map[string]string{
		"/api/v1/event/7/odds/1/featured": `{"featured":{"default":{"choices":[
			{"name":"1","initialFractionalValue":"1/2","fractionalValue":"2/5"},
			{"name":"2","initialFractionalValue":"6/4","fractionalValue":"7/4"}]}}}`,
	})

	odds, err := client.GetOdds(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, usecase.ExternalOdds{HomeFractional: "1/2", AwayFractional: "6/4"}, odds)
}

func TestClient_GetOdds_MissingMarket(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, map[string]string{"/api/v1/event/7/odds/1/featured": `{"featured":{}}`})

	_, err := client.GetOdds(context.Background(), 7)
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestClient_GetPlayer_MapsProfile(t *testing.T) {
	t.Parallel()

	path := "/api/v1/team/206570"
	client, counters := newTestClient(t, map[string]string{
		path: `{"team":{"id":206570,"name":"Sinner J.","fullName":"Jannik Sinner",
			"playerTeamInfo":{"birthDateTimestamp":998524800,"height":1.91,"weight":77,"plays":"right-handed"},
			"country":{"alpha2":"IT","alpha3":"ITA","name":"Italy"}}}`,
	})

	profile, err := client.GetPlayer(context.Background(), 206570)
	require.NoError(t, err)
	require.Equal(t, int64(206570), profile.ID)
	require.Equal(t, "Jannik Sinner", profile.FullName)
	require.Equal(t, int64(998524800), *profile.BirthDate)
	require.InDelta(t, 1.91, *profile.Height, 1e-9)
	require.InDelta(t, 77.0, *profile.Weight, 1e-9)
	require.Equal(t, player.HandRight, profile.Hand)
	require.Equal(t, "ITA", profile.Country)

	_, err = client.GetPlayer(context.Background(), 206570)
	require.NoError(t, err)
	require.Equal(t, int32(1), counters[path].Load())
}

func TestClient_GetPlayer_MissingInfoStaysAbsent(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, map[string]string{
		"/api/v1/team/9": `{"team":{"id":9,"name":"Granollers M. / Zeballos H.","fullName":"Granollers M. / Zeballos H."}}`,
	})

	profile, err := client.GetPlayer(context.Background(), 9)
	require.NoError(t, err)
	require.True(t, profile.IsPair())
	require.Nil(t, profile.BirthDate)
	require.Nil(t, profile.Height)
	require.Equal(t, player.HandUnknown, profile.Hand)
}

func TestClient_ListTournaments_FlattensGroups(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, map[string]string{
		"/api/v1/category/3/unique-tournaments": `{"groups":[
			{"name":"January","uniqueTournaments":[{"id":2363,"name":"Australian Open","tennisPoints":2000}]},
			{"name":"November","uniqueTournaments":[{"id":2399,"name":"ATP Finals"},{"id":2400,"name":"Doha","tennisPoints":250}]}]}`,
	})

	tournaments, err := client.ListTournaments(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, tournaments, 3)
	require.Equal(t, 2000, *tournaments[0].TennisPoints)
	require.Equal(t, "ATP Finals", tournaments[1].Name)
	require.Nil(t, tournaments[1].TennisPoints)
}

func TestClient_ListSeasonsAndEventIDs(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, map[string]string{
		"/api/v1/unique-tournament/2363/seasons":                    `{"seasons":[{"id":52585,"name":"Australian Open 2024","year":"2024"}]}`,
		"/api/v1/unique-tournament/2363/season/52585/events/last/1": `{"events":[{"id":11},{"id":12}]}`,
	})

	seasons, err := client.ListSeasons(context.Background(), 2363)
	require.NoError(t, err)
	require.Equal(t, []usecase.ExternalSeason{{ID: 52585, Name: "Australian Open 2024", Year: "2024"}}, seasons)

	ids, err := client.ListSeasonEventIDs(context.Background(), 2363, 52585, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{11, 12}, ids)

	_, err = client.ListSeasonEventIDs(context.Background(), 2363, 52585, 10)
	require.ErrorIs(t, err, usecase.ErrNotFound)
}
