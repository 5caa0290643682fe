// Package sofascore reads events, player pages, odds and player profiles
// from the SofaScore public API.
package sofascore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/riskibarqy/tennis-history/internal/platform/cache"
	"github.com/riskibarqy/tennis-history/internal/platform/fetch"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
	"github.com/riskibarqy/tennis-history/internal/platform/resilience"
	"github.com/riskibarqy/tennis-history/internal/usecase"
)

const (
	defaultBaseURL      = "https://www.sofascore.com/api/v1"
	defaultCacheTTL     = 30 * time.Minute
	defaultCacheEntries = 20000
	providerName        = "sofascore"
)

type ClientConfig struct {
	HTTPClient   *http.Client
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	CacheTTL     time.Duration
	CacheEntries int
	Breaker      resilience.BreakerConfig
	Logger       *logging.Logger
	Metrics      *metrics.Recorder
}

// Client implements usecase.MatchSource. Player pages and profiles are
// cached for CacheTTL because the same players recur across many events.
type Client struct {
	http    *fetch.Client
	pages   *cache.Store[[]usecase.ExternalEvent]
	players *cache.Store[player.Profile]
}

var _ usecase.MatchSource = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	retry := resilience.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		retry.BaseDelay = cfg.RetryDelay
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	entries := cfg.CacheEntries
	if entries <= 0 {
		entries = defaultCacheEntries
	}

	return &Client{
		http: fetch.New(fetch.Config{
			Provider:   providerName,
			HTTPClient: cfg.HTTPClient,
			BaseURL:    baseURL,
			Timeout:    cfg.Timeout,
			Retry:      retry,
			Breaker:    cfg.Breaker,
			Logger:     cfg.Logger,
			Metrics:    cfg.Metrics,
		}),
		pages:   cache.NewStore[[]usecase.ExternalEvent](ttl, entries),
		players: cache.NewStore[player.Profile](ttl, entries),
	}
}

func (c *Client) GetEvent(ctx context.Context, eventID int64) (usecase.ExternalEvent, error) {
	var envelope eventEnvelope
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/event/%d", eventID), nil, &envelope); err != nil {
		return usecase.ExternalEvent{}, translateError(err)
	}
	ev := mapEvent(envelope.Event)
	if ev.ID == 0 {
		ev.ID = eventID
	}
	return ev, nil
}

func (c *Client) GetPlayerEvents(ctx context.Context, playerID int64, page int) ([]usecase.ExternalEvent, error) {
	key := "player/" + strconv.FormatInt(playerID, 10) + "/events/" + strconv.Itoa(page)
	events, err := c.pages.GetOrLoad(ctx, key, func(ctx context.Context) ([]usecase.ExternalEvent, error) {
		var envelope eventsEnvelope
		path := fmt.Sprintf("/team/%d/events/last/%d", playerID, page)
		if err := c.http.GetJSON(ctx, path, nil, &envelope); err != nil {
			return nil, err
		}
		out := make([]usecase.ExternalEvent, 0, len(envelope.Events))
		for _, item := range envelope.Events {
			out = append(out, mapEvent(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return events, nil
}

func (c *Client) GetOdds(ctx context.Context, eventID int64) (usecase.ExternalOdds, error) {
	var envelope oddsEnvelope
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/event/%d/odds/1/featured", eventID), nil, &envelope); err != nil {
		return usecase.ExternalOdds{}, translateError(err)
	}
	market := envelope.Featured.Default
	if market == nil || len(market.Choices) < 2 {
		return usecase.ExternalOdds{}, fmt.Errorf("%w: featured market for event %d", usecase.ErrNotFound, eventID)
	}
	return usecase.ExternalOdds{
		HomeFractional: market.Choices[0].InitialFractionalValue,
		AwayFractional: market.Choices[1].InitialFractionalValue,
	}, nil
}

func (c *Client) GetPlayer(ctx context.Context, playerID int64) (player.Profile, error) {
	key := "team/" + strconv.FormatInt(playerID, 10)
	profile, err := c.players.GetOrLoad(ctx, key, func(ctx context.Context) (player.Profile, error) {
		var envelope teamEnvelope
		if err := c.http.GetJSON(ctx, fmt.Sprintf("/team/%d", playerID), nil, &envelope); err != nil {
			return player.Profile{}, err
		}
		return mapProfile(playerID, envelope.Team), nil
	})
	if err != nil {
		return player.Profile{}, translateError(err)
	}
	return profile, nil
}

func (c *Client) ListTournaments(ctx context.Context, categoryID int64) ([]usecase.ExternalTournament, error) {
	var envelope tournamentGroupsEnvelope
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/category/%d/unique-tournaments", categoryID), nil, &envelope); err != nil {
		return nil, translateError(err)
	}
	out := make([]usecase.ExternalTournament, 0, 64)
	for _, group := range envelope.Groups {
		for _, item := range group.UniqueTournaments {
			out = append(out, usecase.ExternalTournament{
				ID:           item.ID,
				Name:         item.Name,
				TennisPoints: item.TennisPoints,
			})
		}
	}
	return out, nil
}

func (c *Client) ListSeasons(ctx context.Context, tournamentID int64) ([]usecase.ExternalSeason, error) {
	var envelope seasonsEnvelope
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/unique-tournament/%d/seasons", tournamentID), nil, &envelope); err != nil {
		return nil, translateError(err)
	}
	out := make([]usecase.ExternalSeason, 0, len(envelope.Seasons))
	for _, item := range envelope.Seasons {
		out = append(out, usecase.ExternalSeason{ID: item.ID, Name: item.Name, Year: item.Year})
	}
	return out, nil
}

func (c *Client) ListSeasonEventIDs(ctx context.Context, tournamentID, seasonID int64, page int) ([]int64, error) {
	var envelope eventIDsEnvelope
	path := fmt.Sprintf("/unique-tournament/%d/season/%d/events/last/%d", tournamentID, seasonID, page)
	if err := c.http.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, translateError(err)
	}
	out := make([]int64, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		out = append(out, item.ID)
	}
	return out, nil
}

func mapEvent(item eventPayload) usecase.ExternalEvent {
	ev := usecase.ExternalEvent{
		ID:                 item.ID,
		GroundType:         item.GroundType,
		DefaultPeriodCount: item.DefaultPeriodCount,
		StartTimestamp:     item.StartTimestamp,
		WinnerCode:         item.WinnerCode,
		HomeScore:          mapScore(item.HomeScore),
		AwayScore:          mapScore(item.AwayScore),
	}
	if ut := item.Tournament.UniqueTournament; ut != nil {
		id := ut.ID
		ev.TournamentID = &id
		ev.TournamentName = ut.Name
	}
	if item.Season != nil {
		id := item.Season.ID
		ev.SeasonID = &id
		ev.SeasonYear = item.Season.Year
	}
	if item.RoundInfo != nil {
		ev.Round = item.RoundInfo.Round
	}
	if item.HomeTeam != nil {
		id := item.HomeTeam.ID
		ev.HomeTeamID = &id
	}
	if item.AwayTeam != nil {
		id := item.AwayTeam.ID
		ev.AwayTeamID = &id
	}
	if item.Status != nil {
		ev.StatusCode = item.Status.Code
	}
	return ev
}

func mapScore(s scorePayload) usecase.ExternalScore {
	return usecase.ExternalScore{
		Current: s.Current,
		Periods: [match.SetCount]*int{s.Period1, s.Period2, s.Period3, s.Period4, s.Period5},
	}
}

func mapProfile(playerID int64, team teamPayload) player.Profile {
	profile := player.Profile{
		ID:       playerID,
		FullName: strings.TrimSpace(team.FullName),
	}
	if profile.FullName == "" {
		profile.FullName = strings.TrimSpace(team.Name)
	}
	if info := team.PlayerTeamInfo; info != nil {
		profile.BirthDate = info.BirthDateTimestamp
		profile.Height = info.Height
		profile.Weight = info.Weight
		profile.Hand = player.HandFromPlays(info.Plays)
	}
	if team.Country != nil {
		profile.Country = strings.TrimSpace(team.Country.Alpha3)
	}
	return profile
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fetch.ErrNotFound):
		return fmt.Errorf("%w: %w", usecase.ErrNotFound, err)
	case errors.Is(err, fetch.ErrAccessDenied):
		return fmt.Errorf("%w: %w", usecase.ErrAccessDenied, err)
	case errors.Is(err, fetch.ErrUnavailable):
		return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", providerName, err)
	}
}
