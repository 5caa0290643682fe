package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultPeriodCount = 3

// Tournaments played best of five regardless of the event payload.
var bestOfFiveTournaments = map[string]struct{}{
	"Next Gen Finals":                    {},
	"Australian Open Australian Playoff": {},
}

// RecordAssembler turns event payloads into match records with both
// participants resolved against the ranking store.
type RecordAssembler struct {
	source   MatchSource
	profiles *ProfileService
	resolver *IdentityResolver
	rules    match.Rules
	logger   *logging.Logger
}

func NewRecordAssembler(source MatchSource, profiles *ProfileService, resolver *IdentityResolver, rules match.Rules, logger *logging.Logger) *RecordAssembler {
	if logger == nil {
		logger = logging.Default()
	}
	return &RecordAssembler{
		source:   source,
		profiles: profiles,
		resolver: resolver,
		rules:    rules,
		logger:   logger,
	}
}

// Current fetches eventID and assembles it as a current match, odds
// included.
func (a *RecordAssembler) Current(ctx context.Context, eventID int64) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecordAssembler.Current",
		attribute.Int64("event.id", eventID),
	)
	defer span.End()

	ev, err := a.source.GetEvent(ctx, eventID)
	if err != nil {
		return match.Record{}, fmt.Errorf("get event %d: %w", eventID, err)
	}
	ev.ID = eventID

	rec, err := a.assemble(ctx, ev, match.ModeCurrent)
	if err != nil {
		return match.Record{}, err
	}
	if rec.Home.PlayerID == nil || rec.Away.PlayerID == nil {
		return rec, nil
	}

	odds, err := a.source.GetOdds(ctx, eventID)
	switch {
	case errors.Is(err, ErrAccessDenied):
		return match.Record{}, err
	case err != nil:
		a.logger.DebugContext(ctx, "odds unavailable", "event_id", eventID, "error", err)
	default:
		if p, ok := match.ImpliedProbability(odds.HomeFractional); ok {
			rec.ProbabilityHome = &p
		}
		if p, ok := match.ImpliedProbability(odds.AwayFractional); ok {
			rec.ProbabilityAway = &p
		}
	}
	return rec, nil
}

// History assembles an event taken from a player's history page.
func (a *RecordAssembler) History(ctx context.Context, ev ExternalEvent) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecordAssembler.History",
		attribute.Int64("event.id", ev.ID),
	)
	defer span.End()

	return a.assemble(ctx, ev, match.ModeHistory)
}

func (a *RecordAssembler) assemble(ctx context.Context, ev ExternalEvent, mode match.Mode) (match.Record, error) {
	rec := match.Record{
		TournamentID:   ev.TournamentID,
		TournamentName: strings.TrimSpace(ev.TournamentName),
		SeasonID:       ev.SeasonID,
		EventID:        ev.ID,
		Round:          ev.Round,
		GroundType:     strings.TrimSpace(ev.GroundType),
		PeriodCount:    periodCount(ev),
		StartTimestamp: ev.StartTimestamp,
		Year:           seasonYear(ev.SeasonYear),
	}

	// Excluded events never reach the profile lookups.
	if rec.TournamentName != "" && a.rules.IsExcludedTournament(rec.TournamentName) {
		return rec, nil
	}

	asOf := rec.StartTime()
	home, err := a.participant(ctx, ev.HomeTeamID, asOf)
	if err != nil {
		return match.Record{}, err
	}
	away, err := a.participant(ctx, ev.AwayTeamID, asOf)
	if err != nil {
		return match.Record{}, err
	}
	rec.Home, rec.Away = home, away

	if ev.WinnerCode != nil {
		winner := *ev.WinnerCode - 1
		rec.WinnerCode = &winner
	}
	rec.Status = ev.StatusCode

	if mode == match.ModeHistory {
		fillScore(&rec.Home, ev.HomeScore)
		fillScore(&rec.Away, ev.AwayScore)
	}
	return rec, nil
}

func (a *RecordAssembler) participant(ctx context.Context, teamID *int64, asOf int64) (match.Participant, error) {
	if teamID == nil {
		return match.Participant{}, nil
	}

	id := *teamID
	out := match.Participant{
		PlayerID: &id,
		Ranking: match.RankingFeatures{
			Actual: match.NoRank(match.RankStatusUnresolved),
			Best:   match.NoRank(match.RankStatusUnresolved),
		},
	}

	profile, ok, err := a.profiles.Get(ctx, id)
	if err != nil {
		return match.Participant{}, err
	}
	if !ok {
		return out, nil
	}

	out.BirthDate = profile.BirthDate
	out.Height = profile.Height
	out.Weight = profile.Weight
	out.Hand = profile.Hand
	out.Country = profile.Country

	res, err := a.resolver.ResolveAndMaybeUpdate(ctx, profile, asOf)
	if err != nil {
		return match.Participant{}, fmt.Errorf("resolve player %d: %w", id, err)
	}
	out.Ranking = res.Ranking
	return out, nil
}

func fillScore(p *match.Participant, score ExternalScore) {
	p.Score = score.Current
	total := 0
	for i, games := range score.Periods {
		if games != nil {
			p.Sets[i] = *games
			total += *games
		}
	}
	p.TotalGames = total
}

func periodCount(ev ExternalEvent) int {
	if _, ok := bestOfFiveTournaments[strings.TrimSpace(ev.TournamentName)]; ok {
		return 5
	}
	if ev.DefaultPeriodCount != nil {
		return *ev.DefaultPeriodCount
	}
	return defaultPeriodCount
}

func seasonYear(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	// Seasons spanning two years are labelled "23/24"; keep the first part.
	if head, _, ok := strings.Cut(raw, "/"); ok {
		raw = head
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &year
}
