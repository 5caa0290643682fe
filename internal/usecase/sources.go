package usecase

import (
	"context"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
)

// MatchSource is the remote provider of events, player pages and profiles.
// Missing resources are reported with ErrNotFound and a permanent denial
// with ErrAccessDenied.
type MatchSource interface {
	GetEvent(ctx context.Context, eventID int64) (ExternalEvent, error)
	// GetPlayerEvents returns one page of a player's finished events in
	// provider order: page 0 is the most recent page and each page lists
	// its events oldest first.
	GetPlayerEvents(ctx context.Context, playerID int64, page int) ([]ExternalEvent, error)
	GetOdds(ctx context.Context, eventID int64) (ExternalOdds, error)
	GetPlayer(ctx context.Context, playerID int64) (player.Profile, error)
	ListTournaments(ctx context.Context, categoryID int64) ([]ExternalTournament, error)
	ListSeasons(ctx context.Context, tournamentID int64) ([]ExternalSeason, error)
	ListSeasonEventIDs(ctx context.Context, tournamentID, seasonID int64, page int) ([]int64, error)
}

// RankingSource is the remote provider of weekly ranking tables.
type RankingSource interface {
	ListRankingDates(ctx context.Context) ([]int64, error)
	GetRankingPage(ctx context.Context, date int64, page int) ([]ExternalRankingEntry, error)
	GetPlayerBio(ctx context.Context, name string) (ExternalPlayerBio, error)
}

// ExternalEvent is a match as described by the match source. Absent
// fields stay nil.
type ExternalEvent struct {
	ID                 int64
	TournamentID       *int64
	TournamentName     string
	SeasonID           *int64
	SeasonYear         string
	GroundType         string
	Round              *int
	DefaultPeriodCount *int
	StartTimestamp     *int64
	HomeTeamID         *int64
	AwayTeamID         *int64
	WinnerCode         *int
	StatusCode         *int
	HomeScore          ExternalScore
	AwayScore          ExternalScore
}

type ExternalScore struct {
	Current *int
	Periods [match.SetCount]*int
}

// ExternalOdds holds the opening fractional prices of the featured market.
type ExternalOdds struct {
	HomeFractional string
	AwayFractional string
}

type ExternalTournament struct {
	ID           int64
	Name         string
	TennisPoints *int
}

type ExternalSeason struct {
	ID   int64
	Name string
	Year string
}

type ExternalRankingEntry struct {
	PlayerName string
	Position   int
}

type ExternalPlayerBio struct {
	BirthDate *int64
	Country   string
}
