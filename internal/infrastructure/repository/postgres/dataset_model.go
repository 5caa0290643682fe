package postgres

import (
	"github.com/lib/pq"
	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
)

const (
	currentMatchesTable  = "current_matches"
	previousMatchesTable = "previous_matches"
)

type matchBaseModel struct {
	RunID          string   `db:"run_id"`
	RowIndex       int      `db:"row_index"`
	EventID        int64    `db:"event_id"`
	TournamentID   *int64   `db:"tournament_id"`
	TournamentName string   `db:"tournament_name"`
	SeasonID       *int64   `db:"season_id"`
	Round          *int     `db:"round"`
	GroundType     string   `db:"ground_type"`
	PeriodCount    int      `db:"period_count"`
	WinnerCode     *int     `db:"winner_code"`
	StartTimestamp *int64   `db:"start_timestamp"`
	Year           *int     `db:"year"`
	Status         *int     `db:"status"`
	HomeID         *int64   `db:"home_id"`
	HomeBirthDate  *int64   `db:"home_birth_date"`
	HomeRanking    int      `db:"home_actual_ranking"`
	HomeBest       int      `db:"home_best_ranking"`
	HomeBestDate   *int64   `db:"home_best_ranking_date"`
	HomeHeight     *float64 `db:"home_height"`
	HomeWeight     *float64 `db:"home_weight"`
	HomeRightHand  *bool    `db:"home_right_handed"`
	HomeCountry    string   `db:"home_country"`
	AwayID         *int64   `db:"away_id"`
	AwayBirthDate  *int64   `db:"away_birth_date"`
	AwayRanking    int      `db:"away_actual_ranking"`
	AwayBest       int      `db:"away_best_ranking"`
	AwayBestDate   *int64   `db:"away_best_ranking_date"`
	AwayHeight     *float64 `db:"away_height"`
	AwayWeight     *float64 `db:"away_weight"`
	AwayRightHand  *bool    `db:"away_right_handed"`
	AwayCountry    string   `db:"away_country"`
}

type currentMatchModel struct {
	matchBaseModel
	ProbabilityHome *float64 `db:"probability_home"`
	ProbabilityAway *float64 `db:"probability_away"`
}

type previousMatchModel struct {
	matchBaseModel
	HomeScore          *int          `db:"home_score"`
	AwayScore          *int          `db:"away_score"`
	HomeSets           pq.Int64Array `db:"home_sets"`
	AwaySets           pq.Int64Array `db:"away_sets"`
	HomeTotalGames     int           `db:"home_total_games"`
	AwayTotalGames     int           `db:"away_total_games"`
	LastMatchTimestamp *int64        `db:"last_match_timestamp"`
	NextEventID        *int64        `db:"next_event_id"`
}

func matchBaseFromRecord(runID string, index int, rec match.Record) matchBaseModel {
	return matchBaseModel{
		RunID:          runID,
		RowIndex:       index,
		EventID:        rec.EventID,
		TournamentID:   rec.TournamentID,
		TournamentName: rec.TournamentName,
		SeasonID:       rec.SeasonID,
		Round:          rec.Round,
		GroundType:     rec.GroundType,
		PeriodCount:    rec.PeriodCount,
		WinnerCode:     rec.WinnerCode,
		StartTimestamp: rec.StartTimestamp,
		Year:           rec.Year,
		Status:         rec.Status,
		HomeID:         rec.Home.PlayerID,
		HomeBirthDate:  rec.Home.BirthDate,
		HomeRanking:    rec.Home.Ranking.Actual.Value(),
		HomeBest:       rec.Home.Ranking.Best.Value(),
		HomeBestDate:   rec.Home.Ranking.BestDate,
		HomeHeight:     rec.Home.Height,
		HomeWeight:     rec.Home.Weight,
		HomeRightHand:  rightHanded(rec.Home.Hand),
		HomeCountry:    rec.Home.Country,
		AwayID:         rec.Away.PlayerID,
		AwayBirthDate:  rec.Away.BirthDate,
		AwayRanking:    rec.Away.Ranking.Actual.Value(),
		AwayBest:       rec.Away.Ranking.Best.Value(),
		AwayBestDate:   rec.Away.Ranking.BestDate,
		AwayHeight:     rec.Away.Height,
		AwayWeight:     rec.Away.Weight,
		AwayRightHand:  rightHanded(rec.Away.Hand),
		AwayCountry:    rec.Away.Country,
	}
}

func currentMatchFromRecord(runID string, index int, rec match.Record) currentMatchModel {
	return currentMatchModel{
		matchBaseModel:  matchBaseFromRecord(runID, index, rec),
		ProbabilityHome: rec.ProbabilityHome,
		ProbabilityAway: rec.ProbabilityAway,
	}
}

func previousMatchFromRecord(runID string, index int, rec match.Record) previousMatchModel {
	return previousMatchModel{
		matchBaseModel:     matchBaseFromRecord(runID, index, rec),
		HomeScore:          rec.Home.Score,
		AwayScore:          rec.Away.Score,
		HomeSets:           setsArray(rec.Home.Sets),
		AwaySets:           setsArray(rec.Away.Sets),
		HomeTotalGames:     rec.Home.TotalGames,
		AwayTotalGames:     rec.Away.TotalGames,
		LastMatchTimestamp: rec.LastMatchTimestamp,
		NextEventID:        rec.NextEventID,
	}
}

func rightHanded(h player.Hand) *bool {
	var v bool
	switch h {
	case player.HandRight:
		v = true
	case player.HandLeft:
		v = false
	default:
		return nil
	}
	return &v
}

func setsArray(sets [match.SetCount]int) pq.Int64Array {
	out := make(pq.Int64Array, len(sets))
	for i, games := range sets {
		out[i] = int64(games)
	}
	return out
}
