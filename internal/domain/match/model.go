// Package match describes singles match records and the rules that decide
// which of them enter the dataset.
package match

import "github.com/riskibarqy/tennis-history/internal/domain/player"

// StatusCompleted is the provider status code of a finished match.
const StatusCompleted = 100

// NoDataRank is the persisted value of a rank without data.
const NoDataRank = -100

// SetCount is the number of set columns kept per side.
const SetCount = 5

// RankStatus tells where a ranking feature came from.
type RankStatus int

const (
	RankStatusRanked RankStatus = iota
	RankStatusNotRanked
	RankStatusUnresolved
	RankStatusUnknownPlayer
)

func (s RankStatus) String() string {
	switch s {
	case RankStatusRanked:
		return "ranked"
	case RankStatusNotRanked:
		return "not_ranked"
	case RankStatusUnresolved:
		return "unresolved"
	case RankStatusUnknownPlayer:
		return "unknown_player"
	default:
		return "unknown"
	}
}

// Rank is a rank score or the reason there is none.
type Rank struct {
	Status RankStatus
	Score  int
}

func RankedScore(score int) Rank {
	return Rank{Status: RankStatusRanked, Score: score}
}

func NoRank(status RankStatus) Rank {
	return Rank{Status: status}
}

func (r Rank) NoData() bool {
	return r.Status != RankStatusRanked
}

// Value returns the score, or NoDataRank when there is none.
func (r Rank) Value() int {
	if r.NoData() {
		return NoDataRank
	}
	return r.Score
}

// RankFromValue decodes a persisted rank value.
func RankFromValue(v int) Rank {
	if v == NoDataRank {
		return NoRank(RankStatusNotRanked)
	}
	return RankedScore(v)
}

// RankingFeatures are the ranking values of one player as of one match.
type RankingFeatures struct {
	Actual   Rank
	Best     Rank
	BestDate *int64
}

// NoSignal reports that neither the current nor the best rank is known.
func (f RankingFeatures) NoSignal() bool {
	return f.Actual.NoData() && f.Best.NoData()
}

// Participant is one side of a match.
type Participant struct {
	PlayerID  *int64
	BirthDate *int64
	Ranking   RankingFeatures
	Height    *float64
	Weight    *float64
	Hand      player.Hand
	Country   string

	// Score and set columns are only filled for history records.
	Score      *int
	Sets       [SetCount]int
	TotalGames int
}

func (p Participant) HasPhysical() bool {
	return p.Height != nil || p.Weight != nil
}

// Record is one match row. Current records carry implied probabilities;
// history records carry scores, NextEventID and LastMatchTimestamp.
type Record struct {
	TournamentID   *int64
	TournamentName string
	SeasonID       *int64
	EventID        int64
	Round          *int
	GroundType     string
	PeriodCount    int
	WinnerCode     *int
	StartTimestamp *int64
	Year           *int
	Status         *int

	Home Participant
	Away Participant

	ProbabilityHome *float64
	ProbabilityAway *float64

	NextEventID        *int64
	LastMatchTimestamp *int64
}

// Swapped returns the record seen from the other side: every home/away
// pair exchanged and the winner code flipped.
func (r Record) Swapped() Record {
	out := r
	out.Home, out.Away = r.Away, r.Home
	out.ProbabilityHome, out.ProbabilityAway = r.ProbabilityAway, r.ProbabilityHome
	if r.WinnerCode != nil {
		flipped := *r.WinnerCode
		switch flipped {
		case 0:
			flipped = 1
		case 1:
			flipped = 0
		}
		out.WinnerCode = &flipped
	}
	return out
}

// HomeID returns the home player id, or 0 when absent.
func (r Record) HomeID() int64 {
	return idOrZero(r.Home.PlayerID)
}

// AwayID returns the away player id, or 0 when absent.
func (r Record) AwayID() int64 {
	return idOrZero(r.Away.PlayerID)
}

// StartTime returns the start timestamp, or 0 when absent.
func (r Record) StartTime() int64 {
	if r.StartTimestamp == nil {
		return 0
	}
	return *r.StartTimestamp
}

func idOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
