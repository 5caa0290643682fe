package match

import "strings"

// Mode selects which extra admission rules apply.
type Mode int

const (
	ModeCurrent Mode = iota
	ModeHistory
)

func (m Mode) String() string {
	if m == ModeCurrent {
		return "current"
	}
	return "history"
}

// RejectReason names the first admission rule a record failed. The empty
// reason means the record is admissible.
type RejectReason string

const (
	RejectNone             RejectReason = ""
	RejectMissingPlayer    RejectReason = "missing_player"
	RejectMissingTourney   RejectReason = "missing_tournament"
	RejectExcludedTourney  RejectReason = "excluded_tournament"
	RejectMissingGround    RejectReason = "missing_ground_type"
	RejectMissingWinner    RejectReason = "missing_winner"
	RejectNotCompleted     RejectReason = "not_completed"
	RejectMissingPhysical  RejectReason = "missing_physical"
	RejectMissingBirthDate RejectReason = "missing_birth_date"
	RejectNoRanking        RejectReason = "no_ranking"
	RejectMissingScore     RejectReason = "missing_score"
	RejectNoGamesPlayed    RejectReason = "no_games_played"
)

// DefaultExcludedMarkers flags exhibitions, team cups and doubles events.
var DefaultExcludedMarkers = []string{"Exhibition", "Davis", "Doubles", "Double"}

// Rules holds the tunables of the selection filter.
type Rules struct {
	ExcludedMarkers []string
}

func DefaultRules() Rules {
	return Rules{ExcludedMarkers: DefaultExcludedMarkers}
}

// IsExcludedTournament reports whether name contains an excluded marker.
func (r Rules) IsExcludedTournament(name string) bool {
	for _, marker := range r.ExcludedMarkers {
		if marker != "" && strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// Check returns the reason rec must be dropped in the given mode, or
// RejectNone when it is admissible.
func (r Rules) Check(rec Record, mode Mode) RejectReason {
	if rec.Home.PlayerID == nil || rec.Away.PlayerID == nil {
		return RejectMissingPlayer
	}
	if strings.TrimSpace(rec.TournamentName) == "" {
		return RejectMissingTourney
	}
	if r.IsExcludedTournament(rec.TournamentName) {
		return RejectExcludedTourney
	}
	if strings.TrimSpace(rec.GroundType) == "" {
		return RejectMissingGround
	}
	if rec.WinnerCode == nil {
		return RejectMissingWinner
	}
	if rec.Status == nil || *rec.Status != StatusCompleted {
		return RejectNotCompleted
	}
	if !rec.Home.HasPhysical() || !rec.Away.HasPhysical() {
		return RejectMissingPhysical
	}
	if rec.Home.BirthDate == nil || rec.Away.BirthDate == nil {
		return RejectMissingBirthDate
	}

	switch mode {
	case ModeCurrent:
		if rec.Home.Ranking.NoSignal() || rec.Away.Ranking.NoSignal() {
			return RejectNoRanking
		}
	case ModeHistory:
		if rec.Home.Score == nil || rec.Away.Score == nil {
			return RejectMissingScore
		}
		if *rec.Home.Score == 0 && *rec.Away.Score == 0 {
			return RejectNoGamesPlayed
		}
	}

	return RejectNone
}
