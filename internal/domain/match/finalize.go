package match

// Grand Slam unique tournament ids at the match source.
const (
	TournamentWimbledon      int64 = 2361
	TournamentAustralianOpen int64 = 2363
	TournamentUSOpen         int64 = 2449
	TournamentRolandGarros   int64 = 2480
)

// Seasons whose round numbering put the last two main-draw rounds at 1 and 2.
const (
	seasonUSOpenFinalsAsRounds    int64 = 45261
	seasonWimbledonFinalsAsRounds int64 = 42300
)

type slamPeriodRule struct {
	bestOfThreeRounds map[int]struct{}
	// lateRoundSeason is the season where rounds 1 and 2 are the final and
	// semi-finals (best of five); elsewhere they are qualifying rounds.
	lateRoundSeason int64
}

var slamPeriodRules = map[int64]slamPeriodRule{
	TournamentRolandGarros:   {bestOfThreeRounds: roundSet(14, 15, 19, 1, 2, 0)},
	TournamentAustralianOpen: {bestOfThreeRounds: roundSet(60, 15, 19, 14)},
	TournamentUSOpen:         {bestOfThreeRounds: roundSet(0, 14, 15, 19), lateRoundSeason: seasonUSOpenFinalsAsRounds},
	TournamentWimbledon:      {bestOfThreeRounds: roundSet(19), lateRoundSeason: seasonWimbledonFinalsAsRounds},
}

var groundTypeAliases = map[string]string{
	"Clay":            "Red clay",
	"Red clay indoor": "Red clay",
	"Carpet indoor":   "Hardcourt indoor",
}

func roundSet(rounds ...int) map[int]struct{} {
	out := make(map[int]struct{}, len(rounds))
	for _, r := range rounds {
		out[r] = struct{}{}
	}
	return out
}

// Finalize applies the last corrections before a record is exported:
// Grand Slam best-of counts per round, surface aliases and zero defaults
// for missing identifiers.
func (r Record) Finalize(history bool) Record {
	out := r
	out.TournamentID = zeroIfNil(r.TournamentID)
	out.SeasonID = zeroIfNil(r.SeasonID)
	if out.Round == nil {
		zero := 0
		out.Round = &zero
	}
	if out.Year == nil {
		zero := 0
		out.Year = &zero
	}
	if history {
		out.NextEventID = zeroIfNil(r.NextEventID)
	}

	if rule, ok := slamPeriodRules[*out.TournamentID]; ok {
		round := *out.Round
		out.PeriodCount = 5
		if _, short := rule.bestOfThreeRounds[round]; short {
			out.PeriodCount = 3
		}
		if rule.lateRoundSeason != 0 && (round == 1 || round == 2) {
			if *out.SeasonID == rule.lateRoundSeason {
				out.PeriodCount = 5
			} else {
				out.PeriodCount = 3
			}
		}
	}

	if alias, ok := groundTypeAliases[out.GroundType]; ok {
		out.GroundType = alias
	}

	return out
}

func zeroIfNil(v *int64) *int64 {
	if v != nil {
		return v
	}
	zero := int64(0)
	return &zero
}
