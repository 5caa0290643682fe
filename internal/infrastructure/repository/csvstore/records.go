package csvstore

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
)

var baseColumns = []string{
	"idTournament", "tournamentName", "idSeason", "idEvent", "round", "groundType", "periodCount",
	"winnerCode", "startTimestamp", "year",
}

var participantColumns = []string{
	"id", "birthDate", "ActualRanking", "BestRanking", "BestRankingDate",
	"Height", "Weight", "RightHanded", "country",
}

var (
	currentColumns  = buildColumns(false)
	previousColumns = buildColumns(true)
)

// participantColumn returns the column name of field for side, following
// the table convention ("idHome", "HeightAway", ...).
func participantColumn(field, side string) string {
	return field + side
}

func setColumn(set int, side string) string {
	return "set" + strconv.Itoa(set+1) + "performance" + side
}

func buildColumns(history bool) []string {
	columns := append([]string(nil), baseColumns...)
	for _, side := range []string{"Home", "Away"} {
		for _, field := range participantColumns {
			columns = append(columns, participantColumn(field, side))
		}
	}
	columns = append(columns, "status")
	if !history {
		return append(columns, "ProbabilityHome", "ProbabilityAway")
	}
	columns = append(columns, "homeScore", "awayScore")
	for set := 0; set < match.SetCount; set++ {
		columns = append(columns, setColumn(set, "Home"), setColumn(set, "Away"))
	}
	return append(columns, "totalGamesHome", "totalGamesAway", "lastMatchTimestamp", "idNext")
}

func writeRecords(w *csv.Writer, columns []string, records []match.Record, row func(match.Record) []string) error {
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(row(rec)); err != nil {
			return err
		}
	}
	return nil
}

func baseRow(rec match.Record) []string {
	event := rec.EventID
	period := rec.PeriodCount
	return []string{
		formatInt64(rec.TournamentID),
		rec.TournamentName,
		formatInt64(rec.SeasonID),
		formatInt64(&event),
		formatInt(rec.Round),
		rec.GroundType,
		formatInt(&period),
		formatInt(rec.WinnerCode),
		formatInt64(rec.StartTimestamp),
		formatInt(rec.Year),
	}
}

func participantRow(p match.Participant) []string {
	actual := p.Ranking.Actual.Value()
	best := p.Ranking.Best.Value()
	return []string{
		formatInt64(p.PlayerID),
		formatInt64(p.BirthDate),
		formatInt(&actual),
		formatInt(&best),
		formatInt64(p.Ranking.BestDate),
		formatFloat(p.Height),
		formatFloat(p.Weight),
		formatHand(p.Hand),
		p.Country,
	}
}

func currentRow(rec match.Record) []string {
	row := baseRow(rec)
	row = append(row, participantRow(rec.Home)...)
	row = append(row, participantRow(rec.Away)...)
	return append(row,
		formatInt(rec.Status),
		formatFloat(rec.ProbabilityHome),
		formatFloat(rec.ProbabilityAway),
	)
}

func previousRow(rec match.Record) []string {
	row := baseRow(rec)
	row = append(row, participantRow(rec.Home)...)
	row = append(row, participantRow(rec.Away)...)
	row = append(row, formatInt(rec.Status), formatInt(rec.Home.Score), formatInt(rec.Away.Score))
	for set := 0; set < match.SetCount; set++ {
		row = append(row, strconv.Itoa(rec.Home.Sets[set]), strconv.Itoa(rec.Away.Sets[set]))
	}
	return append(row,
		strconv.Itoa(rec.Home.TotalGames),
		strconv.Itoa(rec.Away.TotalGames),
		formatInt64(rec.LastMatchTimestamp),
		formatInt64(rec.NextEventID),
	)
}

func formatHand(h player.Hand) string {
	switch h {
	case player.HandRight:
		return "1"
	case player.HandLeft:
		return "0"
	default:
		return ""
	}
}

func parseHand(v *int) player.Hand {
	switch {
	case v == nil:
		return player.HandUnknown
	case *v == 1:
		return player.HandRight
	default:
		return player.HandLeft
	}
}

func readCurrent(src io.Reader) ([]match.Record, error) {
	return readRecords(src, false)
}

func readPrevious(src io.Reader) ([]match.Record, error) {
	return readRecords(src, true)
}

func readRecords(src io.Reader, history bool) ([]match.Record, error) {
	var out []match.Record
	err := readTable(src, []string{"idEvent", "idHome", "idAway"}, func(r *rowReader) error {
		rec := readBase(r)
		rec.Home = readParticipant(r, "Home")
		rec.Away = readParticipant(r, "Away")
		rec.Status = r.intp("status")
		if history {
			rec.Home.Score = r.intp("homeScore")
			rec.Away.Score = r.intp("awayScore")
			for set := 0; set < match.SetCount; set++ {
				rec.Home.Sets[set] = intOrZero(r.intp(setColumn(set, "Home")))
				rec.Away.Sets[set] = intOrZero(r.intp(setColumn(set, "Away")))
			}
			rec.Home.TotalGames = intOrZero(r.intp("totalGamesHome"))
			rec.Away.TotalGames = intOrZero(r.intp("totalGamesAway"))
			rec.LastMatchTimestamp = r.int64p("lastMatchTimestamp")
			rec.NextEventID = r.int64p("idNext")
		} else {
			rec.ProbabilityHome = r.floatp("ProbabilityHome")
			rec.ProbabilityAway = r.floatp("ProbabilityAway")
		}
		if r.err != nil {
			return r.err
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func readBase(r *rowReader) match.Record {
	rec := match.Record{
		TournamentID:   r.int64p("idTournament"),
		TournamentName: r.str("tournamentName"),
		SeasonID:       r.int64p("idSeason"),
		Round:          r.intp("round"),
		GroundType:     r.str("groundType"),
		WinnerCode:     r.intp("winnerCode"),
		StartTimestamp: r.int64p("startTimestamp"),
		Year:           r.intp("year"),
	}
	if id := r.int64p("idEvent"); id != nil {
		rec.EventID = *id
	}
	rec.PeriodCount = intOrZero(r.intp("periodCount"))
	return rec
}

func readParticipant(r *rowReader, side string) match.Participant {
	col := func(field string) string { return participantColumn(field, side) }
	p := match.Participant{
		PlayerID:  r.int64p(col("id")),
		BirthDate: r.int64p(col("birthDate")),
		Height:    r.floatp(col("Height")),
		Weight:    r.floatp(col("Weight")),
		Hand:      parseHand(r.intp(col("RightHanded"))),
		Country:   r.str(col("country")),
	}
	p.Ranking = match.RankingFeatures{
		Actual:   readRank(r.intp(col("ActualRanking"))),
		Best:     readRank(r.intp(col("BestRanking"))),
		BestDate: r.int64p(col("BestRankingDate")),
	}
	return p
}

func readRank(v *int) match.Rank {
	if v == nil {
		return match.NoRank(match.RankStatusUnresolved)
	}
	return match.RankFromValue(*v)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
