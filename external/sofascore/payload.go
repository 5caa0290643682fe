package sofascore

type eventEnvelope struct {
	Event eventPayload `json:"event"`
}

type eventsEnvelope struct {
	Events      []eventPayload `json:"events"`
	HasNextPage bool           `json:"hasNextPage"`
}

type eventPayload struct {
	ID                 int64          `json:"id"`
	Tournament         tournamentRef  `json:"tournament"`
	Season             *seasonRef     `json:"season"`
	GroundType         string         `json:"groundType"`
	RoundInfo          *roundInfo     `json:"roundInfo"`
	DefaultPeriodCount *int           `json:"defaultPeriodCount"`
	StartTimestamp     *int64         `json:"startTimestamp"`
	HomeTeam           *teamRef       `json:"homeTeam"`
	AwayTeam           *teamRef       `json:"awayTeam"`
	WinnerCode         *int           `json:"winnerCode"`
	Status             *statusPayload `json:"status"`
	HomeScore          scorePayload   `json:"homeScore"`
	AwayScore          scorePayload   `json:"awayScore"`
}

type tournamentRef struct {
	Name             string               `json:"name"`
	UniqueTournament *uniqueTournamentRef `json:"uniqueTournament"`
}

type uniqueTournamentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type seasonRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Year string `json:"year"`
}

type roundInfo struct {
	Round *int `json:"round"`
}

type teamRef struct {
	ID int64 `json:"id"`
}

type statusPayload struct {
	Code *int   `json:"code"`
	Type string `json:"type"`
}

type scorePayload struct {
	Current *int `json:"current"`
	Period1 *int `json:"period1"`
	Period2 *int `json:"period2"`
	Period3 *int `json:"period3"`
	Period4 *int `json:"period4"`
	Period5 *int `json:"period5"`
}

type oddsEnvelope struct {
	Featured struct {
		Default *struct {
			Choices []oddsChoice `json:"choices"`
		} `json:"default"`
	} `json:"featured"`
}

type oddsChoice struct {
	Name                   string `json:"name"`
	InitialFractionalValue string `json:"initialFractionalValue"`
	FractionalValue        string `json:"fractionalValue"`
}

type teamEnvelope struct {
	Team teamPayload `json:"team"`
}

type teamPayload struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	FullName       string          `json:"fullName"`
	PlayerTeamInfo *playerTeamInfo `json:"playerTeamInfo"`
	Country        *countryRef     `json:"country"`
}

type playerTeamInfo struct {
	BirthDateTimestamp *int64   `json:"birthDateTimestamp"`
	Height             *float64 `json:"height"`
	Weight             *float64 `json:"weight"`
	Plays              string   `json:"plays"`
}

type countryRef struct {
	Alpha2 string `json:"alpha2"`
	Alpha3 string `json:"alpha3"`
	Name   string `json:"name"`
}

type tournamentGroupsEnvelope struct {
	Groups []struct {
		Name              string              `json:"name"`
		UniqueTournaments []tournamentPayload `json:"uniqueTournaments"`
	} `json:"groups"`
}

type tournamentPayload struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TennisPoints *int   `json:"tennisPoints"`
}

type seasonsEnvelope struct {
	Seasons []seasonRef `json:"seasons"`
}

type eventIDsEnvelope struct {
	Events []struct {
		ID int64 `json:"id"`
	} `json:"events"`
}
