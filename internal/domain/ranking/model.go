// Package ranking holds the point-in-time ranking snapshot table.
package ranking

// NoRank marks a publication date on which a player held no ranking.
const NoRank int32 = -1

// DefaultTotalSlots is the number of tracked ranking places.
const DefaultTotalSlots = 900

// Status tells how a ranking lookup ended.
type Status int

const (
	StatusRanked Status = iota
	StatusNotRanked
	StatusUnknownPlayer
)

func (s Status) String() string {
	switch s {
	case StatusRanked:
		return "ranked"
	case StatusNotRanked:
		return "not_ranked"
	case StatusUnknownPlayer:
		return "unknown_player"
	default:
		return "unknown"
	}
}

// Row is one player of the snapshot table. Ranks is aligned with the
// store's publication dates.
type Row struct {
	NameKey   string
	BirthDate *int64
	Country   string
	Ranks     []int32
}

func (r Row) clone() Row {
	out := r
	if r.BirthDate != nil {
		bd := *r.BirthDate
		out.BirthDate = &bd
	}
	out.Ranks = append([]int32(nil), r.Ranks...)
	return out
}

// Lookup is the answer to a rank query. Rank, Score and Date are only
// meaningful when Status is StatusRanked.
type Lookup struct {
	Status Status
	Rank   int
	Score  int
	Date   int64
}

func (l Lookup) Ranked() bool {
	return l.Status == StatusRanked
}
