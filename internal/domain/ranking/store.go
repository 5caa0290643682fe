package ranking

import (
	"fmt"
	"sort"
)

// Store is the in-memory ranking snapshot table. It is owned by a single
// run and is not safe for concurrent mutation.
type Store struct {
	totalSlots int
	dates      []int64
	rows       []*Row
	index      map[string]int
}

func NewStore(totalSlots int) *Store {
	if totalSlots <= 0 {
		totalSlots = DefaultTotalSlots
	}
	return &Store{
		totalSlots: totalSlots,
		index:      make(map[string]int),
	}
}

// FromTable builds a store from a persisted table whose rank columns may
// come in any date order. Rows repeating an existing name key are dropped
// and their keys returned.
func FromTable(totalSlots int, dates []int64, rows []Row) (*Store, []string, error) {
	order := make([]int, len(dates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return dates[order[i]] < dates[order[j]] })

	s := NewStore(totalSlots)
	s.dates = make([]int64, len(dates))
	for i, src := range order {
		s.dates[i] = dates[src]
	}
	for i := 1; i < len(s.dates); i++ {
		if s.dates[i] == s.dates[i-1] {
			return nil, nil, fmt.Errorf("duplicate ranking date %d", s.dates[i])
		}
	}

	var dropped []string
	for _, row := range rows {
		if len(row.Ranks) != len(dates) {
			return nil, nil, fmt.Errorf("row %q has %d ranks, want %d", row.NameKey, len(row.Ranks), len(dates))
		}
		if _, exists := s.index[row.NameKey]; exists {
			dropped = append(dropped, row.NameKey)
			continue
		}
		item := row.clone()
		for i, src := range order {
			item.Ranks[i] = row.Ranks[src]
		}
		s.index[item.NameKey] = len(s.rows)
		s.rows = append(s.rows, &item)
	}

	return s, dropped, nil
}

func (s *Store) TotalSlots() int {
	return s.totalSlots
}

func (s *Store) Len() int {
	return len(s.rows)
}

// Dates returns the publication dates in ascending order.
func (s *Store) Dates() []int64 {
	return append([]int64(nil), s.dates...)
}

func (s *Store) HasDate(ts int64) bool {
	i := sort.Search(len(s.dates), func(i int) bool { return s.dates[i] >= ts })
	return i < len(s.dates) && s.dates[i] == ts
}

// Rows returns copies of every row in insertion order.
func (s *Store) Rows() []Row {
	out := make([]Row, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row.clone())
	}
	return out
}

func (s *Store) Row(key string) (Row, bool) {
	i, ok := s.index[key]
	if !ok {
		return Row{}, false
	}
	return s.rows[i].clone(), true
}

func (s *Store) Contains(key string) bool {
	_, ok := s.index[key]
	return ok
}

// AddDate inserts a publication date column with every rank absent.
// It reports whether the column was new.
func (s *Store) AddDate(ts int64) bool {
	i := sort.Search(len(s.dates), func(i int) bool { return s.dates[i] >= ts })
	if i < len(s.dates) && s.dates[i] == ts {
		return false
	}
	s.dates = append(s.dates, 0)
	copy(s.dates[i+1:], s.dates[i:])
	s.dates[i] = ts
	for _, row := range s.rows {
		row.Ranks = append(row.Ranks, 0)
		copy(row.Ranks[i+1:], row.Ranks[i:])
		row.Ranks[i] = NoRank
	}
	return true
}

// AddPlayer appends a row with no observations. Existing keys are left
// untouched and reported as not added.
func (s *Store) AddPlayer(key string, birthDate *int64, country string) bool {
	if key == "" {
		return false
	}
	if _, ok := s.index[key]; ok {
		return false
	}
	ranks := make([]int32, len(s.dates))
	for i := range ranks {
		ranks[i] = NoRank
	}
	row := Row{NameKey: key, Country: country, Ranks: ranks}
	if birthDate != nil {
		bd := *birthDate
		row.BirthDate = &bd
	}
	s.index[key] = len(s.rows)
	s.rows = append(s.rows, &row)
	return true
}

func (s *Store) SetRank(key string, date int64, rank int) error {
	i, ok := s.index[key]
	if !ok {
		return fmt.Errorf("unknown player %q", key)
	}
	col := sort.Search(len(s.dates), func(j int) bool { return s.dates[j] >= date })
	if col >= len(s.dates) || s.dates[col] != date {
		return fmt.Errorf("unknown ranking date %d", date)
	}
	if rank <= 0 {
		return fmt.Errorf("rank must be > 0, got %d", rank)
	}
	s.rows[i].Ranks[col] = int32(rank)
	return nil
}

func (s *Store) SetCountry(key, country string) bool {
	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.rows[i].Country = country
	return true
}

func (s *Store) SetBirthDate(key string, birthDate int64) bool {
	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.rows[i].BirthDate = &birthDate
	return true
}

// Rename moves a row to a new name key.
func (s *Store) Rename(from, to string) error {
	if from == to {
		return nil
	}
	i, ok := s.index[from]
	if !ok {
		return fmt.Errorf("unknown player %q", from)
	}
	if _, taken := s.index[to]; taken {
		return fmt.Errorf("name key %q already in use", to)
	}
	delete(s.index, from)
	s.rows[i].NameKey = to
	s.index[to] = i
	return nil
}

// RankAt returns the score of the latest observation at or before ts.
func (s *Store) RankAt(key string, ts int64) Lookup {
	i, ok := s.index[key]
	if !ok {
		return Lookup{Status: StatusUnknownPlayer}
	}
	last := s.lastDateAtOrBefore(ts)
	if last < 0 {
		return Lookup{Status: StatusNotRanked}
	}
	rank := s.rows[i].Ranks[last]
	if rank == NoRank {
		return Lookup{Status: StatusNotRanked}
	}
	return s.ranked(int(rank), s.dates[last])
}

// BestRankBefore returns the best placement observed at or before ts.
// Ties resolve to the earliest date.
func (s *Store) BestRankBefore(key string, ts int64) Lookup {
	i, ok := s.index[key]
	if !ok {
		return Lookup{Status: StatusUnknownPlayer}
	}
	last := s.lastDateAtOrBefore(ts)
	best := -1
	for col := 0; col <= last; col++ {
		rank := s.rows[i].Ranks[col]
		if rank == NoRank {
			continue
		}
		if best < 0 || rank < s.rows[i].Ranks[best] {
			best = col
		}
	}
	if best < 0 {
		return Lookup{Status: StatusNotRanked}
	}
	return s.ranked(int(s.rows[i].Ranks[best]), s.dates[best])
}

// Candidates lists the name keys sharing country whose birth date lies in
// [birthDate-tolerance, birthDate+tolerance).
func (s *Store) Candidates(country string, birthDate, tolerance int64) []string {
	if country == "" {
		return nil
	}
	var out []string
	for _, row := range s.rows {
		if row.Country != country || row.BirthDate == nil {
			continue
		}
		bd := *row.BirthDate
		if bd >= birthDate-tolerance && bd < birthDate+tolerance {
			out = append(out, row.NameKey)
		}
	}
	return out
}

func (s *Store) lastDateAtOrBefore(ts int64) int {
	return sort.Search(len(s.dates), func(i int) bool { return s.dates[i] > ts }) - 1
}

func (s *Store) ranked(rank int, date int64) Lookup {
	return Lookup{
		Status: StatusRanked,
		Rank:   rank,
		Score:  s.totalSlots + 1 - rank,
		Date:   date,
	}
}
