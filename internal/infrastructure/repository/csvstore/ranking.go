package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"math"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/tennis-history/internal/domain/naming"
	"github.com/riskibarqy/tennis-history/internal/domain/ranking"
)

var rankingFixedColumns = []string{"player", "birthDate", "country"}

// KeyMode selects how ranking row names are keyed on load.
type KeyMode int

const (
	// KeysRaw keeps the source's display names.
	KeysRaw KeyMode = iota
	// KeysNormalized runs every name through naming.Normalize.
	KeysNormalized
)

// LoadRanking reads the ranking table. A missing file yields an empty
// store; callers that need a table check Len.
func (s *Store) LoadRanking(_ context.Context, mode KeyMode) (*ranking.Store, error) {
	store, err := readFile(s.rankingFile, func(src io.Reader) (*ranking.Store, error) {
		dates, rows, err := readRanking(src, mode)
		if err != nil {
			return nil, err
		}
		store, dropped, err := ranking.FromTable(s.totalSlots, dates, rows)
		if err != nil {
			return nil, err
		}
		if len(dropped) > 0 {
			s.logger.Warn("duplicate ranking rows dropped", "count", len(dropped), "players", dropped)
		}
		return store, nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return ranking.NewStore(s.totalSlots), nil
	}
	return store, err
}

// SaveRanking replaces the ranking table read at start.
func (s *Store) SaveRanking(_ context.Context, store *ranking.Store) error {
	return writeFileAtomic(s.rankingFile, func(w *csv.Writer) error {
		return writeRanking(w, store)
	})
}

func readRanking(src io.Reader, mode KeyMode) ([]int64, []ranking.Row, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, crerr.Wrap(err, "read ranking header")
	}
	cols := newRowReader(header)
	if err := cols.require(rankingFixedColumns...); err != nil {
		return nil, nil, err
	}

	var (
		dates     []int64
		dateCells []int
	)
	for i, name := range header {
		if i < len(rankingFixedColumns) && cols.has(name) {
			continue
		}
		ts, err := parseInt64(name)
		if err != nil || ts == nil {
			continue
		}
		dates = append(dates, *ts)
		dateCells = append(dateCells, i)
	}

	var rows []ranking.Row
	for line := 2; ; line++ {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, crerr.Wrapf(err, "read ranking line %d", line)
		}
		cols.reset(cells, line)

		name := cols.str("player")
		if mode == KeysNormalized {
			name = naming.Normalize(name)
		}
		if name == "" {
			continue
		}
		birthDate := cols.int64p("birthDate")
		if birthDate != nil && *birthDate == 0 {
			birthDate = nil
		}

		ranks := make([]int32, len(dateCells))
		for i, cell := range dateCells {
			ranks[i] = ranking.NoRank
			if cell >= len(cells) {
				continue
			}
			rank, err := parseFloat(cells[cell])
			if err != nil {
				return nil, nil, crerr.Wrapf(err, "ranking line %d date %d", line, dates[i])
			}
			if rank != nil && *rank > 0 && !math.IsNaN(*rank) {
				ranks[i] = int32(*rank)
			}
		}
		if cols.err != nil {
			return nil, nil, cols.err
		}
		rows = append(rows, ranking.Row{
			NameKey:   name,
			BirthDate: birthDate,
			Country:   cols.str("country"),
			Ranks:     ranks,
		})
	}
	return dates, rows, nil
}

func writeRanking(w *csv.Writer, store *ranking.Store) error {
	dates := store.Dates()
	header := append([]string(nil), rankingFixedColumns...)
	for _, date := range dates {
		header = append(header, strconv.FormatInt(date, 10))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range store.Rows() {
		record := make([]string, 0, len(header))
		record = append(record, row.NameKey, formatInt64(row.BirthDate), row.Country)
		for _, rank := range row.Ranks {
			record = append(record, strconv.FormatInt(int64(rank), 10))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
