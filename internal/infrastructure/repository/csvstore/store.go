// Package csvstore persists the dataset tables, the player cache, the
// ranking table and the event id list as CSV files under one data
// directory.
package csvstore

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/usecase"
)

const (
	currentFile       = "actual.csv"
	previousFile      = "previos.csv"
	playersFile       = "players.csv"
	rankingCheckpoint = "ranking.csv"
	eventIDsFile      = "id_partidos.csv"
	auditFile         = "matches.txt"
	finalDir          = "completo"
	currentFinalFile  = "actual_final.csv"
	previousFinalFile = "previos_final.csv"
)

type Config struct {
	Dir string
	// RankingFile is the ranking table read at start. Defaults to
	// Dir/ranking/ranking.csv.
	RankingFile string
	TotalSlots  int
	Logger      *logging.Logger
}

// Store implements usecase.DatasetStore and usecase.EventIDStore.
type Store struct {
	dir         string
	rankingFile string
	totalSlots  int
	logger      *logging.Logger
}

var (
	_ usecase.DatasetStore = (*Store)(nil)
	_ usecase.EventIDStore = (*Store)(nil)
)

func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	rankingFile := cfg.RankingFile
	if rankingFile == "" {
		rankingFile = filepath.Join(cfg.Dir, "ranking", "ranking.csv")
	}
	return &Store{
		dir:         cfg.Dir,
		rankingFile: rankingFile,
		totalSlots:  cfg.TotalSlots,
		logger:      logger,
	}
}

func (s *Store) path(parts ...string) string {
	return filepath.Join(append([]string{s.dir}, parts...)...)
}

// AuditLogPath is where accepted fuzzy matches are appended.
func (s *Store) AuditLogPath() string {
	return s.path(auditFile)
}

// RankingFile is the ranking table read at start.
func (s *Store) RankingFile() string {
	return s.rankingFile
}

func (s *Store) LoadTables(_ context.Context) ([]match.Record, []match.Record, error) {
	current, err := readFile(s.path(currentFile), readCurrent)
	if err != nil {
		return nil, nil, err
	}
	previous, err := readFile(s.path(previousFile), readPrevious)
	if err != nil {
		return nil, nil, err
	}
	return current, previous, nil
}

// SaveCheckpoint rewrites every working table. Each file is replaced
// atomically.
func (s *Store) SaveCheckpoint(_ context.Context, cp usecase.Checkpoint) error {
	if err := writeFileAtomic(s.path(previousFile), func(w *csv.Writer) error {
		return writeRecords(w, previousColumns, cp.Previous, previousRow)
	}); err != nil {
		return err
	}
	if err := writeFileAtomic(s.path(currentFile), func(w *csv.Writer) error {
		return writeRecords(w, currentColumns, cp.Current, currentRow)
	}); err != nil {
		return err
	}
	if err := writeFileAtomic(s.path(playersFile), func(w *csv.Writer) error {
		return writePlayers(w, cp.Players)
	}); err != nil {
		return err
	}
	if cp.Ranking != nil {
		if err := writeFileAtomic(s.path(rankingCheckpoint), func(w *csv.Writer) error {
			return writeRanking(w, cp.Ranking)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SaveFinal(_ context.Context, current, previous []match.Record) error {
	if err := writeFileAtomic(s.path(finalDir, currentFinalFile), func(w *csv.Writer) error {
		return writeRecords(w, currentColumns, current, currentRow)
	}); err != nil {
		return err
	}
	return writeFileAtomic(s.path(finalDir, previousFinalFile), func(w *csv.Writer) error {
		return writeRecords(w, previousColumns, previous, previousRow)
	})
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, crerr.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return zero, crerr.Wrapf(err, "read %s", path)
	}
	return out, nil
}

// writeFileAtomic writes to a temporary sibling and renames it over path.
func writeFileAtomic(path string, write func(w *csv.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return crerr.Wrapf(err, "create temp file for %s", path)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := write(w); err != nil {
		return crerr.Wrapf(err, "write %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return crerr.Wrapf(err, "flush %s", path)
	}
	if err := tmp.Sync(); err != nil {
		return crerr.Wrapf(err, "sync %s", path)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return crerr.Wrapf(err, "replace %s", path)
	}
	return nil
}
