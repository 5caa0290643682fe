package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/riskibarqy/tennis-history/internal/domain/ranking"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultNumPrevious = 50

// Checkpoint is everything persisted after a processed current match.
type Checkpoint struct {
	Current  []match.Record
	Previous []match.Record
	Players  []player.Profile
	Ranking  *ranking.Store
}

// DatasetStore persists the working and final dataset tables.
type DatasetStore interface {
	LoadTables(ctx context.Context) (current, previous []match.Record, err error)
	SaveCheckpoint(ctx context.Context, cp Checkpoint) error
	SaveFinal(ctx context.Context, current, previous []match.Record) error
}

// EventIDStore persists the discovered event id list.
type EventIDStore interface {
	LoadEventIDs(ctx context.Context) ([]int64, error)
	SaveEventIDs(ctx context.Context, ids []int64) error
}

// DatasetExporter receives a copy of the final tables.
type DatasetExporter interface {
	ExportDataset(ctx context.Context, current, previous []match.Record) error
}

type DatasetConfig struct {
	NumPrevious     int
	SeasonYears     []int
	FreshStart      bool
	RefreshEventIDs bool
	Logger          *logging.Logger
	Metrics         *metrics.Recorder
}

// BuildResult summarises one dataset run.
type BuildResult struct {
	Candidates   int
	Accepted     int
	Skipped      int
	CurrentRows  int
	PreviousRows int
}

// DatasetService builds the current and previous match tables.
type DatasetService struct {
	catalog   *CatalogService
	assembler *RecordAssembler
	fetcher   *HistoryFetcher
	players   player.Repository
	store     *ranking.Store
	tables    DatasetStore
	eventIDs  EventIDStore
	exporter  DatasetExporter
	rules     match.Rules
	cfg       DatasetConfig
	logger    *logging.Logger
	metrics   *metrics.Recorder
}

type DatasetDeps struct {
	Catalog   *CatalogService
	Assembler *RecordAssembler
	Fetcher   *HistoryFetcher
	Players   player.Repository
	Ranking   *ranking.Store
	Tables    DatasetStore
	EventIDs  EventIDStore
	// Exporter is optional.
	Exporter DatasetExporter
	Rules    match.Rules
}

func NewDatasetService(deps DatasetDeps, cfg DatasetConfig) *DatasetService {
	if cfg.NumPrevious <= 0 {
		cfg.NumPrevious = DefaultNumPrevious
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if deps.Rules.ExcludedMarkers == nil {
		deps.Rules = match.DefaultRules()
	}
	return &DatasetService{
		catalog:   deps.Catalog,
		assembler: deps.Assembler,
		fetcher:   deps.Fetcher,
		players:   deps.Players,
		store:     deps.Ranking,
		tables:    deps.Tables,
		eventIDs:  deps.EventIDs,
		exporter:  deps.Exporter,
		rules:     deps.Rules,
		cfg:       cfg,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// CheckRatio verifies the previous table holds exactly 2·n rows per
// current row.
func CheckRatio(currentRows, previousRows, n int) error {
	if previousRows != 2*n*currentRows {
		return fmt.Errorf("%w: previous=%d current=%d want ratio %d",
			ErrInconsistentCheckpoint, previousRows, currentRows, 2*n)
	}
	return nil
}

// Run builds the dataset end to end: event discovery, the per-match
// loop with checkpoints and the final tables.
func (s *DatasetService) Run(ctx context.Context) (_ BuildResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Run",
		attribute.Int("num_previous", s.cfg.NumPrevious),
		attribute.Bool("fresh_start", s.cfg.FreshStart),
	)
	defer func() { finishSpan(span, err) }()

	ids, err := s.loadEventIDs(ctx)
	if err != nil {
		return BuildResult{}, err
	}

	current, previous, err := s.loadTables(ctx)
	if err != nil {
		return BuildResult{}, err
	}

	pending, err := remainingEventIDs(ids, current)
	if err != nil {
		return BuildResult{}, err
	}
	s.logger.InfoContext(ctx, "dataset build started",
		"events_total", len(ids),
		"events_pending", len(pending),
		"current_rows", len(current),
	)

	result := BuildResult{Candidates: len(pending)}
	for i, eventID := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		cur, home, away, reason, err := s.processEvent(ctx, eventID)
		if err != nil {
			return result, err
		}
		if reason != "" {
			result.Skipped++
			s.metrics.CurrentMatch(reason)
			s.logger.InfoContext(ctx, "current match skipped",
				"position", i,
				"event_id", eventID,
				"reason", reason,
			)
			continue
		}

		previous = append(previous, home...)
		previous = append(previous, away...)
		current = append(current, cur)
		if err := CheckRatio(len(current), len(previous), s.cfg.NumPrevious); err != nil {
			return result, err
		}

		if err := s.checkpoint(ctx, current, previous); err != nil {
			return result, err
		}
		result.Accepted++
		s.metrics.CurrentMatch("accepted")
		s.logger.InfoContext(ctx, "current match saved",
			"position", i,
			"event_id", eventID,
			"current_rows", len(current),
		)
	}

	finalCurrent, finalPrevious, err := s.Finalize(ctx, current, previous)
	if err != nil {
		return result, err
	}
	result.CurrentRows = len(finalCurrent)
	result.PreviousRows = len(finalPrevious)
	return result, nil
}

// processEvent returns the current record and both windows, or a skip
// reason. Errors are fatal for the run.
func (s *DatasetService) processEvent(ctx context.Context, eventID int64) (match.Record, []match.Record, []match.Record, string, error) {
	cur, err := s.assembler.Current(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) || ctx.Err() != nil {
			return match.Record{}, nil, nil, "", err
		}
		s.logger.WarnContext(ctx, "current match unavailable", "event_id", eventID, "error", err)
		return match.Record{}, nil, nil, "event_unavailable", nil
	}
	if reason := s.rules.Check(cur, match.ModeCurrent); reason != match.RejectNone {
		return match.Record{}, nil, nil, string(reason), nil
	}

	n := s.cfg.NumPrevious
	home, err := s.fetcher.Fetch(ctx, cur.HomeID(), eventID, n)
	if err != nil {
		return match.Record{}, nil, nil, "", err
	}
	if !home.Complete(n) {
		s.logger.InfoContext(ctx, "home history too short", "event_id", eventID, "rows", len(home.Records))
		return match.Record{}, nil, nil, "short_home_history", nil
	}

	away, err := s.fetcher.Fetch(ctx, cur.AwayID(), eventID, n)
	if err != nil {
		return match.Record{}, nil, nil, "", err
	}
	if !away.Complete(n) {
		s.logger.InfoContext(ctx, "away history too short", "event_id", eventID, "rows", len(away.Records))
		return match.Record{}, nil, nil, "short_away_history", nil
	}

	return cur, home.Records[:n], away.Records[:n], "", nil
}

func (s *DatasetService) checkpoint(ctx context.Context, current, previous []match.Record) error {
	profiles, err := s.players.List(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if err := s.tables.SaveCheckpoint(ctx, Checkpoint{
		Current:  current,
		Previous: previous,
		Players:  profiles,
		Ranking:  s.store,
	}); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	s.metrics.Checkpoint()
	return nil
}

// Finalize imputes, aligns and cleans both tables, then writes the final
// tables and the optional export.
func (s *DatasetService) Finalize(ctx context.Context, current, previous []match.Record) ([]match.Record, []match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Finalize",
		attribute.Int("current_rows", len(current)),
	)
	defer span.End()

	previous = ImputePhysicals(previous)
	current = ImputePhysicals(current)
	current, previous = AlignWindows(ctx, current, previous, s.cfg.NumPrevious, s.logger)

	for i := range current {
		current[i] = current[i].Finalize(false)
	}
	for i := range previous {
		previous[i] = previous[i].Finalize(true)
	}

	if err := s.tables.SaveFinal(ctx, current, previous); err != nil {
		return nil, nil, fmt.Errorf("save final tables: %w", err)
	}
	if s.exporter != nil {
		if err := s.exporter.ExportDataset(ctx, current, previous); err != nil {
			return nil, nil, fmt.Errorf("export dataset: %w", err)
		}
	}
	s.logger.InfoContext(ctx, "final tables written", "current_rows", len(current), "previous_rows", len(previous))
	return current, previous, nil
}

func (s *DatasetService) loadEventIDs(ctx context.Context) ([]int64, error) {
	if !s.cfg.RefreshEventIDs {
		ids, err := s.eventIDs.LoadEventIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("load event ids: %w", err)
		}
		return ids, nil
	}

	ids, err := s.catalog.CollectEventIDs(ctx, s.cfg.SeasonYears)
	if err != nil {
		return nil, err
	}
	if err := s.eventIDs.SaveEventIDs(ctx, ids); err != nil {
		return nil, fmt.Errorf("save event ids: %w", err)
	}
	return ids, nil
}

func (s *DatasetService) loadTables(ctx context.Context) ([]match.Record, []match.Record, error) {
	if s.cfg.FreshStart {
		return nil, nil, nil
	}
	current, previous, err := s.tables.LoadTables(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load tables: %w", err)
	}
	if err := CheckRatio(len(current), len(previous), s.cfg.NumPrevious); err != nil {
		return nil, nil, err
	}
	return current, previous, nil
}

// remainingEventIDs returns the ids after the last processed current
// match.
func remainingEventIDs(ids []int64, current []match.Record) ([]int64, error) {
	if len(current) == 0 {
		return ids, nil
	}
	last := current[len(current)-1].EventID
	pos := slices.Index(ids, last)
	if pos < 0 {
		return nil, fmt.Errorf("%w: last processed event %d is not in the event list", ErrInconsistentCheckpoint, last)
	}
	return ids[pos+1:], nil
}
