package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TennisCategoryID     int64 = 3
	DefaultSeasonMaxPage       = 10
	finalsTournamentName       = "ATP Finals"
)

// YearOverride corrects the tournament list of one season year.
type YearOverride struct {
	Remove []int64
	Add    []int64
}

// DefaultYearOverrides drops events that left the tour (Doha 2420, Dallas
// 18377, Munich 2491) and adds the Canadian Masters venue of the year
// (Montreal 2390, Toronto 2510) and Astana 15952.
var DefaultYearOverrides = map[int]YearOverride{
	2024: {Remove: []int64{2420, 18377, 2491}, Add: []int64{2390}},
	2023: {Remove: []int64{2420, 18377, 2491}, Add: []int64{2510}},
	2022: {Remove: []int64{2420, 18377, 2491}, Add: []int64{2390, 15952}},
	2021: {Remove: []int64{2420, 2491}, Add: []int64{2510}},
}

var defaultTournamentPoints = []int{500, 1000, 2000}

type CatalogConfig struct {
	CategoryID int64
	Points     []int
	Overrides  map[int]YearOverride
	// LastPage is the first season events page read; pages run down to 0.
	LastPage int
	Logger   *logging.Logger
}

// CatalogService discovers the event ids of the tracked tournaments.
type CatalogService struct {
	source MatchSource
	cfg    CatalogConfig
	logger *logging.Logger
}

func NewCatalogService(source MatchSource, cfg CatalogConfig) *CatalogService {
	if cfg.CategoryID == 0 {
		cfg.CategoryID = TennisCategoryID
	}
	if len(cfg.Points) == 0 {
		cfg.Points = defaultTournamentPoints
	}
	if cfg.Overrides == nil {
		cfg.Overrides = DefaultYearOverrides
	}
	if cfg.LastPage <= 0 {
		cfg.LastPage = DefaultSeasonMaxPage
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &CatalogService{source: source, cfg: cfg, logger: cfg.Logger}
}

// TrackedTournaments lists singles tournaments worth 500 points or more,
// plus the tour finals, sorted by id.
func (s *CatalogService) TrackedTournaments(ctx context.Context) ([]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.TrackedTournaments")
	defer span.End()

	items, err := s.source.ListTournaments(ctx, s.cfg.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	seen := make(map[int64]struct{}, len(items))
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if !s.tracked(item) {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item.ID)
	}
	slices.Sort(out)
	return out, nil
}

func (s *CatalogService) tracked(item ExternalTournament) bool {
	if item.Name == finalsTournamentName {
		return true
	}
	if item.TennisPoints == nil || !slices.Contains(s.cfg.Points, *item.TennisPoints) {
		return false
	}
	return !strings.Contains(item.Name, "Double")
}

// TournamentsForYear applies the year's override to tournaments.
func (s *CatalogService) TournamentsForYear(tournaments []int64, year int) []int64 {
	override, ok := s.cfg.Overrides[year]
	out := slices.Clone(tournaments)
	if !ok {
		return out
	}
	out = slices.DeleteFunc(out, func(id int64) bool {
		return slices.Contains(override.Remove, id)
	})
	for _, id := range override.Add {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// SeasonKey identifies one tournament edition.
type SeasonKey struct {
	TournamentID int64
	SeasonID     int64
}

// Seasons returns the editions of tournaments played in year. Tournaments
// without a season listing are skipped.
func (s *CatalogService) Seasons(ctx context.Context, tournaments []int64, year int) ([]SeasonKey, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Seasons", attribute.Int("year", year))
	defer span.End()

	var out []SeasonKey
	for _, tournamentID := range s.TournamentsForYear(tournaments, year) {
		seasons, err := s.source.ListSeasons(ctx, tournamentID)
		if err != nil {
			if errors.Is(err, ErrAccessDenied) {
				return nil, err
			}
			s.logger.WarnContext(ctx, "seasons unavailable", "tournament_id", tournamentID, "error", err)
			continue
		}
		for _, season := range seasons {
			if y, err := strconv.Atoi(strings.TrimSpace(season.Year)); err == nil && y == year {
				out = append(out, SeasonKey{TournamentID: tournamentID, SeasonID: season.ID})
				s.logger.DebugContext(ctx, "season selected", "tournament_id", tournamentID, "season", season.Name)
			}
		}
	}
	return out, nil
}

// EventIDs reads every season events page from LastPage down to 0.
// Missing pages are skipped and repeated ids keep their first position.
func (s *CatalogService) EventIDs(ctx context.Context, seasons []SeasonKey) ([]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.EventIDs", attribute.Int("seasons", len(seasons)))
	defer span.End()

	seen := map[int64]struct{}{}
	var out []int64
	for _, season := range seasons {
		for page := s.cfg.LastPage; page >= 0; page-- {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ids, err := s.source.ListSeasonEventIDs(ctx, season.TournamentID, season.SeasonID, page)
			if err != nil {
				if errors.Is(err, ErrAccessDenied) {
					return nil, err
				}
				continue
			}
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out, nil
}

// CollectEventIDs runs the whole discovery for years.
func (s *CatalogService) CollectEventIDs(ctx context.Context, years []int) ([]int64, error) {
	tournaments, err := s.TrackedTournaments(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "tracked tournaments listed", "count", len(tournaments))

	var seasons []SeasonKey
	for _, year := range years {
		items, err := s.Seasons(ctx, tournaments, year)
		if err != nil {
			return nil, fmt.Errorf("list seasons for %d: %w", year, err)
		}
		seasons = append(seasons, items...)
	}

	ids, err := s.EventIDs(ctx, seasons)
	if err != nil {
		return nil, fmt.Errorf("list season events: %w", err)
	}
	s.logger.InfoContext(ctx, "event ids collected", "seasons", len(seasons), "events", len(ids))
	return ids, nil
}
