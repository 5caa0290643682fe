package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tennis-history/internal/domain/ranking"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
	"github.com/riskibarqy/tennis-history/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultRankingPagesPerDate = 10
	DefaultRankingWorkers      = 4
)

// DefaultRankingMinDate is the first publication kept, the week before
// the oldest match of the dataset.
var DefaultRankingMinDate = time.Date(2009, time.January, 12, 0, 0, 0, 0, time.UTC).Unix()

// DefaultCountryCodes maps the ranking source's country codes to
// ISO 3166-1 alpha-3.
var DefaultCountryCodes = map[string]string{
	"ALG": "DZA", "BAH": "BHS", "BAR": "BRB", "BUL": "BGR", "CHI": "CHL",
	"CRO": "HRV", "DEN": "DNK", "DOM": "DMA", "ESA": "SLV", "GER": "DEU",
	"GRE": "GRC", "GUA": "GTM", "HAI": "HTI", "INA": "IDN", "IRI": "IRN",
	"KUW": "KWT", "LAT": "LVA", "LIB": "LBN", "MAS": "MYS", "MON": "MCO",
	"NED": "NLD", "PAR": "PRY", "PHI": "PHL", "POR": "PRT", "PUR": "PRI",
	"RSA": "ZAF", "SLO": "SVN", "SUI": "CHE", "TOG": "TGO", "TPE": "TWN",
	"URU": "URY", "VIE": "VNM", "ZIM": "ZWE",
}

// PlayerCorrection overrides bad biography data for one ranking row.
type PlayerCorrection struct {
	Name      string
	Country   string
	BirthDate *int64
}

// DefaultPlayerCorrections fixes known wrong nationalities and the birth
// date of Roberto Ortega-Olmedo (1991-04-30).
var DefaultPlayerCorrections = []PlayerCorrection{
	{Name: "Goncalo Oliveira", Country: "VEN"},
	{Name: "Marko Topo", Country: "DEU"},
	{Name: "Nicolas Moreno De Alboran", Country: "USA"},
	{Name: "Rayan Ghedjemis", Country: "DZA"},
	{Name: "Tomas Lipovsek Puches", Country: "ARG"},
	{Name: "Kareem Allaf", Country: "USA"},
	{Name: "Roberto Ortega-Olmedo", BirthDate: int64Ptr(672969600)},
}

func int64Ptr(v int64) *int64 {
	return &v
}

type RankingBuilderConfig struct {
	MinDate      int64
	PagesPerDate int
	Workers      int
	CountryCodes map[string]string
	Corrections  []PlayerCorrection
	Logger       *logging.Logger
	Metrics      *metrics.Recorder
}

// RankingUpdate summarises one ranking table refresh.
type RankingUpdate struct {
	DatesAdded   int
	PlayersAdded int
	PagesFailed  int
}

// Changed reports whether new publications were merged.
func (u RankingUpdate) Changed() bool {
	return u.DatesAdded > 0
}

// RankingBuilder extends a ranking table with the publications it lacks.
// Rows are keyed by the source's display names.
type RankingBuilder struct {
	source RankingSource
	cfg    RankingBuilderConfig
	logger *logging.Logger
	bios   resilience.Flight[ExternalPlayerBio]
}

func NewRankingBuilder(source RankingSource, cfg RankingBuilderConfig) *RankingBuilder {
	if cfg.MinDate == 0 {
		cfg.MinDate = DefaultRankingMinDate
	}
	if cfg.PagesPerDate <= 0 {
		cfg.PagesPerDate = DefaultRankingPagesPerDate
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultRankingWorkers
	}
	if cfg.CountryCodes == nil {
		cfg.CountryCodes = DefaultCountryCodes
	}
	if cfg.Corrections == nil {
		cfg.Corrections = DefaultPlayerCorrections
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &RankingBuilder{source: source, cfg: cfg, logger: cfg.Logger}
}

type datePublication struct {
	date    int64
	entries []ExternalRankingEntry
	failed  int
}

// Update fetches every publication missing from store, adds its players
// and ranks, then applies the country and player corrections. Pages are
// fetched concurrently; store is only mutated from the calling goroutine.
func (b *RankingBuilder) Update(ctx context.Context, store *ranking.Store) (_ RankingUpdate, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingBuilder.Update")
	defer func() { finishSpan(span, err) }()

	dates, err := b.source.ListRankingDates(ctx)
	if err != nil {
		return RankingUpdate{}, fmt.Errorf("list ranking dates: %w", err)
	}
	var pending []int64
	for _, date := range dates {
		if date >= b.cfg.MinDate && !store.HasDate(date) && !slices.Contains(pending, date) {
			pending = append(pending, date)
		}
	}
	slices.Sort(pending)
	span.SetAttributes(attribute.Int("dates.pending", len(pending)))

	var update RankingUpdate
	if len(pending) > 0 {
		publications, bios, err := b.fetchPublications(ctx, store, pending)
		if err != nil {
			return RankingUpdate{}, err
		}
		update = b.merge(ctx, store, publications, bios)
	}

	b.applyCorrections(store)
	b.logger.InfoContext(ctx, "ranking table updated",
		"dates_added", update.DatesAdded,
		"players_added", update.PlayersAdded,
		"pages_failed", update.PagesFailed,
	)
	return update, nil
}

func (b *RankingBuilder) fetchPublications(ctx context.Context, store *ranking.Store, dates []int64) ([]datePublication, map[string]ExternalPlayerBio, error) {
	pool, err := ants.NewPool(b.cfg.Workers)
	if err != nil {
		return nil, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	known := make(map[string]struct{}, store.Len())
	for _, row := range store.Rows() {
		known[row.NameKey] = struct{}{}
	}

	var (
		denied  atomic.Bool
		workers sync.WaitGroup
	)
	cache := &bioCache{builder: b, items: map[string]ExternalPlayerBio{}}
	results := make([]datePublication, len(dates))

	for i, date := range dates {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			pub := datePublication{date: date}
			for page := 0; page < b.cfg.PagesPerDate; page++ {
				if ctx.Err() != nil || denied.Load() {
					break
				}
				entries, err := b.source.GetRankingPage(ctx, date, page)
				if err != nil {
					if errors.Is(err, ErrAccessDenied) {
						denied.Store(true)
						break
					}
					pub.failed++
					continue
				}
				pub.entries = append(pub.entries, entries...)

				for _, entry := range entries {
					if _, ok := known[entry.PlayerName]; ok {
						continue
					}
					cache.fetch(ctx, entry.PlayerName)
				}
			}
			results[i] = pub
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, nil, fmt.Errorf("submit ranking date to worker pool: %w", err)
		}
	}
	workers.Wait()

	if denied.Load() {
		return nil, nil, fmt.Errorf("fetch ranking pages: %w", ErrAccessDenied)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return results, cache.items, nil
}

// bioCache fetches each biography once across workers. Failures are
// cached as empty biographies.
type bioCache struct {
	builder *RankingBuilder
	mu      sync.Mutex
	items   map[string]ExternalPlayerBio
}

func (c *bioCache) lookup(name string) (ExternalPlayerBio, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bio, ok := c.items[name]
	return bio, ok
}

func (c *bioCache) fetch(ctx context.Context, name string) ExternalPlayerBio {
	if bio, ok := c.lookup(name); ok {
		return bio
	}
	bio, _, _ := c.builder.bios.Do(name, func() (ExternalPlayerBio, error) {
		if bio, ok := c.lookup(name); ok {
			return bio, nil
		}
		bio, err := c.builder.source.GetPlayerBio(ctx, name)
		if err != nil {
			c.builder.logger.WarnContext(ctx, "player biography unavailable", "player", name, "error", err)
			bio = ExternalPlayerBio{}
		}
		c.mu.Lock()
		c.items[name] = bio
		c.mu.Unlock()
		return bio, nil
	})
	return bio
}

func (b *RankingBuilder) merge(ctx context.Context, store *ranking.Store, publications []datePublication, bios map[string]ExternalPlayerBio) RankingUpdate {
	var update RankingUpdate
	for _, pub := range publications {
		if store.AddDate(pub.date) {
			update.DatesAdded++
			b.cfg.Metrics.RankingDateAdded()
		}
		update.PagesFailed += pub.failed

		for _, entry := range pub.entries {
			if entry.Position <= 0 {
				continue
			}
			if !store.Contains(entry.PlayerName) {
				bio := bios[entry.PlayerName]
				store.AddPlayer(entry.PlayerName, bio.BirthDate, bio.Country)
				update.PlayersAdded++
			}
			if err := store.SetRank(entry.PlayerName, pub.date, entry.Position); err != nil {
				b.logger.WarnContext(ctx, "ranking entry dropped", "player", entry.PlayerName, "date", pub.date, "error", err)
			}
		}
	}
	return update
}

func (b *RankingBuilder) applyCorrections(store *ranking.Store) {
	for _, row := range store.Rows() {
		if code, ok := b.cfg.CountryCodes[row.Country]; ok {
			store.SetCountry(row.NameKey, code)
		}
	}
	for _, fix := range b.cfg.Corrections {
		if fix.Country != "" {
			store.SetCountry(fix.Name, fix.Country)
		}
		if fix.BirthDate != nil {
			store.SetBirthDate(fix.Name, *fix.BirthDate)
		}
	}
}
