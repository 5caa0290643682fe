package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultHistoryMaxPages = 40

// Window holds the admissible matches played by one player before an
// anchor match, most recent first.
type Window struct {
	PlayerID int64
	AnchorID int64
	Records  []match.Record
}

// Complete reports whether the window reached count records.
func (w Window) Complete(count int) bool {
	return len(w.Records) >= count
}

type HistoryFetcherConfig struct {
	MaxPages int
	Rules    match.Rules
	Logger   *logging.Logger
	Metrics  *metrics.Recorder
}

// HistoryFetcher walks a player's paginated event history backwards from
// an anchor match.
type HistoryFetcher struct {
	source    MatchSource
	assembler *RecordAssembler
	maxPages  int
	rules     match.Rules
	logger    *logging.Logger
	metrics   *metrics.Recorder
}

func NewHistoryFetcher(source MatchSource, assembler *RecordAssembler, cfg HistoryFetcherConfig) *HistoryFetcher {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultHistoryMaxPages
	}
	if cfg.Rules.ExcludedMarkers == nil {
		cfg.Rules = match.DefaultRules()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &HistoryFetcher{
		source:    source,
		assembler: assembler,
		maxPages:  cfg.MaxPages,
		rules:     cfg.Rules,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// historyPages memoizes the pages read during one Fetch so the peek into
// the next page is not fetched twice.
type historyPages struct {
	source   MatchSource
	playerID int64
	loaded   map[int][]ExternalEvent
	failed   map[int]error
}

func (p *historyPages) get(ctx context.Context, page int) ([]ExternalEvent, error) {
	if events, ok := p.loaded[page]; ok {
		return events, nil
	}
	if err, ok := p.failed[page]; ok {
		return nil, err
	}
	events, err := p.source.GetPlayerEvents(ctx, p.playerID, page)
	if err != nil {
		p.failed[page] = err
		return nil, err
	}
	p.loaded[page] = events
	return events, nil
}

// Fetch collects up to count admissible matches played by playerID before
// anchorEventID. A short window is not an error; callers check Complete.
// Only ErrAccessDenied and context cancellation are returned as errors.
func (f *HistoryFetcher) Fetch(ctx context.Context, playerID, anchorEventID int64, count int) (_ Window, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryFetcher.Fetch",
		attribute.Int64("player.id", playerID),
		attribute.Int64("event.id", anchorEventID),
		attribute.Int("count", count),
	)
	defer func() { finishSpan(span, err) }()

	window := Window{PlayerID: playerID, AnchorID: anchorEventID}
	if count <= 0 {
		return window, nil
	}

	pages := &historyPages{
		source:   f.source,
		playerID: playerID,
		loaded:   map[int][]ExternalEvent{},
		failed:   map[int]error{},
	}

	anchorSeen := false
	for page := 0; page < f.maxPages && len(window.Records) < count; page++ {
		if err := ctx.Err(); err != nil {
			return window, err
		}

		events, err := pages.get(ctx, page)
		if err != nil {
			if errors.Is(err, ErrAccessDenied) {
				return window, err
			}
			if !errors.Is(err, ErrNotFound) {
				f.logger.WarnContext(ctx, "history page unavailable", "player_id", playerID, "page", page, "error", err)
			}
			break
		}
		if len(events) == 0 {
			break
		}

		// Pages list events oldest first; scan newest first.
		for j := len(events) - 1; j >= 0 && len(window.Records) < count; j-- {
			ev := events[j]
			if ev.ID == anchorEventID {
				anchorSeen = true
				continue
			}
			if !anchorSeen {
				continue
			}

			lastMatch, err := f.previousStart(ctx, pages, events, j, page)
			if err != nil {
				return window, err
			}

			rec, err := f.assembler.History(ctx, ev)
			if err != nil {
				if errors.Is(err, ErrAccessDenied) {
					return window, err
				}
				f.logger.WarnContext(ctx, "history event skipped", "player_id", playerID, "event_id", ev.ID, "error", err)
				continue
			}
			anchor := anchorEventID
			rec.NextEventID = &anchor
			rec.LastMatchTimestamp = lastMatch

			if reason := f.rules.Check(rec, match.ModeHistory); reason != match.RejectNone {
				f.metrics.HistoryMatch(string(reason))
				continue
			}
			f.metrics.HistoryMatch("accepted")
			window.Records = append(window.Records, rec)
		}
	}

	if !anchorSeen {
		f.logger.WarnContext(ctx, "anchor match not found in history", "player_id", playerID, "event_id", anchorEventID)
	}
	if !window.Complete(count) {
		f.metrics.ShortWindow()
	}
	return window, nil
}

// previousStart returns the start time of the match played right before
// events[j], looking into the next (older) page at a page boundary.
func (f *HistoryFetcher) previousStart(ctx context.Context, pages *historyPages, events []ExternalEvent, j, page int) (*int64, error) {
	if j > 0 {
		return events[j-1].StartTimestamp, nil
	}
	if page+1 >= f.maxPages {
		return nil, nil
	}
	older, err := pages.get(ctx, page+1)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			return nil, fmt.Errorf("peek history page %d: %w", page+1, err)
		}
		return nil, nil
	}
	if len(older) == 0 {
		return nil, nil
	}
	return older[len(older)-1].StartTimestamp, nil
}
