package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tennis-history/internal/infrastructure/repository/csvstore"
	"github.com/riskibarqy/tennis-history/internal/usecase"
)

// UpdateRanking loads the ranking table keyed by display name, adds every
// missing publication and writes the table back.
func (rt *Runtime) UpdateRanking(ctx context.Context) (usecase.RankingUpdate, error) {
	store, err := rt.store.LoadRanking(ctx, csvstore.KeysRaw)
	if err != nil {
		return usecase.RankingUpdate{}, fmt.Errorf("load ranking table: %w", err)
	}
	rt.logger.InfoContext(ctx, "ranking table loaded",
		"file", rt.store.RankingFile(),
		"players", store.Len(),
		"dates", len(store.Dates()),
	)

	builder := usecase.NewRankingBuilder(rt.rankingSource(), usecase.RankingBuilderConfig{
		MinDate:      rt.cfg.RankingMinDate.Unix(),
		PagesPerDate: rt.cfg.RankingPagesPerDate,
		Workers:      rt.cfg.RankingWorkers,
		Logger:       rt.logger,
		Metrics:      rt.metrics,
	})

	update, err := builder.Update(ctx, store)
	if err != nil {
		return usecase.RankingUpdate{}, err
	}
	if err := rt.store.SaveRanking(ctx, store); err != nil {
		return update, fmt.Errorf("save ranking table: %w", err)
	}
	return update, nil
}
