package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/riskibarqy/tennis-history/internal/infrastructure/repository/csvstore"
	"github.com/riskibarqy/tennis-history/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tennis-history/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tennis-history/internal/usecase"
)

// BuildDataset runs the dataset builder against the normalized ranking
// table and the known player profiles. The final tables are also exported
// to Postgres when EXPORT_DB_ENABLED is set.
func (rt *Runtime) BuildDataset(ctx context.Context) (usecase.BuildResult, error) {
	store, err := rt.store.LoadRanking(ctx, csvstore.KeysNormalized)
	if err != nil {
		return usecase.BuildResult{}, fmt.Errorf("load ranking table: %w", err)
	}
	if store.Len() == 0 {
		rt.logger.WarnContext(ctx, "ranking table empty, every player will be unresolved",
			"file", rt.store.RankingFile(),
		)
	}

	profiles, err := rt.knownPlayers(ctx)
	if err != nil {
		return usecase.BuildResult{}, err
	}

	var exporter usecase.DatasetExporter
	if rt.cfg.ExportDBEnabled {
		db, err := openExportDB(rt.cfg, rt.job, rt.logger)
		if err != nil {
			return usecase.BuildResult{}, err
		}
		defer func() {
			if err := db.Close(); err != nil {
				rt.logger.Warn("close export db", "error", err)
			}
		}()
		exporter = postgres.NewDatasetRepository(db, rt.cfg.ExportRunID, rt.logger)
	}

	rules := match.DefaultRules()
	source := rt.matchSource()
	players := memory.NewPlayerRepository(profiles)

	resolver := usecase.NewIdentityResolver(store, csvstore.NewMatchLog(rt.store.AuditLogPath()), usecase.IdentityResolverConfig{
		FuzzyThreshold:     rt.cfg.FuzzyThreshold,
		BirthDateTolerance: rt.cfg.BirthDateTolerance,
		Logger:             rt.logger,
		Metrics:            rt.metrics,
	})
	assembler := usecase.NewRecordAssembler(
		source,
		usecase.NewProfileService(players, source, rt.logger),
		resolver,
		rules,
		rt.logger,
	)
	fetcher := usecase.NewHistoryFetcher(source, assembler, usecase.HistoryFetcherConfig{
		MaxPages: rt.cfg.HistoryMaxPages,
		Rules:    rules,
		Logger:   rt.logger,
		Metrics:  rt.metrics,
	})

	svc := usecase.NewDatasetService(usecase.DatasetDeps{
		Catalog:   usecase.NewCatalogService(source, usecase.CatalogConfig{Logger: rt.logger}),
		Assembler: assembler,
		Fetcher:   fetcher,
		Players:   players,
		Ranking:   store,
		Tables:    rt.store,
		EventIDs:  rt.store,
		Exporter:  exporter,
		Rules:     rules,
	}, usecase.DatasetConfig{
		NumPrevious:     rt.cfg.NumPrevious,
		SeasonYears:     rt.cfg.SeasonYears,
		FreshStart:      rt.cfg.FreshStart,
		RefreshEventIDs: rt.cfg.RefreshEventIDs,
		Logger:          rt.logger,
		Metrics:         rt.metrics,
	})

	return svc.Run(ctx)
}

// knownPlayers seeds the profile cache from the previous run. A fresh
// start begins with an empty cache.
func (rt *Runtime) knownPlayers(ctx context.Context) ([]player.Profile, error) {
	if rt.cfg.FreshStart {
		return nil, nil
	}
	profiles, err := rt.store.LoadPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	return profiles, nil
}
