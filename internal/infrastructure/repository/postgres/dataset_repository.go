package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	qb "github.com/riskibarqy/tennis-history/internal/platform/querybuilder"
)

const defaultInsertBatchSize = 500

// DatasetRepository exports the final dataset tables under a run id.
// Exporting again with the same run id replaces the earlier rows.
type DatasetRepository struct {
	db        *sqlx.DB
	runID     string
	batchSize int
	logger    *logging.Logger
}

func NewDatasetRepository(db *sqlx.DB, runID string, logger *logging.Logger) *DatasetRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &DatasetRepository{
		db:        db,
		runID:     runID,
		batchSize: defaultInsertBatchSize,
		logger:    logger,
	}
}

func (r *DatasetRepository) ExportDataset(ctx context.Context, current, previous []match.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx export dataset: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	currentRows := make([]currentMatchModel, 0, len(current))
	for i, rec := range current {
		currentRows = append(currentRows, currentMatchFromRecord(r.runID, i, rec))
	}
	previousRows := make([]previousMatchModel, 0, len(previous))
	for i, rec := range previous {
		previousRows = append(previousRows, previousMatchFromRecord(r.runID, i, rec))
	}

	if err := replaceRun(ctx, tx, currentMatchesTable, r.runID, currentRows, r.batchSize); err != nil {
		return err
	}
	if err := replaceRun(ctx, tx, previousMatchesTable, r.runID, previousRows, r.batchSize); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export dataset tx: %w", err)
	}

	r.logger.InfoContext(ctx, "dataset exported",
		"run_id", r.runID,
		"current_rows", len(currentRows),
		"previous_rows", len(previousRows),
	)
	return nil
}

func replaceRun[T any](ctx context.Context, tx *sqlx.Tx, table, runID string, rows []T, batchSize int) error {
	clearQuery, clearArgs, err := qb.DeleteFrom(table).Where(qb.Eq("run_id", runID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear %s run=%s: %w", table, runID, err)
	}

	for _, batch := range batches(rows, batchSize) {
		query, args, err := qb.InsertModels(table, batch, "")
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s run=%s: %w", table, runID, err)
		}
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From(table).Where(qb.Eq("run_id", runID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build count %s query: %w", table, err)
	}
	var stored int
	if err := tx.GetContext(ctx, &stored, countQuery, countArgs...); err != nil {
		return fmt.Errorf("count %s run=%s: %w", table, runID, err)
	}
	if stored != len(rows) {
		return fmt.Errorf("verify %s run=%s: stored=%d want=%d", table, runID, stored, len(rows))
	}
	return nil
}

func batches[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = defaultInsertBatchSize
	}
	out := make([][]T, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		out = append(out, rows[start:end])
	}
	return out
}
