package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/tennis-history/internal/config"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	exportDBPingTimeout  = 5 * time.Second
	maxTracedQueryLength = 512
)

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// A batched insert repeats one placeholder tuple per row.
	valuesTupleRegex = regexp.MustCompile(`(?i)VALUES (\([^()]*\))((?:, ?\([^()]*\))+)`)
)

// openExportDB connects to the export database with query tracing and
// fails fast when it is unreachable.
func openExportDB(cfg config.Config, job string, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := exportDSN(cfg.ExportDBURL, cfg.ExportDBDisablePreparedBinary)
	dbName := dbNameFromDSN(dsn)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbName),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(traceQuery),
		otelsql.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("deployment.environment", cfg.AppEnv),
			attribute.String("job", job),
			attribute.String("export.run_id", cfg.ExportRunID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("open export db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), exportDBPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping export db %q: %w", dbName, err)
	}

	logger.Info("export db connected", "db_name", dbName, "run_id", cfg.ExportRunID)
	return db, nil
}

// exportDSN sets disable_prepared_binary_result=yes for poolers that cannot
// serve binary results, unless the URL already picks a value.
func exportDSN(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}
	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromDSN reads the database name from a URL or a key=value DSN.
func dbNameFromDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if parsed, err := url.Parse(dsn); err == nil && parsed.Scheme != "" {
		return strings.TrimPrefix(parsed.Path, "/")
	}
	for _, token := range strings.Fields(dsn) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// traceQuery flattens whitespace and folds the row tuples of a batched
// insert into the first one plus a row count, so span attributes stay
// readable for a 500 row batch.
func traceQuery(query string) string {
	query = strings.TrimSpace(queryWhitespaceRegex.ReplaceAllString(query, " "))
	query = valuesTupleRegex.ReplaceAllStringFunc(query, func(m string) string {
		sub := valuesTupleRegex.FindStringSubmatch(m)
		extra := strings.Count(sub[2], "(")
		return fmt.Sprintf("VALUES %s /* +%d rows */", sub[1], extra)
	})
	if len(query) > maxTracedQueryLength {
		return query[:maxTracedQueryLength] + "..."
	}
	return query
}
