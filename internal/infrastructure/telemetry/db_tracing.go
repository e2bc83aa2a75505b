package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQuery = 200 * time.Millisecond

// DBTracing configures otelgorm spans for every statement plus the
// storefront's own annotations: table, rows affected and slow-query marks
type DBTracing struct {
	Enabled          bool
	IncludeQueryArgs bool // bound values end up in spans, development only
	SlowQuery        time.Duration
	System           string // db.system attribute, e.g. postgresql
}

// DBTracingFor derives the plugin settings from the telemetry config and
// the database driver in use
func DBTracingFor(cfg config.TelemetryConfig, driver string) DBTracing {
	return DBTracing{
		Enabled:          cfg.Enabled && cfg.DBTraceEnabled,
		IncludeQueryArgs: cfg.DBLogFullSQL,
		SlowQuery:        cfg.DBSlowQuery,
		System:           dbSystem(driver),
	}
}

type queryStartKey struct{}

type gormHook = func(name string, fn func(*gorm.DB)) error

// Register installs the plugin on db; nothing happens when tracing is off
func (t DBTracing) Register(db *gorm.DB, logger *zap.Logger) error {
	if !t.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}
	if t.SlowQuery <= 0 {
		t.SlowQuery = defaultSlowQuery
	}

	// The annotating callbacks go in before otelgorm's so its span is still open when they run.
	cb := db.Callback()
	stages := []struct {
		name          string
		before, after gormHook
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range stages {
		if err := s.before("storefront:query_start:"+s.name, stampStart); err != nil {
			return err
		}
		if err := s.after("storefront:query_span:"+s.name, t.annotate); err != nil {
			return err
		}
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(t.System)}
	if !t.IncludeQueryArgs {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", t.System),
		zap.Bool("include_query_args", t.IncludeQueryArgs),
		zap.Duration("slow_query", t.SlowQuery),
	)
	return nil
}

func stampStart(db *gorm.DB) {
	if ctx := db.Statement.Context; ctx != nil {
		db.Statement.Context = context.WithValue(ctx, queryStartKey{}, time.Now())
	}
}

func (t DBTracing) annotate(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Context == nil {
		return
	}
	span := trace.SpanFromContext(stmt.Context)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", stmt.RowsAffected)}
	if stmt.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", stmt.Table))
	}
	if start, ok := stmt.Context.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > t.SlowQuery {
			attrs = append(attrs,
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
	span.SetAttributes(attrs...)

	if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
