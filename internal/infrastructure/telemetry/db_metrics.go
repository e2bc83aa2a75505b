package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DBMetrics counts and times every GORM statement and reports the
// connection pool through observable instruments read at collection time.
type DBMetrics struct {
	queries   metric.Int64Counter
	duration  metric.Float64Histogram
	slow      metric.Int64Counter
	errors    metric.Int64Counter
	slowQuery time.Duration
	system    attribute.KeyValue

	meter metric.Meter
	pool  metric.Registration
}

type metricsStartKey struct{}

// RegisterDBMetrics installs the statement callbacks and pool gauges on db.
// It returns nil when metrics or database metrics are disabled; Close
// accepts a nil receiver.
func RegisterDBMetrics(db *gorm.DB, p *Providers, cfg config.TelemetryConfig, driver string, logger *zap.Logger) (*DBMetrics, error) {
	if !p.MetricsEnabled() || !cfg.DBMetricsEnabled {
		logger.Debug("Database metrics disabled")
		return nil, nil
	}
	m, err := NewDBMetrics(p.Meter("storefront/db"), cfg.DBSlowQuery, dbSystem(driver))
	if err != nil {
		return nil, err
	}
	if err := m.Register(db); err != nil {
		return nil, err
	}
	logger.Info("Database metrics enabled", zap.Duration("slow_query", m.slowQuery))
	return m, nil
}

// NewDBMetrics creates the statement instruments on meter
func NewDBMetrics(meter metric.Meter, slowQuery time.Duration, system string) (*DBMetrics, error) {
	if slowQuery <= 0 {
		slowQuery = defaultSlowQuery
	}
	m := &DBMetrics{meter: meter, slowQuery: slowQuery, system: attribute.String("db.system", system)}

	var err error
	if m.queries, err = meter.Int64Counter("db.client.queries",
		metric.WithDescription("Database statements by operation"),
		metric.WithUnit("{query}"),
	); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("db.client.query.duration",
		metric.WithDescription("Database statement latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(dbDurationBuckets...),
	); err != nil {
		return nil, err
	}
	if m.slow, err = meter.Int64Counter("db.client.slow_queries",
		metric.WithDescription("Database statements slower than the slow-query threshold, by table"),
		metric.WithUnit("{query}"),
	); err != nil {
		return nil, err
	}
	if m.errors, err = meter.Int64Counter("db.client.query.errors",
		metric.WithDescription("Failed database statements, not-found excluded"),
		metric.WithUnit("{query}"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// Register hooks the statement callbacks into db and starts reporting its pool
func (m *DBMetrics) Register(db *gorm.DB) error {
	cb := db.Callback()
	stages := []struct {
		name, operation string
		before, after   gormHook
	}{
		{"create", "INSERT", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", "SELECT", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", "UPDATE", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", "DELETE", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", "", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", "", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range stages {
		operation := s.operation
		if err := s.before("storefront:metrics_start:"+s.name, stampMetricsStart); err != nil {
			return err
		}
		if err := s.after("storefront:metrics:"+s.name, func(tx *gorm.DB) { m.observe(tx, operation) }); err != nil {
			return err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return m.observePool(sqlDB)
}

func (m *DBMetrics) observePool(sqlDB *sql.DB) error {
	usage, err := m.meter.Int64ObservableGauge("db.client.connections.usage",
		metric.WithDescription("Open connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	maxOpen, err := m.meter.Int64ObservableGauge("db.client.connections.max",
		metric.WithDescription("Maximum number of open connections allowed"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	waits, err := m.meter.Int64ObservableCounter("db.client.connections.waits",
		metric.WithDescription("Connection requests that had to wait"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return err
	}

	m.pool, err = m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(usage, int64(stats.Idle), metric.WithAttributes(m.system, attribute.String("state", "idle")))
		o.ObserveInt64(usage, int64(stats.InUse), metric.WithAttributes(m.system, attribute.String("state", "used")))
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections), metric.WithAttributes(m.system))
		o.ObserveInt64(waits, stats.WaitCount, metric.WithAttributes(m.system))
		return nil
	}, usage, maxOpen, waits)
	return err
}

// Close stops reporting pool statistics
func (m *DBMetrics) Close() error {
	if m == nil || m.pool == nil {
		return nil
	}
	return m.pool.Unregister()
}

func stampMetricsStart(db *gorm.DB) {
	if ctx := db.Statement.Context; ctx != nil {
		db.Statement.Context = context.WithValue(ctx, metricsStartKey{}, time.Now())
	}
}

func (m *DBMetrics) observe(db *gorm.DB, operation string) {
	stmt := db.Statement
	ctx := stmt.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if operation == "" {
		operation = operationOf(stmt.SQL.String())
	}
	table := stmt.Table
	if table == "" {
		table = "unknown"
	}

	opAttrs := metric.WithAttributes(m.system, attribute.String("db.operation", operation))
	m.queries.Add(ctx, 1, opAttrs)
	if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		m.errors.Add(ctx, 1, opAttrs)
	}

	start, ok := ctx.Value(metricsStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	m.duration.Record(ctx, elapsed.Seconds(), opAttrs)
	if elapsed > m.slowQuery {
		m.slow.Add(ctx, 1, metric.WithAttributes(m.system, attribute.String("db.sql.table", table)))
	}
}

func operationOf(query string) string {
	query = strings.ToUpper(strings.TrimSpace(query))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(query, op) {
			return op
		}
	}
	return "OTHER"
}

func dbSystem(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite"
	}
	return "postgresql"
}
