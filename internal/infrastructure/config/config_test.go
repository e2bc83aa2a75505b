package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"STORE_APP_NAME",
	"STORE_APP_ENV",
	"STORE_APP_PORT",
	"STORE_DATABASE_DRIVER",
	"STORE_DATABASE_HOST",
	"STORE_DATABASE_PORT",
	"STORE_DATABASE_USER",
	"STORE_DATABASE_PASSWORD",
	"STORE_DATABASE_DBNAME",
	"STORE_DATABASE_SSLMODE",
	"STORE_DATABASE_AUTO_MIGRATE",
	"STORE_DATABASE_MAX_OPEN_CONNS",
	"STORE_DATABASE_MAX_IDLE_CONNS",
	"STORE_REDIS_ENABLED",
	"STORE_JWT_SECRET",
	"STORE_CATALOG_TAX_RATE",
	"STORE_TELEMETRY_SAMPLING_RATIO",
	"STORE_TELEMETRY_METRICS_ENABLED",
	"STORE_TELEMETRY_METRICS_INTERVAL",
	"STORE_TELEMETRY_LOGS_ENABLED",
	"STORE_TELEMETRY_DB_METRICS_ENABLED",
	"STORE_TELEMETRY_DB_SLOW_QUERY",
	"STORE_TELEMETRY_PROFILING_ENABLED",
	"STORE_TELEMETRY_PROFILING_SERVER_ADDRESS",
	"STORE_TELEMETRY_PROFILING_SPAN_PROFILES",
	"STORE_HTTP_CORS_ALLOW_ORIGINS",
}

// isolateEnv clears every config variable for the duration of a test
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		isolateEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.True(t, cfg.Database.AutoMigrate)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.True(t, cfg.Event.IdempotencyEnabled)
		assert.Zero(t, cfg.Catalog.TaxRate, "prices are untaxed unless configured")
		assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 24*time.Hour, cfg.Event.IdempotencyTTL)
		assert.Equal(t, "storefront:event:", cfg.Event.IdempotencyPrefix)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.False(t, cfg.Telemetry.LogsEnabled)
		assert.False(t, cfg.Telemetry.DBMetricsEnabled)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQuery)
		assert.False(t, cfg.Telemetry.Profiling.Enabled)
		assert.Equal(t, "http://localhost:4040", cfg.Telemetry.Profiling.ServerAddress)
	})

	t.Run("loads values from environment variables with STORE prefix", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STORE_APP_NAME", "test-app")
		os.Setenv("STORE_APP_PORT", "9000")
		os.Setenv("STORE_DATABASE_DRIVER", "sqlite")
		os.Setenv("STORE_DATABASE_HOST", "testdb.local")
		os.Setenv("STORE_DATABASE_PORT", "5433")
		os.Setenv("STORE_DATABASE_AUTO_MIGRATE", "false")
		os.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("STORE_REDIS_ENABLED", "true")
		os.Setenv("STORE_CATALOG_TAX_RATE", "0.2")
		os.Setenv("STORE_HTTP_CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.False(t, cfg.Database.AutoMigrate)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.InDelta(t, 0.2, cfg.Catalog.TaxRate, 1e-9)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STORE_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects negative tax rate", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STORE_CATALOG_TAX_RATE", "-0.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog.tax_rate")
	})

	t.Run("reads metrics settings from env", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STORE_TELEMETRY_METRICS_ENABLED", "true")
		os.Setenv("STORE_TELEMETRY_METRICS_INTERVAL", "15s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, 15*time.Second, cfg.Telemetry.MetricsInterval)
	})

	t.Run("reads log bridge, db metrics and profiling settings from env", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STORE_TELEMETRY_LOGS_ENABLED", "true")
		os.Setenv("STORE_TELEMETRY_DB_METRICS_ENABLED", "true")
		os.Setenv("STORE_TELEMETRY_DB_SLOW_QUERY", "500ms")
		os.Setenv("STORE_TELEMETRY_PROFILING_ENABLED", "true")
		os.Setenv("STORE_TELEMETRY_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")
		os.Setenv("STORE_TELEMETRY_PROFILING_SPAN_PROFILES", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.LogsEnabled)
		assert.True(t, cfg.Telemetry.DBMetricsEnabled)
		assert.Equal(t, 500*time.Millisecond, cfg.Telemetry.DBSlowQuery)
		assert.True(t, cfg.Telemetry.Profiling.Enabled)
		assert.Equal(t, "http://pyroscope:4040", cfg.Telemetry.Profiling.ServerAddress)
		assert.True(t, cfg.Telemetry.Profiling.SpanProfiles)
	})

	t.Run("profiling needs a server address", func(t *testing.T) {
		isolateEnv(t)
		cfg, err := Load()
		require.NoError(t, err)

		cfg.Telemetry.Profiling.Enabled = true
		cfg.Telemetry.Profiling.ServerAddress = ""
		err = cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling.server_address")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STORE_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func() {
		os.Setenv("STORE_APP_ENV", "production")
		os.Setenv("STORE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("STORE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("STORE_DATABASE_SSLMODE", "require")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Unsetenv("STORE_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Setenv("STORE_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Unsetenv("STORE_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Setenv("STORE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("refuses sqlite in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Setenv("STORE_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be postgres in production")
	})

	t.Run("refuses wildcard CORS origin in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Setenv("STORE_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Addr())
}
