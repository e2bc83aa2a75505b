package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartProfiler_Disabled(t *testing.T) {
	p, err := StartProfiler(config.TelemetryConfig{ServiceName: "storefront"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestStartProfiler_RequiresServerAddress(t *testing.T) {
	_, err := StartProfiler(config.TelemetryConfig{
		ServiceName: "storefront",
		Profiling:   config.ProfilingConfig{Enabled: true},
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address")
}

func TestProfileTypes(t *testing.T) {
	base := profileTypes(config.ProfilingConfig{})
	assert.Contains(t, base, pyroscope.ProfileCPU)
	assert.Contains(t, base, pyroscope.ProfileInuseSpace)
	assert.NotContains(t, base, pyroscope.ProfileMutexCount)
	assert.NotContains(t, base, pyroscope.ProfileBlockCount)

	all := profileTypes(config.ProfilingConfig{MutexProfiles: true, BlockProfiles: true})
	assert.Len(t, all, len(base)+4)
	assert.Contains(t, all, pyroscope.ProfileMutexDuration)
	assert.Contains(t, all, pyroscope.ProfileBlockDuration)
}

func TestProfileLabels(t *testing.T) {
	t.Run("labels reach the callback context", func(t *testing.T) {
		var route, method string
		ProfileLabels(context.Background(), func(ctx context.Context) {
			route, _ = pprof.Label(ctx, "route")
			method, _ = pprof.Label(ctx, "method")
		}, "Route", "/api/v1/orders", "method", "POST")
		assert.Equal(t, "/api/v1/orders", route)
		assert.Equal(t, "POST", method)
	})

	t.Run("empty values are dropped", func(t *testing.T) {
		called := false
		ProfileLabels(context.Background(), func(ctx context.Context) {
			called = true
			_, ok := pprof.Label(ctx, "route")
			assert.False(t, ok)
		}, "route", "")
		assert.True(t, called)
	})
}

func TestPyroscopeLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := pyroscopeLogger{zap.New(core).Sugar()}

	l.Infof("upload %d", 1)
	l.Errorf("upload failed: %s", "timeout")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "upload 1", logs.All()[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}
