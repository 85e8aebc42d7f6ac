package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/macropower/rtool/pkg/telemetry"
)

func TestNewTracingConfig(t *testing.T) {
	t.Parallel()

	cfg := telemetry.NewTracingConfig("")
	assert.False(t, cfg.Enabled())
	assert.Equal(t, "rtool", cfg.ServiceName)
	assert.InDelta(t, 1.0, cfg.SampleRatio, 0)

	assert.True(t, telemetry.NewTracingConfig("localhost:4317").Enabled())
}

func TestSetupTracing_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := telemetry.SetupTracing(t.Context(), telemetry.NewTracingConfig(""))
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestSetupTracing_InvalidSampleRatio(t *testing.T) {
	t.Parallel()

	cfg := telemetry.NewTracingConfig("localhost:4317")
	cfg.SampleRatio = 1.5

	_, err := telemetry.SetupTracing(t.Context(), cfg)
	require.ErrorIs(t, err, telemetry.ErrInvalidSampleRatio)
}

//nolint:paralleltest // Replaces the global tracer provider.
func TestSetupTracing_Enabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := telemetry.NewTracingConfig("127.0.0.1:4317")
	cfg.Timeout = 100 * time.Millisecond

	shutdown, err := telemetry.SetupTracing(t.Context(), cfg)
	require.NoError(t, err)
	assert.NotSame(t, prev, otel.GetTracerProvider())

	// Nothing has been recorded, so shutdown does not need a collector.
	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()

	require.NoError(t, shutdown(ctx))
}
