package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var errDetect = errors.New("detect host")

type failingDetector struct{}

func (failingDetector) Detect(context.Context) (*resource.Resource, error) {
	return nil, errDetect
}

type recordingExporter struct {
	shutdowns int
}

func (e *recordingExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error {
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error {
	e.shutdowns++

	return nil
}

func TestSetupProvider_ResourceError(t *testing.T) {
	t.Parallel()

	exporter := &recordingExporter{}

	shutdown, err := setupProvider(t.Context(), NewTracingConfig("localhost:4317"), exporter,
		resource.WithDetectors(failingDetector{}),
	)
	require.ErrorContains(t, err, "detect host")
	require.ErrorContains(t, err, "create resource")
	assert.Nil(t, shutdown)
	assert.Equal(t, 1, exporter.shutdowns)
}
