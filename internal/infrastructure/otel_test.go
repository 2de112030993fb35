package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"bikeshare/internal/config"
)

func TestInitTelemetry_Disabled(t *testing.T) {
	tel, err := InitTelemetry(config.TelemetryConfig{Enabled: false}, nil)
	require.NoError(t, err)
	require.NotNil(t, tel.Tracer)
	require.NotNil(t, tel.Metrics)

	ctx, span := tel.StartSpan(context.Background(), "noop")
	tel.RecordReport(ctx, "time", time.Millisecond)
	EndSpan(span, errors.New("ignored"))

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestInitTelemetry_Enabled(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TelemetryConfig{
		Enabled:     true,
		Environment: "test",
		TraceFile:   filepath.Join(dir, "traces.json"),
		MetricsFile: filepath.Join(dir, "metrics.prom"),
	}

	tel, err := InitTelemetry(cfg, nil)
	require.NoError(t, err)

	ctx, span := tel.StartSpan(context.Background(), "dataset.load", attribute.String("city", "chicago"))
	tel.Metrics.RowsLoaded.Add(ctx, 42)
	tel.Metrics.DatasetLoads.Add(ctx, 1)
	tel.RecordReport(ctx, "duration", 250*time.Millisecond)
	EndSpan(span, nil)

	require.NoError(t, tel.Shutdown(context.Background()))

	traces, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traces), "dataset.load")
	assert.Contains(t, string(traces), "chicago")

	metrics, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "bikeshare_dataset_rows")
	assert.Contains(t, string(metrics), "bikeshare_report_duration")
	assert.Contains(t, string(metrics), `report="duration"`)
	assert.Contains(t, string(metrics), "bikeshare_runtime_goroutines")
	assert.Contains(t, string(metrics), "bikeshare_runtime_heap_alloc_bytes")
}

func TestInitTelemetry_BadTraceFile(t *testing.T) {
	cfg := config.TelemetryConfig{
		Enabled:   true,
		TraceFile: filepath.Join(t.TempDir(), "missing", "dir", "traces.json"),
	}

	_, err := InitTelemetry(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open trace file")
}

func TestEndSpan_RecordsError(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TelemetryConfig{
		Enabled:   true,
		TraceFile: filepath.Join(dir, "traces.json"),
	}

	tel, err := InitTelemetry(cfg, nil)
	require.NoError(t, err)

	_, span := tel.StartSpan(context.Background(), "dataset.load")
	EndSpan(span, errors.New("missing column Start Time"))
	require.NoError(t, tel.Shutdown(context.Background()))

	traces, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traces), "missing column Start Time")
}
