package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"bikeshare/internal/config"
)

const (
	ServiceName = "bikeshare"
	MeterName   = "bikeshare"
)

// Telemetry bundles the tracer, meter and instruments used by the session.
// A disabled Telemetry is backed by no-op providers, so callers never nil-check.
type Telemetry struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *Metrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *prometheus.Registry
	system         *SystemMetrics
	traceFile      *os.File
	metricsFile    string
	logger         *slog.Logger
}

// Metrics holds the application instruments
type Metrics struct {
	DatasetLoads   metric.Int64Counter
	RowsLoaded     metric.Int64Counter
	ReportDuration metric.Float64Histogram
	Sessions       metric.Int64Counter
}

// NoopTelemetry returns telemetry that records nothing.
func NoopTelemetry() *Telemetry {
	tel := &Telemetry{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		logger: GetLogger(),
	}
	// no-op instruments cannot fail
	tel.Metrics, _ = CreateMetrics(tel.Meter)
	return tel
}

// InitTelemetry sets up tracing to the configured trace file and metrics on a
// private Prometheus registry that is written out as a text file on Shutdown.
func InitTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if !cfg.Enabled {
		return NoopTelemetry(), nil
	}
	if logger == nil {
		logger = GetLogger()
	}

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceFile, err := os.OpenFile(cfg.TraceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file %s: %w", cfg.TraceFile, err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
	if err != nil {
		traceFile.Close()
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// Syncer exports each span as it ends; a session is short and interactive
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)

	registry := prometheus.NewRegistry()
	promExporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		_ = tp.Shutdown(context.Background())
		traceFile.Close()
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	tel := &Telemetry{
		Tracer:         tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion)),
		Meter:          mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion)),
		tracerProvider: tp,
		meterProvider:  mp,
		registry:       registry,
		traceFile:      traceFile,
		metricsFile:    cfg.MetricsFile,
		logger:         logger,
	}

	tel.Metrics, err = CreateMetrics(tel.Meter)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	tel.system, err = NewSystemMetrics(tel.Meter)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to register runtime metrics: %w", err)
	}

	logger.Info("Telemetry initialized",
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile),
		slog.String("environment", cfg.Environment))

	return tel, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", GenerateTraceID()),
	), nil
}

// CreateMetrics creates the application instruments on meter
func CreateMetrics(meter metric.Meter) (*Metrics, error) {
	datasetLoads, err := meter.Int64Counter(
		"bikeshare.dataset.loads",
		metric.WithDescription("Number of dataset loads"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"bikeshare.dataset.rows",
		metric.WithDescription("Rows remaining after month and day filtering"),
	)
	if err != nil {
		return nil, err
	}

	reportDuration, err := meter.Float64Histogram(
		"bikeshare.report.duration",
		metric.WithDescription("Statistics reporter duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	sessions, err := meter.Int64Counter(
		"bikeshare.session.iterations",
		metric.WithDescription("Completed session iterations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		DatasetLoads:   datasetLoads,
		RowsLoaded:     rowsLoaded,
		ReportDuration: reportDuration,
		Sessions:       sessions,
	}, nil
}

// StartSpan starts a span named name carrying attrs.
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecordReport records how long the named reporter took.
func (t *Telemetry) RecordReport(ctx context.Context, report string, elapsed time.Duration) {
	t.Metrics.ReportDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("report", report)))
}

// Shutdown writes the metrics text file and flushes both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	// The registry gathers from the meter provider, so write before shutting it down
	if t.registry != nil && t.metricsFile != "" {
		if err := prometheus.WriteToTextfile(t.metricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics file: %w", err))
		}
	}
	if t.system != nil {
		if err := t.system.Unregister(); err != nil {
			errs = append(errs, fmt.Errorf("failed to unregister runtime metrics: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	if t.traceFile != nil {
		if err := t.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close trace file: %w", err))
		}
		t.traceFile = nil
	}

	if len(errs) == 0 && t.tracerProvider != nil {
		t.logger.Debug("Telemetry shut down")
	}
	return errors.Join(errs...)
}
