package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemMetrics reports Go runtime gauges. Values are read from the runtime
// whenever the meter is collected, so the metrics file written on shutdown
// carries the process state at exit.
type SystemMetrics struct {
	startTime time.Time

	goRoutines      metric.Int64ObservableGauge
	memoryAllocated metric.Int64ObservableGauge
	memorySystem    metric.Int64ObservableGauge
	gcCount         metric.Int64ObservableCounter
	processUptime   metric.Float64ObservableGauge

	registration metric.Registration
}

// NewSystemMetrics registers the runtime gauges on meter
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	sm := &SystemMetrics{startTime: time.Now()}

	var err error
	sm.goRoutines, err = meter.Int64ObservableGauge(
		"bikeshare.runtime.goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	sm.memoryAllocated, err = meter.Int64ObservableGauge(
		"bikeshare.runtime.heap_alloc",
		metric.WithDescription("Heap bytes allocated by the Go runtime"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	sm.memorySystem, err = meter.Int64ObservableGauge(
		"bikeshare.runtime.sys",
		metric.WithDescription("Memory obtained from the OS"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	sm.gcCount, err = meter.Int64ObservableCounter(
		"bikeshare.runtime.gc",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	sm.processUptime, err = meter.Float64ObservableGauge(
		"bikeshare.runtime.uptime",
		metric.WithDescription("Process uptime"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	sm.registration, err = meter.RegisterCallback(sm.observe,
		sm.goRoutines, sm.memoryAllocated, sm.memorySystem, sm.gcCount, sm.processUptime)
	if err != nil {
		return nil, err
	}
	return sm, nil
}

// observe records one snapshot of the runtime statistics
func (sm *SystemMetrics) observe(_ context.Context, o metric.Observer) error {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	o.ObserveInt64(sm.goRoutines, int64(runtime.NumGoroutine()))
	o.ObserveInt64(sm.memoryAllocated, int64(memStats.HeapAlloc))
	o.ObserveInt64(sm.memorySystem, int64(memStats.Sys))
	o.ObserveInt64(sm.gcCount, int64(memStats.NumGC))
	o.ObserveFloat64(sm.processUptime, time.Since(sm.startTime).Seconds())
	return nil
}

// Unregister stops the runtime callback
func (sm *SystemMetrics) Unregister() error {
	if sm.registration == nil {
		return nil
	}
	return sm.registration.Unregister()
}
