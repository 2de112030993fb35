package stats

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
)

const noData = "no data"

// Section titles, printed in this order.
const (
	TimeTitle     = "Calculating the Most Frequent Times of Travel..."
	StationTitle  = "Calculating The Most Popular Stations and Trip..."
	DurationTitle = "Calculating Trip Duration..."
	UserTitle     = "Calculating User Stats..."
)

// Report collects the results of all four reporters for one table.
type Report struct {
	Selection config.Selection
	City      config.City
	Rows      int
	Time      TimeStats
	Stations  StationStats
	Durations DurationStats
	Users     UserStats
	Elapsed   map[string]time.Duration
}

// Reporter computes and prints the statistics sections.
type Reporter struct {
	out    io.Writer
	logger *slog.Logger
	tel    *infrastructure.Telemetry
	now    func() time.Time
}

// NewReporter creates a reporter writing to out. A nil telemetry records
// nothing.
func NewReporter(out io.Writer, logger *slog.Logger, tel *infrastructure.Telemetry) *Reporter {
	if tel == nil {
		tel = infrastructure.NoopTelemetry()
	}
	return &Reporter{
		out:    out,
		logger: infrastructure.WithComponent(logger, "stats"),
		tel:    tel,
		now:    time.Now,
	}
}

// Run prints the time, station, duration and user sections for t and
// returns the computed values. It stops at the first section that fails.
func (r *Reporter) Run(ctx context.Context, t *dataset.Table) (*Report, error) {
	report := &Report{
		Selection: t.Selection(),
		City:      t.City(),
		Rows:      t.Len(),
		Elapsed:   make(map[string]time.Duration, 4),
	}

	sections := []struct {
		name, title string
		compute     func() (writerTo, error)
	}{
		{"time", TimeTitle, func() (writerTo, error) {
			var err error
			report.Time, err = ComputeTimeStats(t)
			return report.Time, err
		}},
		{"station", StationTitle, func() (writerTo, error) {
			var err error
			report.Stations, err = ComputeStationStats(t)
			return report.Stations, err
		}},
		{"duration", DurationTitle, func() (writerTo, error) {
			var err error
			report.Durations, err = ComputeDurationStats(t)
			return report.Durations, err
		}},
		{"user", UserTitle, func() (writerTo, error) {
			var err error
			report.Users, err = ComputeUserStats(t)
			return report.Users, err
		}},
	}
	for _, sec := range sections {
		if err := r.section(ctx, report, sec.name, sec.title, sec.compute); err != nil {
			return report, err
		}
	}
	return report, nil
}

type writerTo interface {
	Write(w io.Writer)
}

func (r *Reporter) section(ctx context.Context, report *Report, name, title string, compute func() (writerTo, error)) (err error) {
	ctx, span := r.tel.StartSpan(ctx, "stats."+name, attribute.Int("rows", report.Rows))
	defer func() { infrastructure.EndSpan(span, err) }()

	fmt.Fprintf(r.out, "\n%s\n\n", title)

	start := r.now()
	result, err := compute()
	if err != nil {
		infrastructure.WithError(r.logger, err).ErrorContext(ctx, "Failed to compute statistics",
			slog.String("report", name))
		return apperrors.NewDataLoadError(fmt.Sprintf("failed to compute %s statistics", name), err)
	}
	var body bytes.Buffer
	result.Write(&body)
	elapsed := r.now().Sub(start)

	report.Elapsed[name] = elapsed
	r.tel.RecordReport(ctx, name, elapsed)

	r.out.Write(body.Bytes())
	fmt.Fprintf(r.out, "\nThis took %s seconds.\n", formatFloat(elapsed.Seconds()))
	fmt.Fprintln(r.out, config.Separator())

	r.logger.DebugContext(ctx, "Report computed",
		slog.String("report", name),
		slog.Int("rows", report.Rows),
		slog.Duration("duration", elapsed))
	return nil
}
