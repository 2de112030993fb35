package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/stats"
)

// Sheet names of the exported workbook.
const (
	SummarySheet   = "Summary"
	UserTypesSheet = "User Types"
	GendersSheet   = "Genders"
)

// ReportExporter saves session statistics in the configured formats.
type ReportExporter struct {
	formats []string
	csv     *CSVWriter
	xlsx    *XLSXWriter
	logger  *slog.Logger
	tel     *infrastructure.Telemetry
}

// NewReportExporter creates an exporter for cfg. A nil telemetry records
// nothing.
func NewReportExporter(cfg config.ExportConfig, logger *slog.Logger, tel *infrastructure.Telemetry) *ReportExporter {
	if tel == nil {
		tel = infrastructure.NoopTelemetry()
	}
	logger = infrastructure.WithComponent(logger, "exporter")
	return &ReportExporter{
		formats: cfg.Formats,
		csv:     NewCSVWriter(cfg.Dir, logger),
		xlsx:    NewXLSXWriter(cfg.Dir, logger),
		logger:  logger,
		tel:     tel,
	}
}

// FileName returns the export file name, without extension, for sel.
func FileName(sel config.Selection) string {
	return sel.Slug() + "_stats"
}

// Export writes report once per configured format and returns the paths written.
func (e *ReportExporter) Export(ctx context.Context, report *stats.Report) (paths []string, err error) {
	ctx, span := e.tel.StartSpan(ctx, "export.report",
		attribute.String("selection", report.Selection.String()))
	defer func() { infrastructure.EndSpan(span, err) }()

	name := FileName(report.Selection)
	for _, format := range e.formats {
		var path string
		switch format {
		case "csv":
			path, err = e.csv.WriteCSV(name+".csv", WriteOptions{
				Headers:   []string{"Statistic", "Value"},
				Records:   CSVRecords(report),
				BOMPrefix: true,
			})
		case "xlsx":
			path, err = e.xlsx.WriteWorkbook(name+".xlsx", Sheets(report))
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			return paths, apperrors.NewExportError("failed to export statistics", err).
				WithContext("format", format)
		}

		e.logger.InfoContext(ctx, "Statistics exported",
			slog.String("format", format),
			slog.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// SummaryRecords flattens the scalar statistics into label/value rows.
func SummaryRecords(r *stats.Report) [][]string {
	records := [][]string{
		{"City", r.City.Title()},
		{"Month", r.Selection.Month},
		{"Day", r.Selection.Day},
		{"Rows", strconv.Itoa(r.Rows)},
	}

	if r.Time.HasData {
		records = append(records,
			[]string{"Most common month", r.Time.Month},
			[]string{"Most common day of week", r.Time.Day},
			[]string{"Most common start hour", strconv.Itoa(r.Time.Hour)})
	}
	if r.Stations.HasData {
		records = append(records,
			[]string{"Most common start station", r.Stations.Start},
			[]string{"Most common end station", r.Stations.End},
			[]string{"Most common trip", r.Stations.Trip.String()})
	}

	records = append(records,
		[]string{"Total travel time", strconv.FormatFloat(r.Durations.Total, 'f', -1, 64)},
		[]string{"Mean travel time", strconv.FormatFloat(r.Durations.Mean, 'f', -1, 64)})

	if r.Users.HasBirthYears {
		records = append(records,
			[]string{"Earliest birth year", strconv.Itoa(r.Users.EarliestBirth)},
			[]string{"Most recent birth year", strconv.Itoa(r.Users.LatestBirth)},
			[]string{"Most common birth year", strconv.Itoa(r.Users.CommonBirth)})
	}
	return records
}

// CSVRecords is the summary followed by one row per user type and gender.
func CSVRecords(r *stats.Report) [][]string {
	records := SummaryRecords(r)
	for _, c := range r.Users.UserTypes {
		records = append(records, []string{"User type: " + c.Value, strconv.Itoa(c.N)})
	}
	for _, c := range r.Users.Genders {
		records = append(records, []string{"Gender: " + c.Value, strconv.Itoa(c.N)})
	}
	return records
}

// Sheets lays the report out as workbook sheets. The gender sheet is only
// present when demographics were computed.
func Sheets(r *stats.Report) []Sheet {
	sheets := []Sheet{
		{Name: SummarySheet, Headers: []string{"Statistic", "Value"}, Records: SummaryRecords(r)},
		{Name: UserTypesSheet, Headers: []string{"User Type", "Count"}, Records: countRecords(r.Users.UserTypes)},
	}
	if r.Users.Demographics {
		sheets = append(sheets, Sheet{
			Name:    GendersSheet,
			Headers: []string{"Gender", "Count"},
			Records: countRecords(r.Users.Genders),
		})
	}
	return sheets
}

func countRecords(counts []stats.Count[string]) [][]string {
	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{c.Value, strconv.Itoa(c.N)})
	}
	return records
}
