package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
)

// Loader resolves a selection to its city dataset, derives the time columns
// and applies the month and day filters.
type Loader struct {
	dataDir string
	catalog config.Catalog
	logger  *slog.Logger
	tel     *infrastructure.Telemetry
}

// NewLoader creates a loader reading city files from dataDir. A nil
// telemetry records nothing.
func NewLoader(dataDir string, catalog config.Catalog, logger *slog.Logger, tel *infrastructure.Telemetry) *Loader {
	if tel == nil {
		tel = infrastructure.NoopTelemetry()
	}
	return &Loader{
		dataDir: dataDir,
		catalog: catalog,
		logger:  infrastructure.WithComponent(logger, "dataset"),
		tel:     tel,
	}
}

// Path returns the dataset file for city.
func (l *Loader) Path(city config.City) string {
	if filepath.IsAbs(city.File) {
		return city.File
	}
	return filepath.Join(l.dataDir, city.File)
}

// Load reads the selected city's dataset and returns the rows matching the
// selected month and day. "all" skips the corresponding filter.
func (l *Loader) Load(ctx context.Context, sel config.Selection) (table *Table, err error) {
	ctx, span := l.tel.StartSpan(ctx, "dataset.load",
		attribute.String("city", sel.City),
		attribute.String("month", sel.Month),
		attribute.String("day", sel.Day))
	defer func() { infrastructure.EndSpan(span, err) }()

	start := time.Now()

	city, ok := l.catalog.Lookup(sel.City)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("dataset for city %q", sel.City))
	}

	path := l.Path(city)
	frame, err := LoadFrame(path)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to load dataset",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}
	total := frame.Nrow()

	frame, err = DeriveTimeColumns(frame)
	if err != nil {
		return nil, err
	}

	frame, err = Filter(frame, sel)
	if err != nil {
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.String("city", city.Name))
	l.tel.Metrics.DatasetLoads.Add(ctx, 1, attrs)
	l.tel.Metrics.RowsLoaded.Add(ctx, int64(frame.Nrow()), attrs)

	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", path),
		slog.Int("rows_total", total),
		slog.Int("rows_selected", frame.Nrow()),
		slog.Duration("duration", time.Since(start)))

	return NewTable(frame, city, sel), nil
}

// LoadFrame parses a .csv or .xlsx trip log and checks the required columns.
// Trip Duration and Birth Year are numeric; everything else is text, and
// blank cells are missing values.
func LoadFrame(path string) (dataframe.DataFrame, error) {
	var (
		frame dataframe.DataFrame
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		frame, err = readCSVFile(path)
	case ".xlsx":
		frame, err = readXLSXFile(path)
	default:
		return dataframe.DataFrame{}, apperrors.NewDataLoadError(
			fmt.Sprintf("unsupported dataset format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	names := frame.Names()
	var missing []string
	for _, col := range config.RequiredColumns() {
		if !slices.Contains(names, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return dataframe.DataFrame{}, apperrors.NewDataLoadError(
			fmt.Sprintf("dataset %s is missing columns: %s", filepath.Base(path), strings.Join(missing, ", ")), nil).
			WithContext("path", path)
	}

	return frame, nil
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			config.ColTripDuration: series.Float,
			config.ColBirthYear:    series.Float,
		}),
		dataframe.NaNValues([]string{"", "NA", "NaN", "<nil>"}),
	}
}

func readCSVFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewDataLoadError("failed to open dataset", err).
			WithContext("path", path)
	}
	defer f.Close()
	return readCSV(f, path)
}

func readCSV(r io.Reader, path string) (dataframe.DataFrame, error) {
	frame := dataframe.ReadCSV(r, loadOptions()...)
	if frame.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to parse dataset", frame.Err).
			WithContext("path", path)
	}
	return frame, nil
}

// readXLSXFile loads the first sheet, whose first row is the header
func readXLSXFile(path string) (dataframe.DataFrame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewDataLoadError("failed to open dataset", err).
			WithContext("path", path)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, apperrors.NewParsingError("workbook has no sheets", nil).
			WithContext("path", path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, apperrors.NewParsingError("sheet is empty", nil).
			WithContext("path", path)
	}

	// GetRows drops trailing empty cells, so pad every row to the header width
	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		record := make([]string, width)
		copy(record, row)
		records = append(records, record)
	}

	frame := dataframe.LoadRecords(records, loadOptions()...)
	if frame.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to parse dataset", frame.Err).
			WithContext("path", path)
	}
	return frame, nil
}
