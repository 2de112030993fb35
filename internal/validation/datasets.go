package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
)

// Result is the outcome of validating one city's dataset.
type Result struct {
	City            config.City
	Path            string
	Rows            int
	HasDemographics bool
	Duration        time.Duration
	Err             error
}

// OK reports whether the dataset passed every check.
func (r Result) OK() bool {
	return r.Err == nil
}

// DatasetValidator checks every catalog entry's dataset file.
type DatasetValidator struct {
	catalog config.Catalog
	path    func(config.City) string
	logger  *slog.Logger
}

// NewDatasetValidator creates a validator resolving files with path.
func NewDatasetValidator(catalog config.Catalog, path func(config.City) string, logger *slog.Logger) *DatasetValidator {
	logger = infrastructure.WithComponent(logger, "validation")
	return &DatasetValidator{
		catalog: catalog,
		path:    path,
		logger:  logger,
	}
}

// Validate fully parses one city's dataset: the file must be readable, carry
// the required columns and have a parseable Start Time on every row.
func (v *DatasetValidator) Validate(city config.City) (res Result) {
	start := time.Now()
	res = Result{City: city, Path: v.path(city)}
	defer func() { res.Duration = time.Since(start) }()

	if err := checkDatasetFile(res.Path); err != nil {
		res.Err = err.WithContext("city", city.Name)
		return res
	}

	frame, err := dataset.LoadFrame(res.Path)
	if err != nil {
		res.Err = err
		return res
	}
	if _, err := dataset.DeriveTimeColumns(frame); err != nil {
		res.Err = err
		return res
	}

	res.Rows = frame.Nrow()
	names := frame.Names()
	res.HasDemographics = true
	for _, col := range config.DemographicColumns() {
		if !slices.Contains(names, col) {
			res.HasDemographics = false
		}
	}
	if city.HasDemographics && !res.HasDemographics {
		v.logger.Warn("Dataset lacks demographic columns",
			slog.String("city", city.Name),
			slog.String("path", res.Path))
	}
	return res
}

// CheckDataDir reports a missing data directory, or a path that is not one,
// before any city is validated.
func (v *DatasetValidator) CheckDataDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		err = apperrors.NewNotFoundError("data directory").WithContext("path", dir)
	case err != nil:
		err = apperrors.NewDataLoadError("failed to read data directory", err).WithContext("path", dir)
	case !info.IsDir():
		err = apperrors.NewValidationError("data directory is a file", nil).WithContext("path", dir)
	default:
		return nil
	}
	v.logger.Error("Data directory is unusable", slog.String("path", dir), slog.String("error", err.Error()))
	return err
}

// checkDatasetFile rejects paths the loader cannot parse. Readability is left
// to the loader, which opens the file right after.
func checkDatasetFile(path string) *apperrors.AppError {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") {
		return apperrors.NewValidationError("dataset is an Excel lock file", nil).WithContext("path", path)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
	default:
		return apperrors.NewValidationError("dataset must be a .csv or .xlsx file", nil).WithContext("path", path)
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return apperrors.NewNotFoundError("dataset file").WithContext("path", path)
	case err != nil:
		return apperrors.NewDataLoadError("failed to stat dataset file", err).WithContext("path", path)
	case info.IsDir():
		return apperrors.NewValidationError("dataset path is a directory", nil).WithContext("path", path)
	}
	return nil
}

// ValidateAll validates every catalog entry in parallel. Results follow
// catalog order; the error joins every failed city's error. All log lines of
// one run share a trace ID, reusing the caller's when ctx has one.
func (v *DatasetValidator) ValidateAll(ctx context.Context) ([]Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	results := make([]Result, len(v.catalog))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, city := range v.catalog {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = v.Validate(city)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var failed []error
	for _, res := range results {
		if res.OK() {
			v.logger.InfoContext(ctx, "Dataset validated",
				slog.String("city", res.City.Name),
				slog.Int("rows", res.Rows),
				slog.Duration("duration", res.Duration))
			continue
		}
		v.logger.ErrorContext(ctx, "Dataset validation failed",
			slog.String("city", res.City.Name),
			slog.String("error", res.Err.Error()))
		failed = append(failed, fmt.Errorf("%s: %w", res.City.Name, res.Err))
	}

	if len(failed) > 0 {
		return results, apperrors.NewValidationError(
			fmt.Sprintf("%d of %d datasets failed validation", len(failed), len(results)),
			errors.Join(failed...))
	}
	return results, nil
}
