package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/shared/testutil"
)

func newValidator(t *testing.T, dir string) (*DatasetValidator, *testutil.CaptureHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	path := func(c config.City) string { return filepath.Join(dir, c.File) }
	return NewDatasetValidator(config.DefaultCatalog(), path, logger), handler
}

func TestValidateAll(t *testing.T) {
	v, handler := newValidator(t, testutil.DataDir(t))

	results, err := v.ValidateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results keep catalog order
	assert.Equal(t, config.DefaultCatalog().Names(), []string{
		results[0].City.Name, results[1].City.Name, results[2].City.Name,
	})
	for _, res := range results {
		assert.True(t, res.OK(), res.City.Name)
	}
	assert.Equal(t, 7, results[0].Rows)
	assert.True(t, results[0].HasDemographics)
	assert.Equal(t, 3, results[2].Rows)
	assert.False(t, results[2].HasDemographics)

	testutil.AssertLogged(t, handler, slog.LevelInfo, "Dataset validated")
	testutil.AssertNoErrors(t, handler)
}

func TestValidateAll_Failures(t *testing.T) {
	dir := testutil.DataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "washington.csv")))
	testutil.WriteFile(t, dir, "new_york_city.csv",
		",Start Time,End Time,Trip Duration,Start Station,End Station,User Type\n"+
			"1,not a time,2017-01-01 00:10:00,600,A,B,Subscriber\n")

	v, handler := newValidator(t, dir)
	results, err := v.ValidateAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "2 of 3 datasets failed validation")

	byCity := make(map[string]Result)
	for _, res := range results {
		byCity[res.City.Name] = res
	}
	assert.True(t, byCity["chicago"].OK())
	assert.True(t, apperrors.IsType(byCity["new york city"].Err, apperrors.ErrTypeParsing))
	assert.True(t, apperrors.IsType(byCity["washington"].Err, apperrors.ErrTypeNotFound))

	testutil.AssertLogged(t, handler, slog.LevelError, "Dataset validation failed")
}

func TestValidate_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "chicago.csv", "Start Time,Start Station\n2017-01-01 00:00:00,A\n")

	v, _ := newValidator(t, dir)
	city, _ := config.DefaultCatalog().Lookup("chicago")
	res := v.Validate(city)

	require.False(t, res.OK())
	assert.Contains(t, res.Err.Error(), "missing columns")
}

func TestValidate_DemographicsWarning(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "chicago.csv", testutil.WashingtonTrips)

	v, handler := newValidator(t, dir)
	city, _ := config.DefaultCatalog().Lookup("chicago")
	res := v.Validate(city)

	require.True(t, res.OK())
	assert.False(t, res.HasDemographics)
	testutil.AssertLogged(t, handler, slog.LevelWarn, "Dataset lacks demographic columns")
}

func TestValidateAll_Cancelled(t *testing.T) {
	v, _ := newValidator(t, testutil.DataDir(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.ValidateAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestValidate_DatasetFileChecks(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		create   bool
		dir      bool
		wantType apperrors.ErrorType
		contains string
	}{
		{name: "missing file", file: "chicago.csv", wantType: apperrors.ErrTypeNotFound, contains: "dataset file not found"},
		{name: "directory", file: "chicago.csv", dir: true, wantType: apperrors.ErrTypeValidation, contains: "is a directory"},
		{name: "wrong extension", file: "chicago.json", create: true, wantType: apperrors.ErrTypeValidation, contains: ".csv or .xlsx"},
		{name: "excel lock file", file: "~$chicago.xlsx", create: true, wantType: apperrors.ErrTypeValidation, contains: "lock file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			switch {
			case tt.create:
				require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
			case tt.dir:
				require.NoError(t, os.Mkdir(path, 0755))
			}

			logger, _ := testutil.NewTestLogger(t)
			city, _ := config.DefaultCatalog().Lookup("chicago")
			v := NewDatasetValidator(config.DefaultCatalog(), func(config.City) string { return path }, logger)
			res := v.Validate(city)

			require.False(t, res.OK())
			assert.Contains(t, res.Err.Error(), tt.contains)

			var appErr *apperrors.AppError
			require.True(t, errors.As(res.Err, &appErr))
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Equal(t, path, appErr.Context["path"])
			assert.Equal(t, "chicago", appErr.Context["city"])
		})
	}
}

func TestCheckDataDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name     string
		dir      string
		wantType apperrors.ErrorType
	}{
		{name: "existing directory", dir: t.TempDir()},
		{name: "missing directory", dir: filepath.Join(t.TempDir(), "missing"), wantType: apperrors.ErrTypeNotFound},
		{name: "file instead of directory", dir: file, wantType: apperrors.ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, handler := newValidator(t, tt.dir)
			err := v.CheckDataDir(tt.dir)
			if tt.wantType == "" {
				assert.NoError(t, err)
				testutil.AssertNoErrors(t, handler)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
			testutil.AssertLogged(t, handler, slog.LevelError, "Data directory is unusable")
		})
	}
}

func TestValidateAll_TraceID(t *testing.T) {
	dir := testutil.DataDir(t)
	path := func(c config.City) string { return filepath.Join(dir, c.File) }

	traceIDs := func(t *testing.T, ctx context.Context) map[string]int {
		t.Helper()
		var buf bytes.Buffer
		logger := infrastructure.NewLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"})
		_, err := NewDatasetValidator(config.DefaultCatalog(), path, logger).ValidateAll(ctx)
		require.NoError(t, err)

		ids := make(map[string]int)
		dec := json.NewDecoder(&buf)
		for dec.More() {
			var line map[string]any
			require.NoError(t, dec.Decode(&line))
			if line["msg"] == "Dataset validated" {
				id, _ := line["trace_id"].(string)
				ids[id]++
			}
		}
		return ids
	}

	ids := traceIDs(t, context.Background())
	require.Len(t, ids, 1)
	for id, n := range ids {
		assert.NotEmpty(t, id)
		assert.Equal(t, 3, n)
	}

	ctx := infrastructure.WithTraceID(context.Background(), "datasets-run")
	assert.Equal(t, map[string]int{"datasets-run": 3}, traceIDs(t, ctx))
}
