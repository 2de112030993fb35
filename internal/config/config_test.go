package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bikeshare/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bikeshare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.True(t, filepath.IsAbs(cfg.Data.Dir))
				assert.Equal(t, DefaultDataDir, filepath.Base(cfg.Data.Dir))
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, "stderr", cfg.Logging.Output)
				assert.False(t, cfg.Export.Enabled())
				assert.False(t, cfg.Telemetry.Enabled)
				assert.Empty(t, cfg.Source())
			},
		},
		{
			name: "file overrides defaults and resolves relative to the file",
			file: `
data:
  dir: datasets
  files:
    New York City: nyc.xlsx
logging:
  level: debug
  format: text
export:
  dir: reports
  formats: [CSV, xlsx]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				base := filepath.Dir(cfg.Source())
				assert.Equal(t, filepath.Join(base, "datasets"), cfg.Data.Dir)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Equal(t, "json", Default().Logging.Format)
				assert.Equal(t, filepath.Join(base, "reports"), cfg.Export.Dir)
				assert.Equal(t, []string{"csv", "xlsx"}, cfg.Export.Formats)
				assert.True(t, cfg.Export.Enabled())

				city, ok := cfg.Catalog().Lookup("new york city")
				require.True(t, ok)
				assert.Equal(t, "nyc.xlsx", city.File)
				assert.Equal(t, filepath.Join(base, "datasets", "nyc.xlsx"), cfg.DatasetPath(city))
			},
		},
		{
			name: "env takes precedence over file",
			file: "logging:\n  level: debug\n",
			env: map[string]string{
				"BIKESHARE_LOGGING_LEVEL":     "error",
				"BIKESHARE_TELEMETRY_ENABLED": "true",
				"BIKESHARE_DATA_FILES":        "washington:dc.csv",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Logging.Level)
				assert.True(t, cfg.Telemetry.Enabled)
				city, ok := cfg.Catalog().Lookup("washington")
				require.True(t, ok)
				assert.Equal(t, "dc.csv", city.File)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"BIKESHARE_LOGGING_LEVEL": "verbose"},
			wantErr: "config validation failed",
		},
		{
			name:    "unparseable env value",
			env:     map[string]string{"BIKESHARE_TELEMETRY_ENABLED": "maybe"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "unknown city override",
			file:    "data:\n  files:\n    boston: boston.csv\n",
			wantErr: "unknown city",
		},
		{
			name:    "unsupported override format",
			file:    "data:\n  files:\n    chicago: chicago.json\n",
			wantErr: ".csv or .xlsx",
		},
		{
			name:    "unsupported export format",
			env:     map[string]string{"BIKESHARE_EXPORT_FORMATS": "pdf"},
			wantErr: "config validation failed",
		},
		{
			name:    "malformed yaml",
			file:    "logging: [unclosed",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
	assert.Contains(t, appErr.Context, "path")
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = filepath.Join(dir, "logs", "app.log")
	cfg.Export.Dir = filepath.Join(dir, "exports")
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.TraceFile = filepath.Join(dir, "otel", "traces.json")
	cfg.Telemetry.MetricsFile = filepath.Join(dir, "otel", "metrics.prom")

	require.NoError(t, cfg.EnsureDirectories())

	for _, sub := range []string{"logs", "exports", "otel"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureDirectories_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "exports")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := Default()
	cfg.Export.Dir = blocker
	cfg.Export.Formats = []string{"csv"}

	err := cfg.EnsureDirectories()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Usage(&buf))
	assert.Contains(t, buf.String(), "BIKESHARE_DATA_DIR")
	assert.Contains(t, buf.String(), "BIKESHARE_LOGGING_LEVEL")
	assert.Contains(t, buf.String(), "BIKESHARE_TELEMETRY_ENABLED")
}
