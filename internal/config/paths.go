package config

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "bikeshare/internal/errors"
)

// resolvePaths makes every configured path absolute. Relative paths are
// taken relative to the config file's directory, or to the working
// directory when no file was loaded.
func (c *Config) resolvePaths() error {
	baseDir, err := c.baseDir()
	if err != nil {
		return err
	}

	c.Data.Dir = resolve(baseDir, c.Data.Dir)
	c.Logging.FilePath = resolve(baseDir, c.Logging.FilePath)
	c.Export.Dir = resolve(baseDir, c.Export.Dir)
	c.Telemetry.TraceFile = resolve(baseDir, c.Telemetry.TraceFile)
	c.Telemetry.MetricsFile = resolve(baseDir, c.Telemetry.MetricsFile)
	return nil
}

func (c *Config) baseDir() (string, error) {
	if c.source != "" {
		abs, err := filepath.Abs(c.source)
		if err != nil {
			return "", fmt.Errorf("failed to resolve config file path: %w", err)
		}
		return filepath.Dir(abs), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// DatasetPath returns the absolute path of a city's dataset file.
func (c *Config) DatasetPath(city City) string {
	return resolve(c.Data.Dir, city.File)
}

// EnsureDirectories creates the directories the configured outputs write into.
// The data directory is never created; a missing one is reported on load.
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.Logging.Output != "stderr" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}
	if c.Export.Enabled() {
		dirs = append(dirs, c.Export.Dir)
	}
	if c.Telemetry.Enabled {
		dirs = append(dirs, filepath.Dir(c.Telemetry.TraceFile))
		if c.Telemetry.MetricsFile != "" {
			dirs = append(dirs, filepath.Dir(c.Telemetry.MetricsFile))
		}
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewConfigError("failed to create directory", err).WithContext("path", dir)
		}
	}
	return nil
}
