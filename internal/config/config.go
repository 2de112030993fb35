package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "bikeshare/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`

	// source is the config file that was applied, empty when none was found
	source string
}

// DataConfig locates the city datasets
type DataConfig struct {
	Dir   string            `yaml:"dir" envconfig:"DIR" desc:"directory holding the city datasets" validate:"required"`
	Files map[string]string `yaml:"files" envconfig:"FILES" desc:"per-city dataset overrides, e.g. chicago:chicago.xlsx"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" desc:"debug, info, warn or error" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" desc:"json or text" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" desc:"stderr, file or both" validate:"oneof=stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" desc:"log file used by the file and both outputs" validate:"required_unless=Output stderr"`
}

// ExportConfig controls the optional per-session statistics export
type ExportConfig struct {
	Dir     string   `yaml:"dir" envconfig:"DIR" desc:"export directory, empty disables export"`
	Formats []string `yaml:"formats" envconfig:"FORMATS" desc:"csv and/or xlsx" validate:"dive,oneof=csv xlsx"`
}

// Enabled reports whether session statistics should be exported.
func (e ExportConfig) Enabled() bool {
	return e.Dir != "" && len(e.Formats) > 0
}

// TelemetryConfig controls OpenTelemetry tracing and metrics
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" envconfig:"ENABLED" desc:"record spans and metrics"`
	Environment string `yaml:"environment" envconfig:"ENVIRONMENT" desc:"deployment environment resource attribute"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE" desc:"file receiving finished spans as JSON" validate:"required_if=Enabled true"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE" desc:"Prometheus text file written on exit"`
}

// Load builds the configuration from defaults, then the YAML file, then
// BIKESHARE_* environment variables. An empty path searches the usual
// locations and silently skips the file when none exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	configFile := path
	if configFile == "" {
		configFile = getConfigFilePath()
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
		cfg.source = configFile
	}

	// Fields without a matching variable keep the file or default value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// Source returns the config file that was applied, if any.
func (c *Config) Source() string {
	return c.source
}

// Catalog returns the city catalog with any configured file overrides applied.
func (c *Config) Catalog() Catalog {
	catalog := DefaultCatalog()
	for i, city := range catalog {
		if file := c.Data.Files[city.Name]; file != "" {
			catalog[i].File = file
		}
	}
	return catalog
}

// loadFromFile overlays YAML keys present in the file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	for i, format := range c.Export.Formats {
		c.Export.Formats[i] = strings.ToLower(strings.TrimSpace(format))
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	if err := structValidator().Struct(c); err != nil {
		return err
	}

	files := make(map[string]string, len(c.Data.Files))
	for name, file := range c.Data.Files {
		name = Normalize(name)
		if !IsCity(name) {
			return fmt.Errorf("dataset override for unknown city %q", name)
		}
		switch strings.ToLower(filepath.Ext(file)) {
		case ".csv", ".xlsx":
		default:
			return fmt.Errorf("dataset override for %s must be a .csv or .xlsx file, got %q", name, file)
		}
		files[name] = file
	}
	c.Data.Files = files

	return nil
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	locations := []string{
		"bikeshare.yaml",
		"configs/bikeshare.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Usage writes the table of supported environment variables.
func Usage(w io.Writer) error {
	return envconfig.Usagef(EnvPrefix, Default(), w, envconfig.DefaultTableFormat)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: DefaultDataDir,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Export: ExportConfig{
			Formats: []string{"csv"},
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Environment: "development",
			TraceFile:   DefaultTraceFile,
			MetricsFile: DefaultMetricsFile,
		},
	}
}
