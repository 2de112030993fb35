// Package config holds the process-wide vocabularies and city catalog of the
// bikeshare explorer, and the runtime configuration that tunes where data is
// read from and where logs, exports and telemetry are written.
//
// # Vocabularies
//
// The selectable cities, months (January to June, the range covered by the
// source data) and weekdays are fixed at build time. Accessors return copies:
//
//	config.IsCity("New York City")  // true
//	config.MonthIndex("march")      // 3, true
//	config.DefaultCatalog().Lookup("washington")
//
// # Configuration Sources
//
// Configuration is loaded in order of increasing precedence:
//
//	1. Default values (Default)
//	2. YAML file (--config flag, bikeshare.yaml or configs/bikeshare.yaml)
//	3. Environment variables
//
// Environment variables use the BIKESHARE_ prefix:
//
//	BIKESHARE_DATA_DIR=/srv/bikeshare
//	BIKESHARE_DATA_FILES=chicago:chicago.xlsx
//	BIKESHARE_LOGGING_LEVEL=debug
//	BIKESHARE_EXPORT_DIR=reports
//	BIKESHARE_TELEMETRY_ENABLED=true
//
// Relative paths are resolved against the config file's directory, or the
// working directory when no file is used.
//
// Configuration never selects the data being explored. City, month and day
// are only ever chosen at the interactive prompt.
package config
