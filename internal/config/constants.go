package config

import (
	"slices"
	"strings"
	"time"
)

// Application constants
const (
	AppName    = "Bikeshare Explorer"
	AppVersion = "1.2.0"

	// EnvPrefix namespaces every environment override (BIKESHARE_LOGGING_LEVEL, ...)
	EnvPrefix = "BIKESHARE"

	DefaultDataDir     = "data"
	DefaultLogsDir     = "logs"
	DefaultLogFile     = "logs/bikeshare.log"
	DefaultTraceFile   = "logs/traces.json"
	DefaultMetricsFile = "logs/metrics.prom"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "json"
	DefaultLogOutput   = "stderr"

	// PageSize is the number of raw rows shown per page
	PageSize = 5

	// SeparatorWidth is the width of the dashed line printed between sections
	SeparatorWidth = 40

	// AllFilter disables the month or day filter
	AllFilter = "all"
)

// Dataset column names
const (
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColTripDuration = "Trip Duration"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"

	// Derived at load time
	ColMonth     = "month"
	ColDayOfWeek = "day_of_week"
	ColHour      = "hour"
)

// RequiredColumns lists the columns every city dataset must carry.
func RequiredColumns() []string {
	return []string{ColStartTime, ColStartStation, ColEndStation, ColTripDuration, ColUserType}
}

// DemographicColumns lists the columns only some cities carry.
func DemographicColumns() []string {
	return []string{ColGender, ColBirthYear}
}

// City describes one dataset in the catalog.
type City struct {
	// Name is the canonical lower-case identifier typed at the prompt
	Name string
	// File is the dataset file name, relative to the data directory
	File string
	// HasDemographics is set when the dataset carries gender and birth year
	HasDemographics bool
}

// Title returns the display form of the city name.
func (c City) Title() string {
	return titleCase(c.Name)
}

// Catalog is the immutable city to dataset mapping.
type Catalog []City

// Lookup finds a city by its canonical name, case-insensitively.
func (c Catalog) Lookup(name string) (City, bool) {
	name = Normalize(name)
	for _, city := range c {
		if city.Name == name {
			return city, true
		}
	}
	return City{}, false
}

// Names returns the canonical city names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, city := range c {
		names[i] = city.Name
	}
	return names
}

var defaultCatalog = Catalog{
	{Name: "chicago", File: "chicago.csv", HasDemographics: true},
	{Name: "new york city", File: "new_york_city.csv", HasDemographics: true},
	{Name: "washington", File: "washington.csv", HasDemographics: false},
}

// months covered by the source data, in calendar order
var months = []string{"january", "february", "march", "april", "may", "june"}

var days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DefaultCatalog returns a copy of the built-in city catalog.
func DefaultCatalog() Catalog {
	return slices.Clone(defaultCatalog)
}

// Months returns the selectable months, without "all".
func Months() []string {
	return slices.Clone(months)
}

// Days returns the selectable weekdays, without "all".
func Days() []string {
	return slices.Clone(days)
}

// MonthIndex returns the 1-based calendar month of a selectable month name.
func MonthIndex(name string) (int, bool) {
	i := slices.Index(months, Normalize(name))
	if i < 0 {
		return 0, false
	}
	return i + 1, true
}

// MonthName maps a calendar month number back to its display name.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// IsCity reports whether input names a catalog city.
func IsCity(input string) bool {
	_, ok := defaultCatalog.Lookup(input)
	return ok
}

// IsMonth reports whether input is a selectable month or "all".
func IsMonth(input string) bool {
	input = Normalize(input)
	return input == AllFilter || slices.Contains(months, input)
}

// IsDay reports whether input is a weekday name or "all".
func IsDay(input string) bool {
	input = Normalize(input)
	return input == AllFilter || slices.Contains(days, input)
}

// Separator returns the dashed line printed between sections.
func Separator() string {
	return strings.Repeat("-", SeparatorWidth)
}

// Normalize lowercases and trims interactive input.
func Normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TitleDay returns the weekday name as it appears in derived columns ("Monday").
func TitleDay(day string) string {
	return titleCase(Normalize(day))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
