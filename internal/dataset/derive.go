package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
)

// Start Time layouts seen across the city exports
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	time.RFC3339,
}

// ParseTimestamp parses a Start Time value in any of the known layouts.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// DeriveTimeColumns appends the month (1-12), day_of_week ("Monday") and
// hour (0-23) columns computed from Start Time.
func DeriveTimeColumns(frame dataframe.DataFrame) (dataframe.DataFrame, error) {
	starts := frame.Col(config.ColStartTime)
	if starts.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewDataLoadError("missing Start Time column", starts.Err)
	}

	n := starts.Len()
	months := make([]int, n)
	days := make([]string, n)
	hours := make([]int, n)

	for i := 0; i < n; i++ {
		elem := starts.Elem(i)
		if elem.IsNA() {
			return dataframe.DataFrame{}, apperrors.NewParsingError("empty Start Time", nil).
				WithContext("row", i+1)
		}
		ts, err := ParseTimestamp(elem.String())
		if err != nil {
			return dataframe.DataFrame{}, apperrors.NewParsingError("invalid Start Time", err).
				WithContext("row", i+1)
		}
		months[i] = int(ts.Month())
		days[i] = ts.Weekday().String()
		hours[i] = ts.Hour()
	}

	derived := frame.
		Mutate(series.New(months, series.Int, config.ColMonth)).
		Mutate(series.New(days, series.String, config.ColDayOfWeek)).
		Mutate(series.New(hours, series.Int, config.ColHour))
	if derived.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewDataLoadError("failed to derive time columns", derived.Err)
	}
	return derived, nil
}

// Filter keeps the rows matching the selected month and day. Each filter is
// skipped entirely when its selection is "all".
func Filter(frame dataframe.DataFrame, sel config.Selection) (dataframe.DataFrame, error) {
	if !sel.AllMonths() {
		month, ok := config.MonthIndex(sel.Month)
		if !ok {
			return dataframe.DataFrame{}, apperrors.NewInputError(fmt.Sprintf("unknown month %q", sel.Month), nil)
		}
		frame = frame.Filter(dataframe.F{
			Colname:    config.ColMonth,
			Comparator: series.Eq,
			Comparando: month,
		})
	}

	if !sel.AllDays() {
		if !config.IsDay(sel.Day) {
			return dataframe.DataFrame{}, apperrors.NewInputError(fmt.Sprintf("unknown day %q", sel.Day), nil)
		}
		frame = frame.Filter(dataframe.F{
			Colname:    config.ColDayOfWeek,
			Comparator: series.Eq,
			Comparando: config.TitleDay(sel.Day),
		})
	}

	if frame.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewDataLoadError("failed to filter dataset", frame.Err)
	}
	return frame, nil
}
