package stats

import (
	"fmt"
	"io"
	"strconv"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
)

// TimeStats holds the most frequent times of travel.
type TimeStats struct {
	Month   string
	Day     string
	Hour    int
	HasData bool
}

// ComputeTimeStats finds the modal month, weekday and start hour.
func ComputeTimeStats(t *dataset.Table) (TimeStats, error) {
	frame := t.Frame()
	month, ok, err := Mode(frame, config.ColMonth, asInt)
	if err != nil || !ok {
		return TimeStats{}, err
	}
	day, _, err := Mode(frame, config.ColDayOfWeek, asString)
	if err != nil {
		return TimeStats{}, err
	}
	hour, _, err := Mode(frame, config.ColHour, asInt)
	if err != nil {
		return TimeStats{}, err
	}

	return TimeStats{
		Month:   config.MonthName(month),
		Day:     day,
		Hour:    hour,
		HasData: true,
	}, nil
}

// Write prints the time statistics.
func (s TimeStats) Write(w io.Writer) {
	month, day, hour := noData, noData, noData
	if s.HasData {
		month, day, hour = s.Month, s.Day, strconv.Itoa(s.Hour)
	}
	fmt.Fprintf(w, "The most common month is: %s\n", month)
	fmt.Fprintf(w, "The most common day of week is: %s\n", day)
	fmt.Fprintf(w, "The most common start hour is: %s\n", hour)
}
