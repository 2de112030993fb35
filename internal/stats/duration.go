package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
)

// DurationStats holds trip duration aggregates in seconds. Over an empty
// selection Total is 0 and Mean is NaN.
type DurationStats struct {
	Count int
	Total float64
	Mean  float64
}

// ComputeDurationStats sums and averages Trip Duration, skipping missing values.
func ComputeDurationStats(t *dataset.Table) (DurationStats, error) {
	frame := dropNA(t.Frame().Select([]string{config.ColTripDuration}), config.ColTripDuration)
	if frame.Err != nil {
		return DurationStats{}, frame.Err
	}
	if frame.Nrow() == 0 {
		return DurationStats{Total: 0, Mean: math.NaN()}, nil
	}

	durations := frame.Col(config.ColTripDuration)
	return DurationStats{
		Count: durations.Len(),
		Total: durations.Sum(),
		Mean:  durations.Mean(),
	}, nil
}

// Write prints the duration statistics at full precision.
func (s DurationStats) Write(w io.Writer) {
	fmt.Fprintf(w, "The total travel time is: %s\n", formatFloat(s.Total))
	fmt.Fprintf(w, "The mean travel time is: %s\n", formatFloat(s.Mean))
}

// formatFloat prints the shortest decimal that round-trips
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
