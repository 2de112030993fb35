package stats

import (
	"cmp"
	"fmt"
	"io"
	"strings"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
)

// StationPair is the (start, end) key of a trip. Being a struct rather than
// a joined string, names containing any separator stay unambiguous.
type StationPair struct {
	Start string
	End   string
}

func (p StationPair) String() string {
	return fmt.Sprintf("[%s, %s]", p.Start, p.End)
}

// ComparePairs orders pairs by start station, then end station.
func ComparePairs(a, b StationPair) int {
	return cmp.Or(strings.Compare(a.Start, b.Start), strings.Compare(a.End, b.End))
}

// StationStats holds the most popular stations and trip.
type StationStats struct {
	Start   string
	End     string
	Trip    StationPair
	HasData bool
}

// ComputeStationStats finds the modal start station, end station and trip.
// Rows missing either station are left out of the trip count.
func ComputeStationStats(t *dataset.Table) (StationStats, error) {
	frame := t.Frame()
	start, ok, err := Mode(frame, config.ColStartStation, asString)
	if err != nil || !ok {
		return StationStats{}, err
	}
	end, _, err := Mode(frame, config.ColEndStation, asString)
	if err != nil {
		return StationStats{}, err
	}
	trip, _, err := pairMode(frame, config.ColStartStation, config.ColEndStation)
	if err != nil {
		return StationStats{}, err
	}

	return StationStats{Start: start, End: end, Trip: trip, HasData: true}, nil
}

// Write prints the station statistics.
func (s StationStats) Write(w io.Writer) {
	start, end, trip := noData, noData, noData
	if s.HasData {
		start, end, trip = s.Start, s.End, s.Trip.String()
	}
	fmt.Fprintf(w, "The most commonly used start station is: %s\n", start)
	fmt.Fprintf(w, "The most commonly used end station: %s\n", end)
	fmt.Fprintf(w, "The most frequent combination of start station and end station: %s\n", trip)
}
