package stats

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Count pairs a distinct value with the number of rows holding it.
type Count[T any] struct {
	Value T
	N     int
}

var countAggregation = []dataframe.AggregationType{dataframe.Aggregation_COUNT}

// countColumn is the column gota names for the row count of col's groups
func countColumn(col string) string {
	return fmt.Sprintf("%s_%s", col, dataframe.Aggregation_COUNT)
}

// ValueCounts groups frame on col and counts the rows of each group, ordered
// by descending count with ties broken by ascending value. Rows missing col
// are left out. The order never depends on row order.
func ValueCounts[T any](frame dataframe.DataFrame, col string, value func(series.Element) T) ([]Count[T], error) {
	counts, err := groupCounts(frame, col)
	if err != nil || counts.Nrow() == 0 {
		return nil, err
	}

	values, ns := counts.Col(col), counts.Col(countColumn(col))
	out := make([]Count[T], counts.Nrow())
	for i := range out {
		out[i] = Count[T]{Value: value(values.Elem(i)), N: int(ns.Elem(i).Float())}
	}
	return out, nil
}

// Mode returns the most frequent value of col; ties go to the smallest value.
// ok is false when no row has a value.
func Mode[T any](frame dataframe.DataFrame, col string, value func(series.Element) T) (mode T, ok bool, err error) {
	counts, err := ValueCounts(frame, col, value)
	if err != nil || len(counts) == 0 {
		return mode, false, err
	}
	return counts[0].Value, true, nil
}

func groupCounts(frame dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	if frame.Nrow() == 0 {
		return dataframe.DataFrame{}, nil
	}
	frame = dropNA(frame.Select([]string{col}), col)
	if frame.Err != nil {
		return frame, frame.Err
	}
	if frame.Nrow() == 0 {
		return frame, nil
	}

	groups := frame.GroupBy(col)
	if groups.Err != nil {
		return dataframe.DataFrame{}, groups.Err
	}
	counts := groups.Aggregation(countAggregation, []string{col}).
		Arrange(dataframe.RevSort(countColumn(col)), dataframe.Sort(col))
	return counts, counts.Err
}

// dropNA keeps the rows where every one of cols has a value. GroupBy cannot
// key a group on a missing value.
func dropNA(frame dataframe.DataFrame, cols ...string) dataframe.DataFrame {
	for _, col := range cols {
		if frame.Err != nil || frame.Nrow() == 0 {
			return frame
		}
		frame = frame.Filter(dataframe.F{
			Colname:    col,
			Comparator: series.CompFunc,
			Comparando: present,
		})
	}
	return frame
}

func present(e series.Element) bool {
	return !e.IsNA()
}

func asString(e series.Element) string {
	return e.String()
}

func asInt(e series.Element) int {
	v, _ := e.Int()
	return v
}

// pairMode finds the most frequent (start, end) trip. Each start station's
// rows are grouped again on the end station, so the pair never goes through
// a joined text key.
func pairMode(frame dataframe.DataFrame, startCol, endCol string) (mode StationPair, ok bool, err error) {
	if frame.Nrow() == 0 {
		return mode, false, nil
	}
	frame = dropNA(frame.Select([]string{startCol, endCol}), startCol, endCol)
	if frame.Err != nil {
		return mode, false, frame.Err
	}
	if frame.Nrow() == 0 {
		return mode, false, nil
	}

	groups := frame.GroupBy(startCol)
	if groups.Err != nil {
		return mode, false, groups.Err
	}

	best := 0
	for _, group := range groups.GetGroups() {
		end, err := ValueCounts(group, endCol, asString)
		if err != nil {
			return mode, false, err
		}
		if len(end) == 0 {
			continue
		}
		pair := StationPair{Start: group.Col(startCol).Elem(0).String(), End: end[0].Value}
		if n := end[0].N; n > best || (n == best && ComparePairs(pair, mode) < 0) {
			mode, best = pair, n
		}
	}
	return mode, best > 0, nil
}
