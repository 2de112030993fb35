package stats

import (
	"fmt"
	"io"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
)

// UserStats holds the user breakdowns. Gender and birth year are only
// computed for cities whose catalog entry has demographics.
type UserStats struct {
	UserTypes []Count[string]

	// Demographics is set when gender and birth year were examined
	Demographics  bool
	Genders       []Count[string]
	HasBirthYears bool
	EarliestBirth int
	LatestBirth   int
	CommonBirth   int

	city string
}

// ComputeUserStats counts user types and, for cities with demographics,
// genders and birth years. Missing values are skipped.
func ComputeUserStats(t *dataset.Table) (UserStats, error) {
	frame := t.Frame()
	st := UserStats{city: t.City().Title()}

	var err error
	if st.UserTypes, err = ValueCounts(frame, config.ColUserType, asString); err != nil {
		return st, err
	}

	// The catalog decides; the columns are not even looked up otherwise
	if !t.City().HasDemographics {
		return st, nil
	}
	if !t.HasColumn(config.ColGender) || !t.HasColumn(config.ColBirthYear) {
		return st, nil
	}

	st.Demographics = true
	if st.Genders, err = ValueCounts(frame, config.ColGender, asString); err != nil {
		return st, err
	}

	common, ok, err := Mode(frame, config.ColBirthYear, asInt)
	if err != nil || !ok {
		return st, err
	}
	births := dropNA(frame.Select([]string{config.ColBirthYear}), config.ColBirthYear).Col(config.ColBirthYear)

	st.HasBirthYears = true
	st.EarliestBirth = int(births.Min())
	st.LatestBirth = int(births.Max())
	st.CommonBirth = common
	return st, nil
}

// Write prints the user statistics.
func (s UserStats) Write(w io.Writer) {
	fmt.Fprintln(w, "The count of user types:")
	writeCounts(w, s.UserTypes)

	if !s.Demographics {
		fmt.Fprintf(w, "\nGender and birth year data are not available for %s.\n", s.city)
		return
	}

	fmt.Fprintln(w, "\nThe count of user gender is:")
	writeCounts(w, s.Genders)

	earliest, latest, common := noData, noData, noData
	if s.HasBirthYears {
		earliest = fmt.Sprint(s.EarliestBirth)
		latest = fmt.Sprint(s.LatestBirth)
		common = fmt.Sprint(s.CommonBirth)
	}
	fmt.Fprintf(w, "\nEarliest birth is: %s\n", earliest)
	fmt.Fprintf(w, "Most recent birth is: %s\n", latest)
	fmt.Fprintf(w, "Most common birth is: %s\n", common)
}

func writeCounts(w io.Writer, counts []Count[string]) {
	if len(counts) == 0 {
		fmt.Fprintf(w, "  %s\n", noData)
		return
	}
	width := 0
	for _, c := range counts {
		width = max(width, len(c.Value))
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %-*s  %d\n", width, c.Value, c.N)
	}
}
