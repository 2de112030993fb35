package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularies(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		valid []string
		bad   []string
	}{
		{
			name:  "city",
			check: IsCity,
			valid: []string{"chicago", "Chicago", "  NEW YORK CITY ", "washington"},
			bad:   []string{"", "boston", "new york", "chicago.csv", "new_york_city.csv"},
		},
		{
			name:  "month",
			check: IsMonth,
			valid: []string{"january", "June", "ALL", " march "},
			bad:   []string{"", "july", "december", "jan"},
		},
		{
			name:  "day",
			check: IsDay,
			valid: []string{"monday", "Sunday", "all", "WEDNESDAY"},
			bad:   []string{"", "mon", "weekday"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.valid {
				assert.True(t, tt.check(v), "expected %q to be accepted", v)
			}
			for _, v := range tt.bad {
				assert.False(t, tt.check(v), "expected %q to be rejected", v)
			}
		})
	}
}

func TestMonthIndexAndName(t *testing.T) {
	for i, name := range Months() {
		idx, ok := MonthIndex(name)
		require.True(t, ok)
		assert.Equal(t, i+1, idx)
	}

	_, ok := MonthIndex("all")
	assert.False(t, ok)

	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "June", MonthName(6))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "", MonthName(13))
}

func TestVocabularyCopies(t *testing.T) {
	m := Months()
	m[0] = "smarch"
	assert.Equal(t, "january", Months()[0])

	c := DefaultCatalog()
	c[0].File = "elsewhere.csv"
	city, ok := DefaultCatalog().Lookup("chicago")
	require.True(t, ok)
	assert.Equal(t, "chicago.csv", city.File)
}

func TestCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Equal(t, []string{"chicago", "new york city", "washington"}, catalog.Names())

	nyc, ok := catalog.Lookup("New York City")
	require.True(t, ok)
	assert.True(t, nyc.HasDemographics)
	assert.Equal(t, "New York City", nyc.Title())

	dc, ok := catalog.Lookup("washington")
	require.True(t, ok)
	assert.False(t, dc.HasDemographics)
}

func TestSelection(t *testing.T) {
	sel := NewSelection(" Chicago", "MARCH ", "all")
	assert.Equal(t, Selection{City: "chicago", Month: "march", Day: "all"}, sel)
	assert.NoError(t, sel.Validate())
	assert.False(t, sel.AllMonths())
	assert.True(t, sel.AllDays())
	assert.Equal(t, "chicago_march_all", sel.Slug())
	assert.Equal(t, "new_york_city_all_friday", NewSelection("new york city", "all", "friday").Slug())

	err := NewSelection("boston", "march", "monday").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "City")

	err = NewSelection("chicago", "july", "monday").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Month")
}

func TestTitleDay(t *testing.T) {
	assert.Equal(t, "Monday", TitleDay("monday"))
	assert.Equal(t, "Saturday", TitleDay(" SATURDAY "))
}
