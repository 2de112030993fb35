package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ChicagoTrips is a seven-row trip log with demographic columns and a
// leading unnamed index column, shaped like the real city exports.
//
// All rows: January x3, March x2, June x2; Monday x4; hour 8 x4.
// Durations sum to 5100. Gender ties Female/Male at 3, one blank.
// Birth years 1972..2001, 1985 and 1990 tie at 2.
const ChicagoTrips = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1,2017-01-02 08:15:00,2017-01-02 08:20:00,300,Streeter Dr & Grand Ave,Lake Shore Dr & Monroe St,Subscriber,Male,1985
2,2017-01-02 08:45:00,2017-01-02 08:55:00,600,Streeter Dr & Grand Ave,Lake Shore Dr & Monroe St,Subscriber,Female,1990
3,2017-01-10 17:05:00,2017-01-10 17:20:00,900,Canal St & Adams St,Streeter Dr & Grand Ave,Customer,,
4,2017-03-06 08:00:00,2017-03-06 08:20:00,1200,Streeter Dr & Grand Ave,Canal St & Adams St,Subscriber,Male,1985
5,2017-03-07 17:30:00,2017-03-07 17:37:30,450,Canal St & Adams St,Lake Shore Dr & Monroe St,Subscriber,Male,1972
6,2017-06-03 12:00:00,2017-06-03 12:25:00,1500,Lake Shore Dr & Monroe St,Streeter Dr & Grand Ave,Customer,Female,2001
7,2017-06-05 08:10:00,2017-06-05 08:12:30,150,Streeter Dr & Grand Ave,Lake Shore Dr & Monroe St,Subscriber,Female,1990
`

// WashingtonTrips has no Gender or Birth Year columns.
const WashingtonTrips = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1,2017-02-14 07:30:00,2017-02-14 07:45:00,900.5,Lincoln Memorial,Jefferson Dr & 14th St SW,Registered
2,2017-04-01 14:00:00,2017-04-01 14:30:00,1800.25,Jefferson Dr & 14th St SW,Lincoln Memorial,Casual
3,2017-05-19 07:10:00,2017-05-19 07:20:00,600,Lincoln Memorial,Jefferson Dr & 14th St SW,Registered
`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// DataDir returns a temp directory holding chicago.csv, new_york_city.csv
// (a copy of the Chicago fixture) and washington.csv.
func DataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "chicago.csv", ChicagoTrips)
	WriteFile(t, dir, "new_york_city.csv", ChicagoTrips)
	WriteFile(t, dir, "washington.csv", WashingtonTrips)
	return dir
}
