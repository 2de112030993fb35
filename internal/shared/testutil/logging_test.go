package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureHandler(t *testing.T) {
	logger, handler := NewTestLogger(t)

	logger.With("component", "loader").Info("dataset loaded", slog.Int("rows", 7))
	logger.Debug("debug msg")
	logger.Warn("warn msg")

	records := handler.Records()
	require.Len(t, records, 3)

	r, ok := handler.Find("dataset loaded")
	require.True(t, ok)
	assert.Equal(t, "loader", r.Attrs["component"])
	assert.Equal(t, int64(7), r.Attrs["rows"])

	_, ok = handler.Find("never logged")
	assert.False(t, ok)

	AssertLogged(t, handler, slog.LevelWarn, "warn")
	AssertNoErrors(t, handler)
}

func TestDataDir(t *testing.T) {
	dir := DataDir(t)
	for _, name := range []string{"chicago.csv", "new_york_city.csv", "washington.csv"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), ",Start Time"))
	}

	lines := strings.Split(strings.TrimSpace(ChicagoTrips), "\n")
	assert.Len(t, lines, 8)
}
