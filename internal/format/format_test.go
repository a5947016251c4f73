package format

import (
	"math"
	"testing"
	"time"

	"candlescope/internal/stats"

	"github.com/stretchr/testify/assert"
)

func TestVolume(t *testing.T) {
	assert.Equal(t, "999", Volume(999))
	assert.Equal(t, "1.50K", Volume(1500))
	assert.Equal(t, "2.00M", Volume(2e6))
	assert.Equal(t, "3.25B", Volume(3.25e9))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "5m", Duration(5*time.Minute))
	assert.Equal(t, "1.5h", Duration(90*time.Minute))
	assert.Equal(t, "2.0d", Duration(48*time.Hour))
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "65,432.10", Price(65432.1))
	assert.Equal(t, "-", Price(math.NaN()))
}

func TestChange(t *testing.T) {
	assert.Equal(t, "+2.000 (+20.00%)", Change(2, 20))
	assert.Equal(t, "-1.500 (-3.00%)", Change(-1.5, -3))
	assert.Equal(t, "0.000 (0.00%)", Change(0, 0))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "1970-01-01 00:01", Date(60))
}

func TestMeasurementLines(t *testing.T) {
	lines := MeasurementLines(&stats.Stats{Change: 2, ChangePercent: 20, Count: 1, Volume: 300, Duration: time.Minute})
	assert.Equal(t, []string{"+2.000 (+20.00%)", "1 bar, 1m", "Vol 300"}, lines)
}

func TestSelectionLines(t *testing.T) {
	lines := SelectionLines(&stats.Stats{MinLow: 9, MaxHigh: 13, Avg: 11.5, Change: 2, ChangePercent: 20, Count: 2, Volume: 300, Duration: time.Minute})
	assert.Len(t, lines, 5)
	assert.Equal(t, "Range: 9.00 - 13.00", lines[0])
	assert.Equal(t, "Bars: 2 | Vol: 300", lines[3])
}
