package journal

import (
	"path/filepath"
	"testing"
	"time"

	"candlescope/internal/measure"
	"candlescope/internal/model"
	"candlescope/internal/stats"
	"candlescope/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromResult(t *testing.T) {
	r := measure.Result{
		Variant: measure.Selection,
		GroupID: "g1",
		Anchor:  geometry.Point2D{X: 0, Y: 10},
		End:     geometry.Point2D{X: 60, Y: 12},
		Stats:   &stats.Stats{Count: 2, MinLow: 9, MaxHigh: 13, Change: 2, ChangePercent: 20, Volume: 300},
	}
	e := FromResult("BTCUSDT", model.Interval1m, r)
	assert.Equal(t, "selection", e.Kind)
	assert.Equal(t, 2, e.Bars)
	assert.Equal(t, 20.0, e.ChangePercent)
	assert.Equal(t, 12.0, e.EndPrice)

	e = FromResult("BTCUSDT", model.Interval1m, measure.Result{})
	assert.Equal(t, 0, e.Bars)
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer rec.Close()

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, rec.Record(Entry{RecordedAt: at, Symbol: "BTCUSDT", Interval: model.Interval1h, Kind: "measurement", GroupID: "a", Bars: 3, Change: 1.5}))
	require.NoError(t, rec.Record(Entry{RecordedAt: at.Add(time.Minute), Symbol: "BTCUSDT", Interval: model.Interval1h, Kind: "selection", GroupID: "b", Tap: true}))
	require.NoError(t, rec.Record(Entry{Symbol: "ETHUSDT", Interval: model.Interval1m, Kind: "measurement"}))

	entries, err := rec.Recent("BTCUSDT", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].GroupID)
	assert.True(t, entries[0].Tap)
	assert.Equal(t, "a", entries[1].GroupID)
	assert.Equal(t, 3, entries[1].Bars)
	assert.Equal(t, model.Interval1h, entries[1].Interval)
	assert.Equal(t, at, entries[1].RecordedAt)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NoError(t, r.Record(Entry{}))
	entries, err := r.Recent("x", 1)
	assert.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, r.Close())
}
