package stats

import (
	"testing"
	"time"

	"candlescope/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBars() *model.Series {
	return model.NewSeries("test", []model.PriceBar{
		{Time: time.Unix(0, 0), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Time: time.Unix(60, 0), Open: 11, High: 13, Low: 10, Close: 12, Volume: 200},
	})
}

func TestCompute_FullRange(t *testing.T) {
	s := Compute(twoBars(), 0, 60)
	require.NotNil(t, s)

	assert.Equal(t, 9.0, s.MinLow)
	assert.Equal(t, 13.0, s.MaxHigh)
	assert.Equal(t, 2.0, s.Change)
	assert.InDelta(t, 20.0, s.ChangePercent, 1e-9)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 300.0, s.Volume)
	assert.Equal(t, 60*time.Second, s.Duration)
	assert.InDelta(t, 11.5, s.Avg, 1e-9)
}

func TestCompute_ReversedRange(t *testing.T) {
	s := Compute(twoBars(), 60, 0)
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Count)
}

func TestCompute_NullSafety(t *testing.T) {
	assert.Nil(t, Compute(nil, 0, 100))
	assert.Nil(t, Compute(model.NewSeries("empty", nil), 0, 100))
	assert.Nil(t, Compute(twoBars(), 30, 30))
	assert.Nil(t, Compute(twoBars(), 100, 200))
	assert.Nil(t, FromBars(nil))
}

func TestCompute_SingleBar(t *testing.T) {
	s := Compute(twoBars(), 60, 60)
	require.NotNil(t, s)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 1.0, s.Change)
	assert.Equal(t, time.Duration(0), s.Duration)
}

func TestCompute_ZeroOpen(t *testing.T) {
	series := model.NewSeries("z", []model.PriceBar{{Time: time.Unix(0, 0), Open: 0, High: 1, Low: 0, Close: 1}})
	s := Compute(series, 0, 0)
	require.NotNil(t, s)
	assert.Equal(t, 0.0, s.ChangePercent)
}

func TestAtBar(t *testing.T) {
	s := AtBar(twoBars(), 50)
	require.NotNil(t, s)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 13.0, s.MaxHigh)

	assert.Nil(t, AtBar(model.NewSeries("empty", nil), 0))
	assert.Nil(t, AtBar(nil, 0))
}
