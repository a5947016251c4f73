// Package stats aggregates price bars over an X (time) range.
package stats

import (
	"time"

	"candlescope/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the bars spanned by a measurement or selection.
type Stats struct {
	MinLow        float64
	MaxHigh       float64
	Avg           float64 // mean close
	Change        float64 // last close - first open
	ChangePercent float64 // Change as a percentage of first open
	Count         int
	Volume        float64
	Duration      time.Duration // last bar time - first bar time
	Start         time.Time
	End           time.Time
}

// Compute aggregates the bars of series whose X lies in the inclusive range
// [xMin, xMax]. It returns nil when the series is missing or the range is empty.
func Compute(series *model.Series, xMin, xMax float64) *Stats {
	if series == nil {
		return nil
	}
	bars := series.Range(xMin, xMax)
	if len(bars) == 0 {
		return nil
	}
	return FromBars(bars)
}

// FromBars aggregates an already ordered bar slice; nil for an empty slice.
func FromBars(bars []model.PriceBar) *Stats {
	n := len(bars)
	if n == 0 {
		return nil
	}

	lows := make([]float64, n)
	highs := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		lows[i] = b.Low
		highs[i] = b.High
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	first, last := bars[0], bars[n-1]
	s := &Stats{
		MinLow:   floats.Min(lows),
		MaxHigh:  floats.Max(highs),
		Avg:      stat.Mean(closes, nil),
		Change:   last.Close - first.Open,
		Count:    n,
		Volume:   floats.Sum(volumes),
		Duration: last.Time.Sub(first.Time),
		Start:    first.Time,
		End:      last.Time,
	}
	if first.Open != 0 {
		s.ChangePercent = s.Change / first.Open * 100
	}
	return s
}

// AtBar returns the single-bar stats for the bar nearest x.
func AtBar(series *model.Series, x float64) *Stats {
	if series == nil {
		return nil
	}
	i, ok := series.Nearest(x)
	if !ok {
		return nil
	}
	bx := series.At(i).X()
	return Compute(series, bx, bx)
}
