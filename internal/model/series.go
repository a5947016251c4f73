package model

import (
	"math"
	"sort"
	"sync"
)

// Series is an ordered (ascending time) sequence of price bars.
// It is replaced wholesale on symbol/timeframe change and updated per tick.
type Series struct {
	mu   sync.RWMutex
	name string
	bars []PriceBar
}

// NewSeries creates a series from bars, sorting a private copy by time.
func NewSeries(name string, bars []PriceBar) *Series {
	s := &Series{}
	s.Replace(name, bars)
	return s
}

// Replace swaps the whole bar sequence.
func (s *Series) Replace(name string, bars []PriceBar) {
	cp := make([]PriceBar, len(bars))
	copy(cp, bars)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Time.Before(cp[j].Time) })

	s.mu.Lock()
	s.name = name
	s.bars = cp
	s.mu.Unlock()
}

// Name returns the series (symbol) name.
func (s *Series) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Len returns the number of bars.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bars)
}

// At returns the i-th bar.
func (s *Series) At(i int) PriceBar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bars[i]
}

// Bars returns a copy of all bars.
func (s *Series) Bars() []PriceBar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]PriceBar, len(s.bars))
	copy(cp, s.bars)
	return cp
}

// Last returns the most recent bar.
func (s *Series) Last() (PriceBar, bool) {
	if s == nil {
		return PriceBar{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.bars) == 0 {
		return PriceBar{}, false
	}
	return s.bars[len(s.bars)-1], true
}

// Apply merges a streaming bar. A bar with the same open time as the last bar
// replaces it; a later one is appended; an older one is dropped.
// It reports whether a new bar was appended.
func (s *Series) Apply(bar PriceBar) (appended bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.bars)
	if n == 0 {
		s.bars = append(s.bars, bar)
		return true
	}
	last := s.bars[n-1].Time
	switch {
	case bar.Time.Equal(last):
		s.bars[n-1] = bar
		return false
	case bar.Time.After(last):
		s.bars = append(s.bars, bar)
		return true
	default:
		return false
	}
}

// Range returns copies of the bars whose X lies in [xMin, xMax].
func (s *Series) Range(xMin, xMax float64) []PriceBar {
	if s == nil {
		return nil
	}
	if xMin > xMax {
		xMin, xMax = xMax, xMin
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo := sort.Search(len(s.bars), func(i int) bool { return s.bars[i].X() >= xMin })
	hi := sort.Search(len(s.bars), func(i int) bool { return s.bars[i].X() > xMax })
	if lo >= hi {
		return nil
	}
	out := make([]PriceBar, hi-lo)
	copy(out, s.bars[lo:hi])
	return out
}

// Nearest returns the index of the bar closest to x.
func (s *Series) Nearest(x float64) (int, bool) {
	if s == nil {
		return 0, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.bars)
	if n == 0 {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool { return s.bars[i].X() >= x })
	switch {
	case i == 0:
		return 0, true
	case i == n:
		return n - 1, true
	}
	if math.Abs(s.bars[i].X()-x) < math.Abs(x-s.bars[i-1].X()) {
		return i, true
	}
	return i - 1, true
}

// Spacing returns the X distance between the last two bars, or 0.
func (s *Series) Spacing() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.bars)
	if n < 2 {
		return 0
	}
	return s.bars[n-1].X() - s.bars[n-2].X()
}

// Extent returns the X span covered by the bars.
func (s *Series) Extent() (xMin, xMax float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.bars) == 0 {
		return 0, 0, false
	}
	return s.bars[0].X(), s.bars[len(s.bars)-1].X(), true
}

// PriceExtent returns the lowest low and highest high of bars with X in [xMin, xMax].
func (s *Series) PriceExtent(xMin, xMax float64) (low, high float64, ok bool) {
	bars := s.Range(xMin, xMax)
	if len(bars) == 0 {
		return 0, 0, false
	}
	low, high = math.Inf(1), math.Inf(-1)
	for _, b := range bars {
		low = math.Min(low, b.Low)
		high = math.Max(high, b.High)
	}
	return low, high, true
}
