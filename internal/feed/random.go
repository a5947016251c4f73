package feed

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"candlescope/internal/model"
)

const (
	randomStartPrice = 30000.0
	randomVolatility = 0.002
)

// Random generates a random-walk series and a synthetic tick stream.
type Random struct {
	mu       sync.Mutex
	rng      *rand.Rand
	now      func() time.Time
	tick     time.Duration
	ticksPer int
	last     model.PriceBar
}

// NewRandom creates a generator. A zero seed uses the clock.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
		tick:     time.Second,
		ticksPer: 5,
	}
}

// Name implements Source.
func (r *Random) Name() string { return "random" }

// Snapshot implements Source. Bars end at the current interval boundary.
func (r *Random) Snapshot(ctx context.Context, symbol string, interval model.Interval, limit int) ([]model.PriceBar, error) {
	if limit <= 0 {
		limit = DefaultHistory
	}
	step := interval.Duration()
	end := r.now().UTC().Truncate(step)

	r.mu.Lock()
	defer r.mu.Unlock()

	bars := make([]model.PriceBar, limit)
	price := randomStartPrice
	for i := range bars {
		bars[i] = r.nextBar(end.Add(-time.Duration(limit-1-i)*step), price)
		price = bars[i].Close
	}
	r.last = bars[len(bars)-1]
	return bars, nil
}

// Stream implements Source. Every tick moves the close of the open bar;
// after ticksPer ticks a new bar starts.
func (r *Random) Stream(ctx context.Context, symbol string, interval model.Interval, out chan<- model.PriceBar) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		r.mu.Lock()
		n++
		if n%r.ticksPer == 0 {
			r.last = r.nextBar(r.last.Time.Add(interval.Duration()), r.last.Close)
		} else {
			r.last = r.nudge(r.last)
		}
		bar := r.last
		r.mu.Unlock()

		select {
		case out <- bar:
		case <-ctx.Done():
			return nil
		}
	}
}

func (r *Random) nextBar(t time.Time, open float64) model.PriceBar {
	closePrice := open * (1 + r.rng.NormFloat64()*randomVolatility)
	wick := math.Abs(r.rng.NormFloat64()) * open * randomVolatility / 2
	return model.PriceBar{
		Time:   t,
		Open:   open,
		High:   math.Max(open, closePrice) + wick,
		Low:    math.Min(open, closePrice) - wick,
		Close:  closePrice,
		Volume: 10 + r.rng.Float64()*90,
	}
}

func (r *Random) nudge(b model.PriceBar) model.PriceBar {
	b.Close *= 1 + r.rng.NormFloat64()*randomVolatility/4
	b.High = math.Max(b.High, b.Close)
	b.Low = math.Min(b.Low, b.Close)
	b.Volume += r.rng.Float64() * 5
	return b
}
