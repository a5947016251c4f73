// Package journal records committed measurements and selections.
package journal

import (
	"time"

	"candlescope/internal/measure"
	"candlescope/internal/model"
)

// Entry is one recorded measurement.
type Entry struct {
	ID            int64
	RecordedAt    time.Time
	Symbol        string
	Interval      model.Interval
	Kind          string
	GroupID       string
	StartX        float64
	EndX          float64
	StartPrice    float64
	EndPrice      float64
	Tap           bool
	Bars          int
	MinLow        float64
	MaxHigh       float64
	Avg           float64
	Change        float64
	ChangePercent float64
	Volume        float64
}

// FromResult builds an entry from a measure result.
func FromResult(symbol string, interval model.Interval, r measure.Result) Entry {
	e := Entry{
		RecordedAt: time.Now().UTC(),
		Symbol:     symbol,
		Interval:   interval,
		Kind:       r.Variant.String(),
		GroupID:    r.GroupID,
		StartX:     r.Anchor.X,
		EndX:       r.End.X,
		StartPrice: r.Anchor.Y,
		EndPrice:   r.End.Y,
		Tap:        r.Tap,
	}
	if s := r.Stats; s != nil {
		e.Bars = s.Count
		e.MinLow, e.MaxHigh, e.Avg = s.MinLow, s.MaxHigh, s.Avg
		e.Change, e.ChangePercent = s.Change, s.ChangePercent
		e.Volume = s.Volume
	}
	return e
}

// Recorder persists entries.
type Recorder interface {
	Record(e Entry) error
	Recent(symbol string, limit int) ([]Entry, error)
	Close() error
}
