// Package gesture turns raw pointer and touch events into long-press
// gestures shared by the chart's inspection and drawing tools.
package gesture

import (
	"candlescope/pkg/geometry"
)

// Source identifies the input device behind a pointer event.
type Source int

const (
	Mouse Source = iota
	Touch
)

func (s Source) String() string {
	if s == Touch {
		return "touch"
	}
	return "mouse"
}

// Pointer is a pointer or touch event in surface pixels. It is passed by
// value; controllers copy Pos when they keep it.
type Pointer struct {
	Pos       geometry.Point2D
	Source    Source
	Secondary bool
}

// At builds a mouse pointer at x, y.
func At(x, y float64) Pointer {
	return Pointer{Pos: geometry.Point2D{X: x, Y: y}}
}

// TouchAt builds a touch pointer at x, y.
func TouchAt(x, y float64) Pointer {
	return Pointer{Pos: geometry.Point2D{X: x, Y: y}, Source: Touch}
}
