// Package surface defines the chart surface the interaction tools draw on:
// per-axis coordinate calculators, series hit-testing, the annotation
// collection and the visible plot rectangle.
package surface

import (
	"candlescope/internal/model"
	"candlescope/pkg/geometry"
)

// Axis selects the X (time) or Y (price) axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Calculator maps between pixel coordinates and data values on one axis.
type Calculator interface {
	GetDataValue(pixel float64) float64
	GetCoordinate(value float64) float64
}

// HitTestInfo is the result of a vertical-slice hit test on the price series.
type HitTestInfo struct {
	IsHit              bool
	IsWithinDataBounds bool
	Index              int
	XValue             float64
	OpenValue          float64
	HighValue          float64
	LowValue           float64
	CloseValue         float64
}

// Surface is everything the tools need from the chart.
type Surface interface {
	// Calculator returns the current mapping for axis, or nil when the axis
	// is not initialised yet. Callers must not cache the result across events.
	Calculator(axis Axis) Calculator

	// HitTestXSlice finds the bar nearest px within radius pixels.
	// ok is false when there is no primary series.
	HitTestXSlice(px, py, radius float64) (info HitTestInfo, ok bool)

	// Annotations is the shared annotation collection.
	Annotations() Annotations

	// SeriesViewRect is the visible plot rectangle in pixels.
	SeriesViewRect() geometry.Rect

	// PrimarySeries returns the candle series, or nil before data loads.
	PrimarySeries() *model.Series
}

// ToData converts a pixel coordinate to a data value using the axis's
// current calculator. ok is false when the axis is not ready.
func ToData(s Surface, axis Axis, pixel float64) (float64, bool) {
	calc := s.Calculator(axis)
	if calc == nil {
		return 0, false
	}
	return calc.GetDataValue(pixel), true
}

// ToPixel converts a data value to a pixel coordinate.
func ToPixel(s Surface, axis Axis, value float64) (float64, bool) {
	calc := s.Calculator(axis)
	if calc == nil {
		return 0, false
	}
	return calc.GetCoordinate(value), true
}

// PointToData converts a pixel point on both axes.
func PointToData(s Surface, p geometry.Point2D) (geometry.Point2D, bool) {
	x, okX := ToData(s, AxisX, p.X)
	y, okY := ToData(s, AxisY, p.Y)
	return geometry.Point2D{X: x, Y: y}, okX && okY
}

// PointToPixel converts a data point on both axes.
func PointToPixel(s Surface, p geometry.Point2D) (geometry.Point2D, bool) {
	x, okX := ToPixel(s, AxisX, p.X)
	y, okY := ToPixel(s, AxisY, p.Y)
	return geometry.Point2D{X: x, Y: y}, okX && okY
}
