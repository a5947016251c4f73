package drawing

import (
	"testing"
	"time"

	"candlescope/internal/gesture"
	"candlescope/internal/model"
	"candlescope/internal/surface"
	"candlescope/pkg/colorutil"
	"candlescope/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlot() *surface.Plot {
	bars := make([]model.PriceBar, 40)
	for i := range bars {
		bars[i] = model.PriceBar{Time: time.Unix(int64(i*60), 0), Open: 50, High: 60, Low: 40, Close: 55}
	}
	p := surface.NewPlot(800, 600)
	p.SetSeries(model.NewSeries("T", bars))
	p.SetXRange(0, 39*60)
	return p
}

func TestAddLineAndBox(t *testing.T) {
	plot := testPlot()
	c := New(plot, 0)

	line := c.AddLine()
	require.NotNil(t, line)
	assert.True(t, line.Selected)
	assert.Equal(t, 3, plot.Annotations().Len())

	box := c.AddBox()
	require.NotNil(t, box)
	assert.True(t, box.Selected)
	assert.False(t, line.Selected, "adding selects only the new item")
	assert.Equal(t, colorutil.Accent, line.Line.Stroke)
	assert.True(t, line.Handles[0].Hidden())
	assert.Equal(t, 6, plot.Annotations().Len())
}

func TestAddWithoutDataIsNoop(t *testing.T) {
	plot := surface.NewPlot(800, 600)
	c := New(plot, 0)
	assert.Nil(t, c.AddLine())
	assert.Nil(t, c.AddBox())
	assert.Equal(t, 0, plot.Annotations().Len())
}

func TestDeleteSelected(t *testing.T) {
	plot := testPlot()
	c := New(plot, 0)
	c.AddLine()
	c.AddBox()

	assert.Equal(t, 1, c.DeleteSelected())
	require.Len(t, c.Items(), 1)
	assert.Equal(t, LineShape, c.Items()[0].Shape)
	assert.Equal(t, 3, plot.Annotations().Len())
	assert.Equal(t, 0, c.DeleteSelected())
}

func TestClickSelectsAndDrags(t *testing.T) {
	plot := testPlot()
	c := New(plot, 0)
	c.SetEnabled(true)
	line := c.AddLine()
	c.selectOnly(nil)

	a, _ := surface.PointToPixel(plot, geometry.Point2D{X: line.Line.X1, Y: line.Line.Y1})
	b, _ := surface.PointToPixel(plot, geometry.Point2D{X: line.Line.X2, Y: line.Line.Y2})
	mid := a.Midpoint(b)

	assert.True(t, c.OnPointerDown(gesture.At(mid.X, mid.Y+3)))
	assert.True(t, line.Selected)

	x1 := line.Line.X1
	assert.True(t, c.OnPointerMove(gesture.At(mid.X+50, mid.Y+3)))
	assert.Greater(t, line.Line.X1, x1)
	assert.Equal(t, line.Line.X1, line.Handles[0].X)
	assert.True(t, c.OnPointerUp(gesture.At(mid.X+50, mid.Y+3)))

	// click on empty space deselects and passes through
	assert.False(t, c.OnPointerDown(gesture.At(5, 40)))
	assert.False(t, line.Selected)
}

func TestDetachTwice(t *testing.T) {
	plot := testPlot()
	c := New(plot, 0)
	c.AddLine()
	c.AddBox()
	c.Detach()
	c.Detach()
	assert.Equal(t, 0, plot.Annotations().Len())
	assert.Empty(t, c.Items())
}

func TestSegmentDistance(t *testing.T) {
	a, b := geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 10, Y: 0}
	assert.Equal(t, 3.0, segmentDistance(geometry.Point2D{X: 5, Y: 3}, a, b))
	assert.Equal(t, 5.0, segmentDistance(geometry.Point2D{X: 13, Y: 4}, a, b))
	assert.Equal(t, 2.0, segmentDistance(geometry.Point2D{X: 0, Y: 2}, a, a))
}
