package crosshair

import (
	"testing"
	"time"

	"candlescope/internal/gesture"
	"candlescope/internal/model"
	"candlescope/internal/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlot() *surface.Plot {
	bars := make([]model.PriceBar, 30)
	for i := range bars {
		p := 100 + float64(i)
		bars[i] = model.PriceBar{Time: time.Unix(int64(i*60), 0), Open: p, High: p + 2, Low: p - 2, Close: p + 1}
	}
	p := surface.NewPlot(800, 600)
	p.SetSeries(model.NewSeries("BTCUSDT", bars))
	p.SetXRange(0, 29*60)
	return p
}

type legendLog struct{ events []*OHLC }

func (l *legendLog) record(o *OHLC) { l.events = append(l.events, o) }

func (l *legendLog) last() *OHLC {
	if len(l.events) == 0 {
		return nil
	}
	return l.events[len(l.events)-1]
}

func newTestController(plot *surface.Plot) (*Controller, *gesture.ManualScheduler, *legendLog) {
	sched := gesture.NewManualScheduler()
	legend := &legendLog{}
	c := New(plot, sched, Options{Gesture: gesture.DefaultConfig(), OnOHLC: legend.record})
	c.SetEnabled(true)
	return c, sched, legend
}

func TestController_LongPressShowsSnappedCrosshair(t *testing.T) {
	plot := testPlot()
	c, sched, legend := newTestController(plot)

	px, _ := surface.ToPixel(plot, surface.AxisX, 10*60)
	c.OnPointerDown(gesture.TouchAt(px+4, 300))
	assert.Nil(t, c.Overlay())

	sched.Advance(gesture.DefaultDelay)
	require.NotNil(t, c.Overlay())
	assert.True(t, c.Overlay().Visible())
	assert.Equal(t, 600.0, c.Overlay().VLine.X1)

	price, _ := surface.ToData(plot, surface.AxisY, 300)
	assert.InDelta(t, price, c.Overlay().HLine.Y1, 1e-9)

	require.NotNil(t, legend.last())
	assert.Equal(t, "BTCUSDT", legend.last().Name)
	assert.Equal(t, 110.0, legend.last().Open)
	assert.Equal(t, 4, plot.Annotations().Len())
}

func TestController_TracksAndHidesOnRelease(t *testing.T) {
	plot := testPlot()
	c, sched, legend := newTestController(plot)

	c.OnPointerDown(gesture.TouchAt(100, 300))
	sched.Advance(gesture.DefaultDelay)

	px, _ := surface.ToPixel(plot, surface.AxisX, 20*60)
	assert.True(t, c.OnPointerMove(gesture.TouchAt(px, 250)))
	assert.Equal(t, 1200.0, c.Overlay().VLine.X1)

	assert.True(t, c.OnPointerUp(gesture.TouchAt(px, 250)))
	assert.False(t, c.Overlay().Visible())
	assert.Nil(t, legend.last())
	assert.Equal(t, gesture.Idle, c.State())
	// hidden, not destroyed
	assert.Equal(t, 4, plot.Annotations().Len())
}

func TestController_QuickDragIsPan(t *testing.T) {
	plot := testPlot()
	c, sched, legend := newTestController(plot)

	c.OnPointerDown(gesture.TouchAt(100, 300))
	assert.False(t, c.OnPointerMove(gesture.TouchAt(140, 300)))
	sched.Advance(time.Second)

	assert.Equal(t, gesture.Idle, c.State())
	assert.Nil(t, c.Overlay())
	assert.Empty(t, legend.events)
}

func TestController_OutsideDataHides(t *testing.T) {
	plot := testPlot()
	plot.SetXRange(-3000, 29*60)
	c, sched, _ := newTestController(plot)

	px, _ := surface.ToPixel(plot, surface.AxisX, 10*60)
	c.OnPointerDown(gesture.TouchAt(px, 300))
	sched.Advance(gesture.DefaultDelay)
	require.True(t, c.Overlay().Visible())

	c.OnPointerMove(gesture.TouchAt(5, 300))
	assert.False(t, c.Overlay().Visible())
	assert.Equal(t, 4, plot.Annotations().Len())
}

func TestController_NoDataIsNoop(t *testing.T) {
	plot := surface.NewPlot(800, 600)
	c, sched, legend := newTestController(plot)

	c.OnPointerDown(gesture.TouchAt(100, 100))
	sched.Advance(gesture.DefaultDelay)
	c.OnPointerMove(gesture.TouchAt(120, 120))
	c.OnPointerUp(gesture.TouchAt(120, 120))

	assert.Nil(t, c.Overlay())
	assert.Equal(t, 0, plot.Annotations().Len())
	assert.Equal(t, []*OHLC{nil}, legend.events)
}

func TestController_DetachTwice(t *testing.T) {
	plot := testPlot()
	c, sched, _ := newTestController(plot)
	c.OnPointerDown(gesture.TouchAt(100, 300))
	sched.Advance(gesture.DefaultDelay)

	c.Detach()
	c.Detach()
	assert.Equal(t, 0, plot.Annotations().Len())
	assert.Equal(t, 0, sched.Pending())
}

func TestController_DisabledIgnoresEvents(t *testing.T) {
	plot := testPlot()
	c, sched, _ := newTestController(plot)
	c.SetEnabled(false)

	c.OnPointerDown(gesture.TouchAt(100, 300))
	sched.Advance(gesture.DefaultDelay)
	assert.Equal(t, gesture.Idle, c.State())
	assert.Nil(t, c.Overlay())
}

func TestCursor_FollowsMouse(t *testing.T) {
	plot := testPlot()
	legend := &legendLog{}
	cur := NewCursor(plot, 0, legend.record)

	cur.OnPointerMove(gesture.At(200, 200))
	assert.Nil(t, cur.Overlay(), "disabled cursor does nothing")

	cur.SetEnabled(true)
	assert.False(t, cur.OnPointerMove(gesture.At(200, 200)))
	require.NotNil(t, cur.Overlay())
	assert.True(t, cur.Overlay().VLine.Dashed)
	assert.NotNil(t, legend.last())

	cur.OnPointerLeave(gesture.At(0, 0))
	assert.False(t, cur.Overlay().Visible())
	assert.Nil(t, legend.last())

	cur.SetEnabled(false)
	assert.Nil(t, cur.Overlay())
	assert.Equal(t, 0, plot.Annotations().Len())
}
