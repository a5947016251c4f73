package measure

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
	bars := make([]model.PriceBar, 60)
	for i := range bars {
		p := 100 + float64(i%10)
		bars[i] = model.PriceBar{Time: time.Unix(int64(i*60), 0), Open: p, High: p + 3, Low: p - 3, Close: p + 1, Volume: 10}
	}
	p := surface.NewPlot(800, 600)
	p.SetSeries(model.NewSeries("ETHUSDT", bars))
	p.SetXRange(0, 59*60)
	p.SetYRange(90, 115)
	return p
}

type harness struct {
	plot    *surface.Plot
	sched   *gesture.ManualScheduler
	c       *Controller
	results []Result
}

func newHarness(v Variant) *harness {
	h := &harness{plot: testPlot(), sched: gesture.NewManualScheduler()}
	h.c = New(h.plot, h.sched, Options{
		Variant:  v,
		Gesture:  gesture.DefaultConfig(),
		Debug:    true,
		OnCommit: func(r Result) { h.results = append(h.results, r) },
	})
	h.c.SetEnabled(true)
	return h
}

// draw performs a full long-press measurement from a to b.
func (h *harness) draw(a, b geometry.Point2D) {
	h.c.OnPointerDown(gesture.Pointer{Pos: a, Source: gesture.Touch})
	h.sched.Advance(gesture.DefaultDelay)
	h.c.OnPointerMove(gesture.Pointer{Pos: b, Source: gesture.Touch})
	h.c.OnPointerUp(gesture.Pointer{Pos: b, Source: gesture.Touch})
}

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

func TestMeasurement_CommitProducesCompleteGroup(t *testing.T) {
	h := newHarness(Measurement)
	h.draw(pt(100, 300), pt(300, 200))

	groups := h.c.Groups()
	require.Len(t, groups, 1)
	g := groups[0]
	require.NoError(t, g.Validate())
	assert.True(t, g.Committed())
	assert.Len(t, g.Items(), 11)
	assert.Equal(t, 11, h.plot.Annotations().Len())

	assert.False(t, g.Bearish)
	assert.Equal(t, colorutil.SkyBlue, g.Box.Stroke)
	assert.Equal(t, surface.DataValue, g.HArrow.XMode)
	assert.Equal(t, surface.DataValue, g.Tooltip.XMode)

	_, maxX, _, maxY := g.DataBounds()
	assert.Equal(t, maxX, g.Delete.X)
	assert.Equal(t, maxY, g.Delete.Y)

	require.Len(t, h.results, 1)
	assert.Equal(t, g.ID(), h.results[0].GroupID)
	assert.NotNil(t, h.results[0].Stats)
}

func TestMeasurement_LiveGeometry(t *testing.T) {
	h := newHarness(Measurement)
	h.c.OnPointerDown(gesture.TouchAt(300, 200))
	h.sched.Advance(gesture.DefaultDelay)
	require.NotNil(t, h.c.Draft())
	require.NoError(t, h.c.Draft().Validate())

	// drag left and down: bearish
	h.c.OnPointerMove(gesture.TouchAt(100, 400))
	g := h.c.Draft()
	assert.True(t, g.Bearish)
	assert.Equal(t, colorutil.Bearish, g.Box.Stroke)
	assert.Equal(t, colorutil.WithAlpha(colorutil.Bearish, 0x33), g.Box.Fill)

	assert.Equal(t, surface.Pixel, g.HArrow.XMode)
	assert.InDelta(t, 105, g.HArrow.X, 1e-9)
	assert.Equal(t, 180.0, g.HArrow.Rotation)
	assert.InDelta(t, 300, g.HArrow.Y, 1e-9)
	assert.InDelta(t, 395, g.VArrow.Y, 1e-9)
	assert.Equal(t, 90.0, g.VArrow.Rotation)

	minX, maxX, minY, maxY := g.DataBounds()
	assert.Equal(t, minX, g.XStart.Value)
	assert.Equal(t, maxX, g.XEnd.Value)
	assert.Equal(t, maxY, g.YHigh.Value)
	assert.Equal(t, minY, g.YLow.Value)
	assert.InDelta(t, (minY+maxY)/2, g.HLine.Y1, 1e-9)
	assert.InDelta(t, (minX+maxX)/2, g.VLine.X1, 1e-9)

	// back up and right: bullish again
	h.c.OnPointerMove(gesture.TouchAt(500, 100))
	assert.False(t, g.Bearish)
	assert.Equal(t, 270.0, g.VArrow.Rotation)
	assert.Equal(t, 0.0, g.HArrow.Rotation)
	assert.False(t, g.Tooltip.Hidden())
	assert.Len(t, g.Tooltip.Lines, 3)
}

func TestMeasurement_QuickDragDoesNotDraw(t *testing.T) {
	h := newHarness(Measurement)
	h.c.OnPointerDown(gesture.TouchAt(100, 100))
	h.c.OnPointerMove(gesture.TouchAt(130, 100))
	h.sched.Advance(time.Second)
	h.c.OnPointerUp(gesture.TouchAt(130, 100))

	assert.Nil(t, h.c.Draft())
	assert.Empty(t, h.c.Groups())
	assert.Equal(t, 0, h.plot.Annotations().Len())
}

func TestMeasurement_DeleteMostRecentFirst(t *testing.T) {
	h := newHarness(Measurement)
	h.draw(pt(100, 300), pt(300, 200))
	h.draw(pt(150, 350), pt(302, 203))
	require.Len(t, h.c.Groups(), 2)
	first, second := h.c.Groups()[0], h.c.Groups()[1]

	// both delete controls are within the hit square of this point
	del, _ := surface.PointToPixel(h.plot, pt(second.Delete.X, second.Delete.Y))
	require.True(t, first.deleteHit(h.plot, del, DefaultDeleteRadius))

	assert.True(t, h.c.OnPointerDown(gesture.Pointer{Pos: del, Source: gesture.Touch}))
	require.Len(t, h.c.Groups(), 1)
	assert.Equal(t, first.ID(), h.c.Groups()[0].ID())
	assert.Equal(t, 11, h.plot.Annotations().Len())
	assert.Equal(t, gesture.Idle, h.c.State(), "delete consumes the pointer-down")
}

func TestMeasurement_DeleteFollowsViewport(t *testing.T) {
	h := newHarness(Measurement)
	h.draw(pt(100, 300), pt(300, 200))
	g := h.c.Groups()[0]

	before, _ := surface.PointToPixel(h.plot, pt(g.Delete.X, g.Delete.Y))
	h.plot.PanBy(150, 0)
	after, _ := surface.PointToPixel(h.plot, pt(g.Delete.X, g.Delete.Y))

	assert.False(t, h.c.deleteAt(before))
	assert.True(t, h.c.deleteAt(after))
	assert.Empty(t, h.c.Groups())
}

func TestMeasurement_DetachTwice(t *testing.T) {
	h := newHarness(Measurement)
	h.draw(pt(100, 300), pt(300, 200))
	h.c.OnPointerDown(gesture.TouchAt(400, 400))
	h.sched.Advance(gesture.DefaultDelay)
	require.NotNil(t, h.c.Draft())

	h.c.Detach()
	h.c.Detach()
	assert.Equal(t, 0, h.plot.Annotations().Len())
	assert.Equal(t, 0, h.sched.Pending())
	assert.Empty(t, h.c.Groups())
}

func TestMeasurement_NoDataDoesNothing(t *testing.T) {
	plot := surface.NewPlot(800, 600)
	sched := gesture.NewManualScheduler()
	c := New(plot, sched, Options{Variant: Measurement})
	c.SetEnabled(true)

	c.OnPointerDown(gesture.TouchAt(10, 10))
	sched.Advance(gesture.DefaultDelay)
	c.OnPointerMove(gesture.TouchAt(100, 100))
	c.OnPointerUp(gesture.TouchAt(100, 100))
	assert.Equal(t, 0, plot.Annotations().Len())
}

func TestMeasurement_DisableKeepsCommitted(t *testing.T) {
	h := newHarness(Measurement)
	h.draw(pt(100, 300), pt(300, 200))
	h.c.OnPointerDown(gesture.TouchAt(400, 400))
	h.sched.Advance(gesture.DefaultDelay)

	h.c.SetEnabled(false)
	assert.Nil(t, h.c.Draft())
	assert.Len(t, h.c.Groups(), 1)
	assert.Equal(t, 11, h.plot.Annotations().Len())
}

func TestSelection_DragCommitsSingleResult(t *testing.T) {
	h := newHarness(Selection)
	assert.True(t, h.c.OnPointerDown(gesture.At(100, 300)))
	assert.Equal(t, gesture.Active, h.c.State())
	h.c.OnPointerMove(gesture.At(300, 200))
	h.c.OnPointerUp(gesture.At(300, 200))

	sel := h.c.Selection()
	require.NotNil(t, sel)
	require.NoError(t, sel.Validate())
	assert.Len(t, sel.Tooltip.Lines, 5)
	assert.Empty(t, h.c.Groups())

	h.c.OnPointerDown(gesture.At(400, 300))
	h.c.OnPointerMove(gesture.At(500, 350))
	h.c.OnPointerUp(gesture.At(500, 350))
	assert.NotEqual(t, sel.ID(), h.c.Selection().ID())
	assert.Equal(t, 11, h.plot.Annotations().Len())
}

func TestSelection_TapShowsSingleBarStats(t *testing.T) {
	h := newHarness(Selection)
	px, _ := surface.ToPixel(h.plot, surface.AxisX, 10*60)
	h.c.OnPointerDown(gesture.At(px, 300))
	h.c.OnPointerMove(gesture.At(px+5, 305))
	h.c.OnPointerUp(gesture.At(px+5, 305))

	assert.Nil(t, h.c.Selection())
	require.NotNil(t, h.c.TapTooltip())
	assert.Equal(t, 1, h.plot.Annotations().Len())

	require.Len(t, h.results, 1)
	r := h.results[0]
	assert.True(t, r.Tap)
	require.NotNil(t, r.Stats)
	assert.Equal(t, 1, r.Stats.Count)
	assert.Equal(t, 100.0, r.Stats.MinLow+3)
}

func TestSelection_DeleteControl(t *testing.T) {
	h := newHarness(Selection)
	h.c.OnPointerDown(gesture.At(100, 300))
	h.c.OnPointerMove(gesture.At(300, 200))
	h.c.OnPointerUp(gesture.At(300, 200))
	sel := h.c.Selection()
	require.NotNil(t, sel)

	del, _ := surface.PointToPixel(h.plot, pt(sel.Delete.X, sel.Delete.Y))
	assert.True(t, h.c.OnPointerDown(gesture.At(del.X+5, del.Y-5)))
	assert.Nil(t, h.c.Selection())
	assert.Equal(t, 0, h.plot.Annotations().Len())
}

func TestPlaceTooltip(t *testing.T) {
	view := geometry.Rect{X: 0, Y: 20, Width: 700, Height: 500}
	size := geometry.Size{Width: DefaultTooltipWidth, Height: DefaultTooltipHeight}

	// room above, centred
	pl := PlaceTooltip(geometry.Rect{X: 300, Y: 200, Width: 100, Height: 50}, view, size)
	assert.Equal(t, Placement{X: 350, Y: 194, HAnchor: surface.AnchorCenter, VAnchor: surface.AnchorBottom}, pl)

	// near the top: flips below
	pl = PlaceTooltip(geometry.Rect{X: 300, Y: 60, Width: 100, Height: 50}, view, size)
	assert.Equal(t, 116.0, pl.Y)
	assert.Equal(t, surface.AnchorTop, pl.VAnchor)

	// the gap counts: a tooltip that would end exactly at the box top but
	// overrun the view by the gap flips below
	pl = PlaceTooltip(geometry.Rect{X: 300, Y: 103, Width: 100, Height: 50}, view, size)
	assert.Equal(t, surface.AnchorTop, pl.VAnchor)
	pl = PlaceTooltip(geometry.Rect{X: 300, Y: 106, Width: 100, Height: 50}, view, size)
	assert.Equal(t, surface.AnchorBottom, pl.VAnchor)
	assert.GreaterOrEqual(t, LabelRect(pl, size).Top(), view.Top(), "never clips the top")

	// near the left edge: hugs the box's left edge
	pl = PlaceTooltip(geometry.Rect{X: 10, Y: 200, Width: 40, Height: 50}, view, size)
	assert.Equal(t, 10.0, pl.X)
	assert.Equal(t, surface.AnchorLeft, pl.HAnchor)

	// near the right edge: hugs the box's right edge
	pl = PlaceTooltip(geometry.Rect{X: 640, Y: 200, Width: 50, Height: 50}, view, size)
	assert.Equal(t, 690.0, pl.X)
	assert.Equal(t, surface.AnchorRight, pl.HAnchor)

	r := LabelRect(Placement{X: 350, Y: 194, HAnchor: surface.AnchorCenter, VAnchor: surface.AnchorBottom}, size)
	assert.Equal(t, geometry.Rect{X: 265, Y: 114, Width: 170, Height: 80}, r)
}
