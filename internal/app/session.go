package app

import (
	"context"
	"io"
	"strings"
	"sync"

	"candlescope/internal/config"
	"candlescope/internal/crosshair"
	"candlescope/internal/drawing"
	"candlescope/internal/feed"
	"candlescope/internal/format"
	"candlescope/internal/gesture"
	"candlescope/internal/journal"
	"candlescope/internal/measure"
	"candlescope/internal/model"
	"candlescope/internal/surface"
	"candlescope/internal/tools"
	"candlescope/pkg/colorutil"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var log = logrus.WithField("component", "session")

// Options configures a Session.
type Options struct {
	Config  *config.Config
	Source  feed.Source
	Journal journal.Recorder

	// Scheduler defaults to a wall-clock scheduler dispatching through Do.
	Scheduler gesture.Scheduler
	Haptics   gesture.Haptics

	Width, Height float64
}

// Session owns one chart: the series, the plot, the controllers and the
// live feed. Every mutation runs under Do, so feed ticks, timers and
// pointer events never interleave.
type Session struct {
	mu    sync.Mutex
	state *State
	cfg   *config.Config

	source  feed.Source
	journal journal.Recorder

	series *model.Series
	plot   *surface.Plot

	board       *tools.Switchboard
	zoomPan     *tools.ZoomPan
	crosshair   *crosshair.Controller
	cursor      *crosshair.Cursor
	measurement *measure.Controller
	selection   *measure.Controller
	drawing     *drawing.Controller

	latestLine   *surface.Line
	latestMarker *surface.AxisMarker
	latest       *surface.Group

	// events raised under mu, emitted by Do after unlocking
	pending []func()

	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewSession wires the controllers onto a fresh plot. No data is loaded
// until Load.
func NewSession(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	if opts.Source == nil {
		opts.Source = feed.NewRandom(0)
	}
	if opts.Journal == nil {
		opts.Journal = journal.NoopRecorder{}
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1000, 600
	}

	symbol := strings.ToUpper(cfg.Feed.Symbol)
	s := &Session{
		state:   NewState(symbol, cfg.IntervalValue()),
		cfg:     cfg,
		source:  opts.Source,
		journal: opts.Journal,
		series:  model.NewSeries(symbol, nil),
		plot:    surface.NewPlot(opts.Width, opts.Height),
	}

	sched := opts.Scheduler
	if sched == nil {
		sched = gesture.RealScheduler{Dispatch: func(f func()) { s.Do(f) }}
	}
	gcfg := gesture.Config{Delay: cfg.LongPress(), MoveThreshold: cfg.Chart.MoveThresholdPx}
	if gcfg.Delay <= 0 {
		gcfg.Delay = gesture.DefaultDelay
	}

	s.zoomPan = tools.NewZoomPan(s.plot)
	s.crosshair = crosshair.New(s.plot, sched, crosshair.Options{
		Gesture:   gcfg,
		HitRadius: cfg.Chart.HitRadiusPx,
		Haptics:   opts.Haptics,
		Pan:       s.zoomPan,
		OnOHLC:    s.showOHLC,
	})
	s.cursor = crosshair.NewCursor(s.plot, cfg.Chart.HitRadiusPx, s.showOHLC)
	mopts := measure.Options{
		Gesture:       gcfg,
		Haptics:       opts.Haptics,
		Pan:           s.zoomPan,
		DeleteRadius:  cfg.Chart.DeleteHitRadiusPx,
		TapThreshold:  cfg.Chart.TapThresholdPx,
		TooltipWidth:  cfg.Chart.TooltipWidth,
		TooltipHeight: cfg.Chart.TooltipHeight,
		OnCommit:      s.recordResult,
	}
	mopts.Variant = measure.Measurement
	s.measurement = measure.New(s.plot, sched, mopts)
	mopts.Variant = measure.Selection
	s.selection = measure.New(s.plot, sched, mopts)
	s.drawing = drawing.New(s.plot, drawing.DefaultHitRadius)

	platform := tools.Desktop
	if cfg.Mobile() {
		platform = tools.Mobile
	}
	s.board = tools.NewSwitchboard(platform, tools.Set{
		ZoomPan:     s.zoomPan,
		Crosshair:   s.crosshair,
		Measurement: s.measurement,
		Selection:   s.selection,
		Drawing:     s.drawing,
		Cursor:      s.cursor,
	})

	s.latestLine = surface.NewLine(colorutil.Bullish)
	s.latestLine.XMode, s.latestLine.X1, s.latestLine.X2 = surface.Relative, 0, 1
	s.latestLine.Dashed = true
	s.latestMarker = surface.NewAxisMarker(surface.AxisY, surface.EdgeNone, colorutil.Bullish, colorutil.White)
	s.latest = surface.NewGroup(s.latestLine, s.latestMarker)
	s.latest.SetHidden(true)
	s.latest.Attach(s.plot.Collection())
	return s
}

// State returns the observable session state.
func (s *Session) State() *State { return s.state }

// Do runs f with exclusive access to the session and then requests a redraw.
// Events raised by f reach listeners after the lock is released, so a
// listener may call back into the session.
func (s *Session) Do(f func()) {
	s.mu.Lock()
	f()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, emit := range pending {
		emit()
	}
	s.state.Emit(EventRedraw, nil)
}

// post queues an event until the current Do returns. Callers hold mu.
func (s *Session) post(event EventType, data interface{}) {
	s.pending = append(s.pending, func() { s.state.Emit(event, data) })
}

// View runs f with read access to the plot for rendering.
func (s *Session) View(f func(p *surface.Plot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.plot)
}

// Plot returns the plot. Callers outside Do or View must not mutate it.
func (s *Session) Plot() *surface.Plot { return s.plot }

// Switchboard returns the tool switchboard.
func (s *Session) Switchboard() *tools.Switchboard { return s.board }

// Load fetches a snapshot for symbol/interval, replaces the series and
// restarts the live stream. Transient controller state is torn down.
func (s *Session) Load(ctx context.Context, symbol string, interval model.Interval) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return errors.New("empty symbol")
	}
	s.stopStream()

	history := s.cfg.Feed.History
	if history <= 0 {
		history = feed.DefaultHistory
	}
	bars, err := s.source.Snapshot(ctx, symbol, interval, history)
	if err != nil {
		s.state.SetFeedStatus("error")
		return errors.Wrapf(err, "load %s %s", symbol, interval)
	}
	log.WithFields(logrus.Fields{"symbol": symbol, "interval": interval, "bars": len(bars)}).Info("series loaded")

	s.Do(func() {
		s.gen++
		s.board.Detach()
		s.board.SetTool(s.board.Tool().String())
		s.series.Replace(symbol, bars)
		s.plot.SetSeries(s.series)
		s.refreshLatest()
		s.showOHLC(nil)
	})
	s.state.setInstrument(symbol, interval)
	s.state.Emit(EventSeriesLoaded, len(bars))
	return nil
}

// Start streams live bars for the current instrument until Close or the
// next Load.
func (s *Session) Start(ctx context.Context) {
	symbol, interval := s.state.Instrument()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	gen := s.gen
	s.mu.Unlock()

	out := make(chan model.PriceBar, 64)
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		defer close(out)
		s.state.SetFeedStatus("live")
		if err := s.source.Stream(ctx, symbol, interval, out); err != nil {
			log.WithError(err).Warnf("%s stream stopped", s.source.Name())
			s.state.SetFeedStatus("disconnected")
		}
	}()
	go func() {
		defer s.wg.Done()
		for bar := range out {
			if ctx.Err() != nil {
				continue
			}
			s.Do(func() {
				if s.gen == gen {
					s.applyBar(bar)
				}
			})
		}
	}()
}

func (s *Session) stopStream() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// ApplyBar feeds one streaming update into the series.
func (s *Session) ApplyBar(bar model.PriceBar) {
	s.Do(func() { s.applyBar(bar) })
}

func (s *Session) applyBar(bar model.PriceBar) {
	prevLast, hadLast := s.series.Last()
	if s.series.Apply(bar) && hadLast {
		s.plot.Follow(prevLast.X())
	} else if s.plot.Ready() {
		s.plot.Refresh()
	} else {
		s.plot.SetSeries(s.series)
	}
	s.refreshLatest()
	s.post(EventBarUpdated, bar)
}

// refreshLatest moves the latest-price line and marker to the last close.
func (s *Session) refreshLatest() {
	last, ok := s.series.Last()
	if !ok {
		s.latest.SetHidden(true)
		return
	}
	col := colorutil.Bullish
	if last.Close <= last.Open {
		col = colorutil.Bearish
	}
	s.latestLine.Y1, s.latestLine.Y2, s.latestLine.Stroke = last.Close, last.Close, col
	s.latestMarker.Value, s.latestMarker.Text = last.Close, format.Price(last.Close)
	s.latestMarker.Background = col
	s.latest.SetHidden(false)
}

// LatestPrice returns the latest-price line.
func (s *Session) LatestPrice() (*surface.Line, *surface.AxisMarker) {
	return s.latestLine, s.latestMarker
}

// showOHLC renders the legend for o, or for the last bar when o is nil.
func (s *Session) showOHLC(o *crosshair.OHLC) {
	if o == nil {
		last, ok := s.series.Last()
		if !ok {
			s.postLegend(s.series.Name())
			return
		}
		o = &crosshair.OHLC{Name: s.series.Name(), Time: last.X(), Open: last.Open, High: last.High, Low: last.Low, Close: last.Close}
	}
	s.postLegend(o.Name + "  " + format.Legend(o.Open, o.High, o.Low, o.Close))
}

func (s *Session) postLegend(text string) {
	s.pending = append(s.pending, func() { s.state.SetLegend(text) })
}

func (s *Session) recordResult(r measure.Result) {
	symbol, interval := s.state.Instrument()
	if err := s.journal.Record(journal.FromResult(symbol, interval, r)); err != nil {
		log.WithError(err).Warn("journal record failed")
	}
	s.post(EventMeasurementCommitted, r)
}

// SetTool switches the interaction mode.
func (s *Session) SetTool(name string) tools.Tool {
	var t tools.Tool
	s.Do(func() { t = s.board.SetTool(name) })
	s.state.SetTool(t)
	return t
}

// ToggleCursor switches the desktop hover cursor.
func (s *Session) ToggleCursor(on bool) bool {
	var got bool
	s.Do(func() { got = s.board.ToggleCursor(on) })
	s.state.SetCursor(got)
	return got
}

// AddLine places a line annotation in the middle of the viewport.
func (s *Session) AddLine() {
	s.Do(func() { s.drawing.AddLine() })
}

// AddBox places a box annotation in the middle of the viewport.
func (s *Session) AddBox() {
	s.Do(func() { s.drawing.AddBox() })
}

// DeleteSelected removes the selected drawn annotations.
func (s *Session) DeleteSelected() int {
	var n int
	s.Do(func() { n = s.drawing.DeleteSelected() })
	return n
}

// Measurements returns the committed measurement groups.
func (s *Session) Measurements() []*measure.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.measurement.Groups()
}

// ClearMeasurements deletes every committed measurement and returns how
// many were removed.
func (s *Session) ClearMeasurements() int {
	n := 0
	s.Do(func() {
		for _, g := range s.measurement.Groups() {
			if s.measurement.DeleteGroup(g.ID()) {
				n++
			}
		}
	})
	return n
}

// SetAutoFitY toggles fitting the price axis to the visible bars.
func (s *Session) SetAutoFitY(auto bool) {
	s.Do(func() { s.plot.SetAutoFitY(auto) })
}

// RecentMeasurements returns up to limit journaled measurements for the
// current symbol, newest first.
func (s *Session) RecentMeasurements(limit int) ([]journal.Entry, error) {
	symbol, _ := s.state.Instrument()
	entries, err := s.journal.Recent(symbol, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "recent measurements for %s", symbol)
	}
	return entries, nil
}

// PointerDown routes a press to the armed controllers.
func (s *Session) PointerDown(p gesture.Pointer) {
	s.Do(func() { s.board.PointerDown(p) })
}

// PointerMove routes a move to the armed controllers.
func (s *Session) PointerMove(p gesture.Pointer) {
	s.Do(func() { s.board.PointerMove(p) })
}

// PointerUp routes a release to the armed controllers.
func (s *Session) PointerUp(p gesture.Pointer) {
	s.Do(func() { s.board.PointerUp(p) })
}

// PointerLeave routes a leave to the armed controllers.
func (s *Session) PointerLeave(p gesture.Pointer) {
	s.Do(func() { s.board.PointerLeave(p) })
}

// Scroll zooms around the pointer's X.
func (s *Session) Scroll(px, dy float64) {
	s.Do(func() { s.board.Scroll(px, dy) })
}

// Resize updates the plot size in pixels.
func (s *Session) Resize(width, height float64) {
	s.Do(func() { s.plot.Resize(width, height) })
}

// Close stops the feed, tears the controllers down and closes the journal.
// Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.stopStream()

	s.Do(func() {
		s.board.Detach()
		s.latest.Detach()
		s.plot.Collection().Clear()
	})
	var err error
	if c, ok := s.source.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	err = multierr.Append(err, s.journal.Close())
	if err != nil {
		log.WithError(err).Warn("session closed with errors")
	}
	return err
}
