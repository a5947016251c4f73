// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"strings"

	"candlescope/internal/app"
	"candlescope/internal/format"
	"candlescope/internal/model"
	"candlescope/internal/tools"
	"candlescope/internal/version"
	"candlescope/ui/canvas"
	"candlescope/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "mainwindow")

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs
	ctx     context.Context

	canvas    *canvas.ChartCanvas
	legend    *widget.Label
	statusBar *widget.Label
	tools     *widget.RadioGroup
	cursor    *widget.Check
	interval  *widget.Select
	symbol    *widget.Entry
}

// New creates a new main window.
func New(ctx context.Context, fyneApp fyne.App, session *app.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Candlescope")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
		ctx:     ctx,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWidth, 1100)),
		float32(p.FloatWithFallback(prefs.KeyHeight, 700)),
	))

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewChartCanvas(mw.session)
	mw.canvas.OnDelete(mw.onDeleteSelected)

	mw.legend = widget.NewLabel("")
	mw.legend.TextStyle = fyne.TextStyle{Monospace: true}
	mw.statusBar = widget.NewLabel("Ready")

	content := container.NewBorder(
		container.NewVBox(mw.createToolbar(), mw.legend), // top
		container.NewPadded(mw.statusBar),                // bottom
		nil,                                              // left
		nil,                                              // right
		mw.canvas,                                        // center
	)
	mw.SetContent(content)
}

// createToolbar creates the tool selector, drawing buttons and instrument controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	names := make([]string, len(tools.Tools))
	for i, t := range tools.Tools {
		names[i] = toolLabel(t)
	}
	mw.tools = widget.NewRadioGroup(names, func(label string) {
		mw.onSelectTool(toolFromLabel(label))
	})
	mw.tools.Horizontal = true
	mw.tools.Required = true

	mw.cursor = widget.NewCheck("Cursor", mw.onToggleCursor)
	if mw.session.Switchboard().Platform() != tools.Desktop {
		mw.cursor.Disable()
	}

	lineBtn := widget.NewButton("Line", func() { mw.session.AddLine() })
	boxBtn := widget.NewButton("Box", func() { mw.session.AddBox() })
	deleteBtn := widget.NewButton("Delete", mw.onDeleteSelected)

	symbol, interval := mw.session.State().Instrument()
	mw.symbol = widget.NewEntry()
	mw.symbol.SetText(symbol)
	mw.symbol.OnSubmitted = func(string) { mw.reload() }

	labels := make([]string, len(model.Intervals))
	for i, iv := range model.Intervals {
		labels[i] = iv.Label()
	}
	mw.interval = widget.NewSelect(labels, func(string) { mw.reload() })
	mw.interval.Selected = interval.Label()

	return container.NewHBox(
		mw.tools,
		widget.NewSeparator(),
		mw.cursor,
		lineBtn,
		boxBtn,
		deleteBtn,
		widget.NewSeparator(),
		container.NewGridWrap(fyne.NewSize(110, mw.symbol.MinSize().Height), mw.symbol),
		mw.interval,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	chartMenu := fyne.NewMenu("Chart",
		fyne.NewMenuItem("Reload", mw.reload),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Line", func() { mw.session.AddLine() }),
		fyne.NewMenuItem("Add Box", func() { mw.session.AddBox() }),
		fyne.NewMenuItem("Delete Selected", mw.onDeleteSelected),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Measurements", mw.onClearMeasurements),
		fyne.NewMenuItem("Recent Measurements...", mw.onRecentMeasurements),
	)

	autoFit := fyne.NewMenuItem("Auto-fit Price Axis", nil)
	autoFit.Checked = true
	autoFit.Action = func() {
		autoFit.Checked = !autoFit.Checked
		mw.session.SetAutoFitY(autoFit.Checked)
		mw.MainMenu().Refresh()
	}
	viewMenu := fyne.NewMenu("View", autoFit)

	toolItems := make([]*fyne.MenuItem, len(tools.Tools))
	for i, t := range tools.Tools {
		t := t
		toolItems[i] = fyne.NewMenuItem(toolLabel(t), func() { mw.tools.SetSelected(toolLabel(t)) })
	}
	toolsMenu := fyne.NewMenu("Tools", toolItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(chartMenu, viewMenu, toolsMenu, helpMenu))
}

// setupEventHandlers mirrors session state into the widgets.
func (mw *MainWindow) setupEventHandlers() {
	state := mw.session.State()
	state.On(app.EventLegendChanged, func(data interface{}) {
		if text, ok := data.(string); ok {
			mw.legend.SetText(text)
		}
	})
	state.On(app.EventFeedStatus, func(data interface{}) {
		symbol, interval := state.Instrument()
		mw.statusBar.SetText(fmt.Sprintf("%s %s  %v", symbol, interval.Label(), data))
	})
	state.On(app.EventMeasurementCommitted, func(interface{}) {
		mw.statusBar.SetText(fmt.Sprintf("%d measurement(s)", len(mw.session.Measurements())))
	})

	mw.SetOnClosed(func() {
		size := mw.Canvas().Size()
		mw.prefs.SetFloat(prefs.KeyWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyHeight, float64(size.Height))
		mw.SavePreferences()
	})
}

// Restore applies the saved tool and cursor choice.
func (mw *MainWindow) Restore() {
	tool := tools.ParseTool(mw.prefs.StringWithFallback(prefs.KeyTool, tools.Pan.String()))
	mw.tools.SetSelected(toolLabel(tool))
	mw.cursor.SetChecked(mw.prefs.Bool(prefs.KeyCursor, false))
}

// SavePreferences writes preferences if anything changed.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.SaveIfChanged(); err != nil {
		log.WithError(err).Warn("save preferences")
	}
}

func (mw *MainWindow) onSelectTool(t tools.Tool) {
	got := mw.session.SetTool(t.String())
	mw.prefs.SetString(prefs.KeyTool, got.String())
	mw.statusBar.SetText("Tool: " + toolLabel(got))
}

func (mw *MainWindow) onToggleCursor(on bool) {
	got := mw.session.ToggleCursor(on)
	mw.prefs.SetBool(prefs.KeyCursor, got)
}

func (mw *MainWindow) onDeleteSelected() {
	if n := mw.session.DeleteSelected(); n > 0 {
		mw.statusBar.SetText(fmt.Sprintf("Deleted %d annotation(s)", n))
	}
}

func (mw *MainWindow) onClearMeasurements() {
	n := mw.session.ClearMeasurements()
	mw.statusBar.SetText(fmt.Sprintf("Cleared %d measurement(s)", n))
}

func (mw *MainWindow) onRecentMeasurements() {
	entries, err := mw.session.RecentMeasurements(20)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if len(entries) == 0 {
		dialog.ShowInformation("Recent Measurements", "Nothing recorded for this symbol.", mw.Window)
		return
	}
	list := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.TextStyle = fyne.TextStyle{Monospace: true}
			return l
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			e := entries[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  %-11s %s  %d bars  %s",
				e.RecordedAt.Format("01-02 15:04"), e.Kind, e.Interval.Label(), e.Bars,
				format.Change(e.Change, e.ChangePercent)))
		},
	)
	d := dialog.NewCustom("Recent Measurements", "Close", container.NewGridWrap(fyne.NewSize(520, 320), list), mw.Window)
	d.Show()
}

// reload replaces the series for the symbol and timeframe in the toolbar.
func (mw *MainWindow) reload() {
	symbol := strings.ToUpper(strings.TrimSpace(mw.symbol.Text))
	interval, err := model.ParseInterval(mw.interval.Selected)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.statusBar.SetText(fmt.Sprintf("Loading %s %s...", symbol, interval.Label()))
	go func() {
		if err := mw.session.Load(mw.ctx, symbol, interval); err != nil {
			log.WithError(err).Warn("reload failed")
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.session.Start(mw.ctx)
		mw.prefs.SetString(prefs.KeySymbol, symbol)
		mw.prefs.SetString(prefs.KeyInterval, string(interval))
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About", version.String(), mw.Window)
}

func toolLabel(t tools.Tool) string {
	s := t.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func toolFromLabel(label string) tools.Tool {
	return tools.ParseTool(strings.ToLower(label))
}
