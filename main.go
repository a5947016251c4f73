// Package main provides the entry point for the Candlescope chart application.
package main

import (
	"context"
	"os"

	"candlescope/internal/app"
	"candlescope/internal/config"
	"candlescope/internal/feed"
	"candlescope/internal/journal"
	"candlescope/internal/logging"
	"candlescope/internal/version"
	"candlescope/ui/mainwindow"
	"candlescope/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.WithField("component", "main")

type flags struct {
	config   string
	symbol   string
	interval string
	source   string
	mobile   bool
}

func main() {
	var f flags
	root := &cobra.Command{
		Use:           "candlescope",
		Short:         "Live candlestick charts with crosshair, measurement and selection tools",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}
	root.Flags().StringVarP(&f.config, "config", "c", "candlescope.yaml", "config file (YAML)")
	root.Flags().StringVar(&f.symbol, "symbol", "", "instrument symbol, e.g. BTCUSDT")
	root.Flags().StringVar(&f.interval, "interval", "", "bar interval: 1m, 5m, 15m, 1h, 4h, 1d")
	root.Flags().StringVar(&f.source, "source", "", "data source: random or binance")
	root.Flags().BoolVar(&f.mobile, "mobile", false, "use touch interaction semantics")

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("candlescope failed")
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	p := prefs.Load()

	// the last instrument viewed wins over the file unless a flag names one
	cfg.Feed.Symbol = p.StringWithFallback(prefs.KeySymbol, cfg.Feed.Symbol)
	cfg.Feed.Interval = p.StringWithFallback(prefs.KeyInterval, cfg.Feed.Interval)
	if f.symbol != "" {
		cfg.Feed.Symbol = f.symbol
	}
	if f.interval != "" {
		cfg.Feed.Interval = f.interval
	}
	if f.source != "" {
		cfg.Feed.Source = f.source
	}
	if f.mobile {
		cfg.Chart.Platform = "mobile"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCloser := logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	defer logCloser.Close()
	log.Infof("starting %s", version.String())

	source, err := feed.New(feed.Options{
		Source:      cfg.Feed.Source,
		RestBaseURL: cfg.Feed.RestBaseURL,
		WsBaseURL:   cfg.Feed.WsBaseURL,
	})
	if err != nil {
		return err
	}

	var recorder journal.Recorder = journal.NoopRecorder{}
	if cfg.Journal.SQLitePath != "" {
		rec, err := journal.NewSQLiteRecorder(cfg.Journal.SQLitePath)
		if err != nil {
			return err
		}
		recorder = rec
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fyneApp := fyneapp.NewWithID("io.candlescope")
	fyneApp.Settings().SetTheme(&app.ChartTheme{})

	session := app.NewSession(app.Options{
		Config:  cfg,
		Source:  source,
		Journal: recorder,
	})
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	win := mainwindow.New(ctx, fyneApp, session, p)
	win.Restore()

	go func() {
		symbol, interval := cfg.Feed.Symbol, cfg.IntervalValue()
		if err := session.Load(ctx, symbol, interval); err != nil {
			log.WithError(err).Errorf("initial load of %s %s", symbol, interval)
			session.State().SetFeedStatus("error")
			return
		}
		session.Start(ctx)
	}()

	win.ShowAndRun()
	return nil
}
