// Package feed provides price bars: a REST snapshot for the initial series
// and a stream of live bar updates.
package feed

import (
	"context"
	"fmt"
	"strings"

	"candlescope/internal/model"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "feed")

// DefaultHistory is the number of bars requested for a snapshot.
const DefaultHistory = 500

// Source is a market data provider.
type Source interface {
	Name() string

	// Snapshot returns up to limit most recent bars, oldest first.
	Snapshot(ctx context.Context, symbol string, interval model.Interval, limit int) ([]model.PriceBar, error)

	// Stream sends bar updates to out until ctx is done. An update for the
	// currently open bar repeats its timestamp.
	Stream(ctx context.Context, symbol string, interval model.Interval, out chan<- model.PriceBar) error
}

// Options selects and configures a Source.
type Options struct {
	Source      string
	RestBaseURL string
	WsBaseURL   string
	Seed        int64
}

// New builds the named source.
func New(opts Options) (Source, error) {
	switch strings.ToLower(opts.Source) {
	case "", "random":
		return NewRandom(opts.Seed), nil
	case "binance":
		return NewBinance(opts.RestBaseURL, opts.WsBaseURL), nil
	}
	return nil, fmt.Errorf("unknown feed source %q", opts.Source)
}
