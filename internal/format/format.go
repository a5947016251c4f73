// Package format renders prices, times, volumes and stats as display text.
package format

import (
	"fmt"
	"math"
	"time"

	"candlescope/internal/model"
	"candlescope/internal/stats"

	"github.com/dustin/go-humanize"
)

// Price formats a price with thousands grouping and two decimals.
func Price(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return humanize.FormatFloat("#,###.##", v)
}

// Date formats an X axis value (unix seconds) as a UTC timestamp.
func Date(x float64) string {
	return model.XToTime(x).Format("2006-01-02 15:04")
}

// Volume abbreviates a volume with K/M/B suffixes.
func Volume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	}
	return fmt.Sprintf("%.0f", v)
}

// Duration formats a span in days, hours or minutes.
func Duration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	case d >= time.Hour:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.0fm", d.Minutes())
}

// Signed prefixes non-negative values with "+".
func Signed(v float64, decimals int) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.*f", sign, decimals, v)
}

// Change renders "+2.000 (+20.00%)".
func Change(change, percent float64) string {
	return fmt.Sprintf("%s (%s%%)", Signed(change, 3), Signed(percent, 2))
}

// MeasurementLines is the compact tooltip shown on a measurement box.
func MeasurementLines(s *stats.Stats) []string {
	bars := "bars"
	if s.Count == 1 {
		bars = "bar"
	}
	return []string{
		Change(s.Change, s.ChangePercent),
		fmt.Sprintf("%d %s, %s", s.Count, bars, Duration(s.Duration)),
		"Vol " + Volume(s.Volume),
	}
}

// SelectionLines is the detailed tooltip shown for a selection.
func SelectionLines(s *stats.Stats) []string {
	return []string{
		fmt.Sprintf("Range: %s - %s", Price(s.MinLow), Price(s.MaxHigh)),
		"Avg: " + Price(s.Avg),
		fmt.Sprintf("Change: %.2f (%.2f%%)", s.Change, s.ChangePercent),
		fmt.Sprintf("Bars: %d | Vol: %s", s.Count, Volume(s.Volume)),
		"Time: " + Duration(s.Duration),
	}
}

// Legend renders "O 1.00 H 2.00 L 0.50 C 1.50 +0.50 (+50.00%)".
func Legend(open, high, low, close float64) string {
	change := close - open
	pct := 0.0
	if open != 0 {
		pct = change / open * 100
	}
	return fmt.Sprintf("O %s  H %s  L %s  C %s  %s (%s%%)",
		Price(open), Price(high), Price(low), Price(close), Signed(change, 2), Signed(pct, 2))
}
