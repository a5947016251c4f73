// Package model holds the price bar series the chart reads from.
package model

import (
	"fmt"
	"strings"
	"time"
)

// PriceBar represents a single candlestick bar.
type PriceBar struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume float64   `json:"v"`
}

// X returns the bar's position on the time axis (unix seconds).
func (b PriceBar) X() float64 {
	return TimeToX(b.Time)
}

// Bearish reports whether the bar closed below its open.
func (b PriceBar) Bearish() bool {
	return b.Close < b.Open
}

// TimeToX converts a time to an X axis data value.
func TimeToX(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// XToTime converts an X axis data value back to a time.
func XToTime(x float64) time.Time {
	return time.Unix(0, int64(x*float64(time.Second))).UTC()
}

// Interval is a bar timeframe such as "1m" or "4h".
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

// Intervals lists the selectable timeframes in display order.
var Intervals = []Interval{Interval1m, Interval5m, Interval15m, Interval1h, Interval4h, Interval1d}

var intervalDurations = map[Interval]time.Duration{
	Interval1m:  time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval1h:  time.Hour,
	Interval4h:  4 * time.Hour,
	Interval1d:  24 * time.Hour,
}

// ParseInterval accepts the exchange spelling ("1h") and the toolbar label ("1H").
func ParseInterval(s string) (Interval, error) {
	iv := Interval(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := intervalDurations[iv]; !ok {
		return "", fmt.Errorf("unknown interval %q", s)
	}
	return iv, nil
}

// Duration returns the bar length.
func (i Interval) Duration() time.Duration {
	return intervalDurations[i]
}

// Label returns the toolbar label, e.g. "1H".
func (i Interval) Label() string {
	s := string(i)
	if strings.HasSuffix(s, "m") {
		return s
	}
	return strings.ToUpper(s)
}
