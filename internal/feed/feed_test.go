package feed

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"candlescope/internal/model"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

const klineMessage = `{"e":"kline","E":1700000000123,"s":"BTCUSDT","k":{"t":1700000000000,"T":1700000059999,"s":"BTCUSDT","i":"1m","o":"100.5","c":"101.25","h":"102","l":"99.75","v":"12.5","x":false}}`

func TestParseKlineEvent(t *testing.T) {
	var p fastjson.Parser
	bar, ok, err := parseKlineEvent(&p, []byte(klineMessage))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), bar.Time)
	assert.Equal(t, 100.5, bar.Open)
	assert.Equal(t, 102.0, bar.High)
	assert.Equal(t, 99.75, bar.Low)
	assert.Equal(t, 101.25, bar.Close)
	assert.Equal(t, 12.5, bar.Volume)

	_, ok, err = parseKlineEvent(&p, []byte(`{"e":"trade"}`))
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = parseKlineEvent(&p, []byte(`{not json`))
	assert.Error(t, err)
}

func TestBinance_Snapshot(t *testing.T) {
	queries := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[1700000000000,"10","12","9","11","100",1700000059999,"0",1,"0","0","0"],
			[1700000060000,"11","13","10","12","200",1700000119999,"0",1,"0","0","0"]
		]`))
	}))
	defer srv.Close()

	b := NewBinance(srv.URL, "")
	bars, err := b.Snapshot(context.Background(), "btcusdt", model.Interval1m, 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 11.0, bars[0].Close)
	assert.Equal(t, 200.0, bars[1].Volume)
	gotQuery := <-queries
	assert.Contains(t, gotQuery, "/api/v3/klines")
	assert.Contains(t, gotQuery, "symbol=BTCUSDT")
	assert.Contains(t, gotQuery, "interval=1m")
}

func TestBinance_SnapshotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	_, err := NewBinance(srv.URL, "").Snapshot(context.Background(), "nope", model.Interval1m, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query klines")
}

func TestBinance_Stream(t *testing.T) {
	upgrader := websocket.Upgrader{}
	paths := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case paths <- r.URL.Path:
		default:
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"e":"24hrTicker"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(klineMessage))
		// hold the connection until the client goes away
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	b := NewBinance("", wsURL)
	assert.Equal(t, wsURL+"/btcusdt@kline_1m", b.StreamURL("BTCUSDT", model.Interval1m))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan model.PriceBar, 1)
	errc := make(chan error, 1)
	go func() { errc <- b.Stream(ctx, "BTCUSDT", model.Interval1m, out) }()

	select {
	case bar := <-out:
		assert.Equal(t, 101.25, bar.Close)
	case <-time.After(5 * time.Second):
		t.Fatal("no bar received")
	}
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop")
	}
	assert.Equal(t, "/btcusdt@kline_1m", <-paths)
}

func TestRandom_SnapshotAndStream(t *testing.T) {
	r := NewRandom(42)
	r.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 30, 0, time.UTC) }
	r.tick = time.Millisecond
	r.ticksPer = 2

	bars, err := r.Snapshot(context.Background(), "X", model.Interval1m, 300)
	require.NoError(t, err)
	require.Len(t, bars, 300)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), bars[299].Time)
	for i, b := range bars {
		assert.LessOrEqual(t, b.Low, math.Min(b.Open, b.Close), "bar %d", i)
		assert.GreaterOrEqual(t, b.High, math.Max(b.Open, b.Close), "bar %d", i)
		if i > 0 {
			assert.Equal(t, bars[i-1].Close, b.Open)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan model.PriceBar)
	go func() { _ = r.Stream(ctx, "X", model.Interval1m, out) }()
	first := <-out
	second := <-out
	cancel()

	assert.Equal(t, bars[299].Time, first.Time, "first tick updates the open bar")
	assert.Equal(t, bars[299].Time.Add(time.Minute), second.Time, "second tick opens a new bar")
}

func TestNew(t *testing.T) {
	s, err := New(Options{Source: "random"})
	require.NoError(t, err)
	assert.Equal(t, "random", s.Name())

	s, err = New(Options{Source: "Binance"})
	require.NoError(t, err)
	assert.Equal(t, "binance", s.Name())

	_, err = New(Options{Source: "ftx"})
	assert.Error(t, err)
}
