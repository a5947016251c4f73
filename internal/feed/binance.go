package feed

import (
	"context"
	"strconv"
	"strings"
	"time"

	"candlescope/internal/model"

	binance "github.com/adshao/go-binance/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// DefaultWsBaseURL is Binance's public market stream endpoint.
const DefaultWsBaseURL = "wss://stream.binance.com:9443/ws"

const readTimeout = 60 * time.Second

// Binance reads klines over REST and the public websocket stream.
type Binance struct {
	client  *binance.Client
	wsBase  string
	dialer  *websocket.Dialer
	backoff func() backoff.BackOff
}

// NewBinance creates a client. Empty URLs use the production endpoints.
func NewBinance(restBase, wsBase string) *Binance {
	client := binance.NewClient("", "")
	if restBase != "" {
		client.BaseURL = restBase
	}
	if wsBase == "" {
		wsBase = DefaultWsBaseURL
	}
	return &Binance{
		client: client,
		wsBase: strings.TrimRight(wsBase, "/"),
		dialer: websocket.DefaultDialer,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Name implements Source.
func (b *Binance) Name() string { return "binance" }

// Snapshot implements Source.
func (b *Binance) Snapshot(ctx context.Context, symbol string, interval model.Interval, limit int) ([]model.PriceBar, error) {
	if limit <= 0 {
		limit = DefaultHistory
	}
	log.Infof("querying klines %s %s limit %d", symbol, interval, limit)

	resp, err := b.client.NewKlinesService().
		Symbol(strings.ToUpper(symbol)).
		Interval(string(interval)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "query klines %s %s", symbol, interval)
	}

	bars := make([]model.PriceBar, 0, len(resp))
	for _, k := range resp {
		bar, err := convertKline(k.OpenTime, k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "kline at %d", k.OpenTime)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// StreamURL returns the kline stream endpoint for symbol and interval.
func (b *Binance) StreamURL(symbol string, interval model.Interval) string {
	return b.wsBase + "/" + strings.ToLower(symbol) + "@kline_" + string(interval)
}

// Stream implements Source. It reconnects with exponential backoff until
// ctx is done.
func (b *Binance) Stream(ctx context.Context, symbol string, interval model.Interval, out chan<- model.PriceBar) error {
	url := b.StreamURL(symbol, interval)
	bo := b.backoff()

	op := func() error {
		err := b.readStream(ctx, url, bo, out)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.WithError(err).Warnf("stream %s disconnected, retrying in %s", url, wait)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (b *Binance) readStream(ctx context.Context, url string, bo backoff.BackOff, out chan<- model.PriceBar) error {
	conn, _, err := b.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return errors.Wrap(err, "dial")
	}
	defer conn.Close()
	log.Infof("websocket connected to %s", url)
	bo.Reset()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	var parser fastjson.Parser
	for {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return errors.Wrap(err, "set read deadline")
		}
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return errors.Wrap(err, "read")
		}
		if mt != websocket.TextMessage {
			continue
		}
		bar, ok, err := parseKlineEvent(&parser, message)
		if err != nil {
			log.WithError(err).Debug("skipping unparsable message")
			continue
		}
		if !ok {
			continue
		}
		select {
		case out <- bar:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// parseKlineEvent decodes a kline stream payload. ok is false for other
// event types.
func parseKlineEvent(p *fastjson.Parser, message []byte) (model.PriceBar, bool, error) {
	val, err := p.ParseBytes(message)
	if err != nil {
		return model.PriceBar{}, false, err
	}
	if string(val.GetStringBytes("e")) != "kline" {
		return model.PriceBar{}, false, nil
	}
	bar, err := convertKline(
		val.GetInt64("k", "t"),
		string(val.GetStringBytes("k", "o")),
		string(val.GetStringBytes("k", "h")),
		string(val.GetStringBytes("k", "l")),
		string(val.GetStringBytes("k", "c")),
		string(val.GetStringBytes("k", "v")),
	)
	if err != nil {
		return model.PriceBar{}, false, err
	}
	return bar, true, nil
}

func convertKline(openTime int64, open, high, low, close, volume string) (model.PriceBar, error) {
	var values [5]float64
	for i, s := range []string{open, high, low, close, volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.PriceBar{}, errors.Wrapf(err, "parse %q", s)
		}
		values[i] = v
	}
	return model.PriceBar{
		Time:   time.UnixMilli(openTime).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}
