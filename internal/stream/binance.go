// Package stream delivers live candle updates from the Binance WebSocket
// kline feed. The core never initiates network calls itself; this package
// is the external event source appending/replacing the most recent
// in-progress candle.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"BreakoutBoard/internal/model"
)

const defaultWSBaseURL = "wss://stream.binance.com:9443/ws"

// Handler receives every kline update. closed reports whether the period
// is finalized.
type Handler func(c model.Candle, closed bool)

// BinanceStream subscribes to one symbol/interval kline stream and
// reconnects automatically with capped backoff.
type BinanceStream struct {
	BaseURL  string
	Symbol   string // e.g. "BTCUSDT"
	Interval string // e.g. "1m", "1d"
}

func NewBinanceStream(symbol, interval string) *BinanceStream {
	return &BinanceStream{
		BaseURL:  defaultWSBaseURL,
		Symbol:   symbol,
		Interval: interval,
	}
}

// Run blocks until the context is cancelled, invoking handler for every
// kline update.
func (s *BinanceStream) Run(ctx context.Context, handler Handler) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		err := s.connectAndRead(ctx, handler)
		if err == nil || ctx.Err() != nil {
			return
		}
		log.Printf("[WARN] binance stream %s/%s: %v, reconnecting in %v",
			s.Symbol, s.Interval, err, backoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

// connectAndRead maintains a single WebSocket session until the context is
// cancelled or the connection fails.
func (s *BinanceStream) connectAndRead(ctx context.Context, handler Handler) error {
	streamName := strings.ToLower(s.Symbol) + "@kline_" + s.Interval
	u := s.BaseURL + "/" + streamName

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	log.Printf("[INFO] binance stream connected: %s", streamName)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		c, closed, err := parseKlineEvent(msg)
		if err != nil {
			log.Printf("[WARN] binance stream %s: %v", streamName, err)
			continue
		}
		handler(c, closed)
	}
}

// klineEvent is the Binance kline stream message envelope.
type klineEvent struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Kline     struct {
		OpenTime int64  `json:"t"`
		Open     string `json:"o"`
		High     string `json:"h"`
		Low      string `json:"l"`
		Close    string `json:"c"`
		Volume   string `json:"v"`
		IsClosed bool   `json:"x"`
	} `json:"k"`
}

func parseKlineEvent(msg []byte) (model.Candle, bool, error) {
	var ev klineEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		return model.Candle{}, false, fmt.Errorf("parse kline event: %w", err)
	}
	if ev.EventType != "kline" {
		return model.Candle{}, false, fmt.Errorf("unexpected event type %q", ev.EventType)
	}

	c := model.Candle{Time: time.UnixMilli(ev.Kline.OpenTime).UTC()}
	for _, f := range []struct {
		dst *float64
		src string
	}{
		{&c.Open, ev.Kline.Open},
		{&c.High, ev.Kline.High},
		{&c.Low, ev.Kline.Low},
		{&c.Close, ev.Kline.Close},
		{&c.Volume, ev.Kline.Volume},
	} {
		v, err := strconv.ParseFloat(f.src, 64)
		if err != nil {
			return model.Candle{}, false, fmt.Errorf("parse kline field: %w", err)
		}
		*f.dst = v
	}
	return c, ev.Kline.IsClosed, nil
}
