package source

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"BreakoutBoard/internal/model"
)

const (
	binanceKlineLimit = 1000
	binanceInterval   = "1d"
)

// BinanceSource fetches daily klines from the Binance public REST API,
// paginating until the requested range is covered.
type BinanceSource struct {
	Client  *http.Client
	BaseURL string
	Symbol  string // e.g. "BTCUSDT"
	Start   time.Time
}

// NewBinanceSource creates a Binance REST source fetching history from
// start onward.
func NewBinanceSource(symbol string, start time.Time, proxyURL string) *BinanceSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceSource{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://api.binance.com",
		Symbol:  symbol,
		Start:   start,
	}
}

func (s *BinanceSource) Name() string { return "binance" }

func (s *BinanceSource) Candles() ([]model.Candle, error) {
	startMs := s.Start.UnixMilli()
	endMs := time.Now().UnixMilli()

	var out []model.Candle
	for {
		batch, err := s.fetchBatch(startMs, endMs)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)

		// A short page means the range is exhausted.
		if len(batch) < binanceKlineLimit {
			break
		}
		startMs = batch[len(batch)-1].Time.UnixMilli() + 1
		if startMs > endMs {
			break
		}
	}
	return out, nil
}

func (s *BinanceSource) LatestPrice() (float64, error) {
	u := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=1",
		s.BaseURL, url.QueryEscape(s.Symbol), binanceInterval)
	candles, err := s.fetch(u)
	if err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, fmt.Errorf("binance: empty kline response")
	}
	return candles[len(candles)-1].Close, nil
}

func (s *BinanceSource) fetchBatch(startMs, endMs int64) ([]model.Candle, error) {
	u := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&startTime=%d&endTime=%d&limit=%d",
		s.BaseURL, url.QueryEscape(s.Symbol), binanceInterval, startMs, endMs, binanceKlineLimit)
	return s.fetch(u)
}

func (s *BinanceSource) fetch(u string) ([]model.Candle, error) {
	resp, err := s.Client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return parseKlines(body)
}

// parseKlines decodes the Binance kline array-of-arrays payload:
// [openTime, open, high, low, close, volume, closeTime, ...].
func parseKlines(body []byte) ([]model.Candle, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}

	out := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("binance kline row has %d fields", len(row))
		}
		var openTime int64
		if err := json.Unmarshal(row[0], &openTime); err != nil {
			return nil, fmt.Errorf("binance open time: %w", err)
		}
		c := model.Candle{Time: time.UnixMilli(openTime).UTC()}

		fields := []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume}
		for i, dst := range fields {
			var str string
			if err := json.Unmarshal(row[i+1], &str); err != nil {
				return nil, fmt.Errorf("binance kline field %d: %w", i+1, err)
			}
			v, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return nil, fmt.Errorf("binance kline field %d: %w", i+1, err)
			}
			*dst = v
		}
		out = append(out, c)
	}
	return out, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
