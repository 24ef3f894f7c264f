package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"BreakoutBoard/internal/model"
)

// CSVSource reads daily candle history from a local CSV file with a
// "datetime,open,high,low,close,volume" header. The volume column is
// optional. Dates are accepted as M/D/YYYY, YYYY-MM-DD, or RFC 3339.
type CSVSource struct {
	SourceName string
	Path       string
}

// NewCSVSource creates a CSV-file-backed source.
func NewCSVSource(name, path string) *CSVSource {
	return &CSVSource{SourceName: name, Path: path}
}

func (s *CSVSource) Name() string { return s.SourceName }

func (s *CSVSource) Candles() ([]model.Candle, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s data: %w", s.SourceName, err)
	}
	defer f.Close()
	return parseCandleCSV(f)
}

func (s *CSVSource) LatestPrice() (float64, error) {
	candles, err := s.Candles()
	if err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, fmt.Errorf("%s: no candles", s.SourceName)
	}
	return candles[len(candles)-1].Close, nil
}

func parseCandleCSV(r io.Reader) ([]model.Candle, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"datetime", "open", "high", "low", "close"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var out []model.Candle
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		ts, err := parseDate(record[col["datetime"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c := model.Candle{Time: ts}
		if c.Open, err = strconv.ParseFloat(record[col["open"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: open: %w", line, err)
		}
		if c.High, err = strconv.ParseFloat(record[col["high"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: high: %w", line, err)
		}
		if c.Low, err = strconv.ParseFloat(record[col["low"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: low: %w", line, err)
		}
		if c.Close, err = strconv.ParseFloat(record[col["close"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: close: %w", line, err)
		}
		if i, ok := col["volume"]; ok && i < len(record) && record[i] != "" {
			// A malformed volume is tolerated; the validator zeroes it.
			c.Volume, _ = strconv.ParseFloat(record[i], 64)
		}
		out = append(out, c)
	}
	return out, nil
}

var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	time.RFC3339,
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
