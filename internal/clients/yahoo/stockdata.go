package yahoo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/frontier/internal/dateutil"
)

// Column selects one price series of a StockData.
type Column int

const (
	Open Column = iota
	High
	Low
	Close
	AdjClose
	Volume
)

var columnNames = [...]string{"Open", "High", "Low", "Close", "Adj Close", "Volume"}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// ParseColumn maps a CSV header name (case-insensitive, "adjclose" accepted)
// to a Column.
func ParseColumn(name string) (Column, error) {
	norm := strings.ReplaceAll(strings.ToLower(name), " ", "")
	for i, n := range columnNames {
		if strings.ReplaceAll(strings.ToLower(n), " ", "") == norm {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("unknown price column %q", name)
}

// StockData is the daily history of one symbol, oldest first.
type StockData struct {
	Symbol   string
	Dates    []time.Time
	Open     []float64
	High     []float64
	Low      []float64
	Close    []float64
	AdjClose []float64
	Volume   []float64
}

// Len returns the number of rows.
func (s *StockData) Len() int { return len(s.Dates) }

// Series returns the values of one column.
func (s *StockData) Series(c Column) ([]float64, error) {
	switch c {
	case Open:
		return s.Open, nil
	case High:
		return s.High, nil
	case Low:
		return s.Low, nil
	case Close:
		return s.Close, nil
	case AdjClose:
		return s.AdjClose, nil
	case Volume:
		return s.Volume, nil
	}
	return nil, fmt.Errorf("unknown price column %d", int(c))
}

// Returns computes simple period returns (p_i - p_{i-1}) / p_{i-1} of a column.
func (s *StockData) Returns(c Column) ([]float64, error) {
	prices, err := s.Series(c)
	if err != nil {
		return nil, err
	}
	return simpleReturns(s.Symbol, c, s.Dates, prices)
}

// SeriesAt returns the column values on dates. Every date must be present in
// the history.
func (s *StockData) SeriesAt(c Column, dates []time.Time) ([]float64, error) {
	prices, err := s.Series(c)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(s.Dates))
	for i, d := range s.Dates {
		index[dateutil.Format(d)] = i
	}
	out := make([]float64, len(dates))
	for i, d := range dates {
		j, ok := index[dateutil.Format(d)]
		if !ok {
			return nil, fmt.Errorf("%s: no %s price on %s", s.Symbol, c, dateutil.Format(d))
		}
		out[i] = prices[j]
	}
	return out, nil
}

// CommonDates returns the dates present in every history, oldest first.
func CommonDates(histories ...*StockData) []time.Time {
	if len(histories) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, h := range histories {
		for _, d := range h.Dates {
			counts[dateutil.Format(d)]++
		}
	}
	var out []time.Time
	for _, d := range histories[0].Dates {
		if counts[dateutil.Format(d)] == len(histories) {
			out = append(out, d)
		}
	}
	return out
}

func simpleReturns(symbol string, c Column, dates []time.Time, prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("%s: need at least 2 prices for returns, got %d", symbol, len(prices))
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			return nil, fmt.Errorf("%s: zero %s price on %s", symbol, c, dateutil.Format(dates[i-1]))
		}
		out[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return out, nil
}

func (s *StockData) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Symbol)
	fmt.Fprintf(&b, "%-12s%12s%12s%12s%12s%12s%14s\n", "Date", "Open", "High", "Low", "Close", "Adj Close", "Volume")
	for i, d := range s.Dates {
		fmt.Fprintf(&b, "%-12s%12.4f%12.4f%12.4f%12.4f%12.4f%14.0f\n",
			dateutil.Format(d), s.Open[i], s.High[i], s.Low[i], s.Close[i], s.AdjClose[i], s.Volume[i])
	}
	return b.String()
}

// ParseCSV parses a Yahoo history download
// (Date,Open,High,Low,Close,Adj Close,Volume). The header row is skipped and
// rows containing "null" are dropped.
func ParseCSV(symbol string, r io.Reader) (*StockData, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 7
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty response", symbol)
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", symbol, err)
	}
	if !strings.EqualFold(strings.TrimPrefix(header[0], "\ufeff"), "Date") {
		return nil, fmt.Errorf("%s: unexpected header %v", symbol, header)
	}

	data := &StockData{Symbol: symbol}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read row: %w", symbol, err)
		}
		if hasNull(record) {
			continue
		}

		date, err := dateutil.Parse(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", symbol, err)
		}
		var vals [6]float64
		for i := range vals {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %s on %s: %w", symbol, Column(i), record[0], err)
			}
			vals[i] = v
		}

		data.Dates = append(data.Dates, date)
		data.Open = append(data.Open, vals[Open])
		data.High = append(data.High, vals[High])
		data.Low = append(data.Low, vals[Low])
		data.Close = append(data.Close, vals[Close])
		data.AdjClose = append(data.AdjClose, vals[AdjClose])
		data.Volume = append(data.Volume, vals[Volume])
	}
	return data, nil
}

func hasNull(record []string) bool {
	for _, f := range record {
		if f == "null" {
			return true
		}
	}
	return false
}
