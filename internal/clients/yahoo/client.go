// Package yahoo downloads daily price history from the Yahoo Finance CSV
// endpoint and turns it into return series.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aristath/frontier/internal/dateutil"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the Yahoo Finance v7 download endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v7/finance/download"

// ErrFetchFailed marks a download that did not produce a usable response.
var ErrFetchFailed = errors.New("yahoo: fetch failed")

// FetchError describes a failed download for one symbol.
type FetchError struct {
	Symbol     string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("yahoo: fetch %s: status %d", e.Symbol, e.StatusCode)
	}
	return fmt.Sprintf("yahoo: fetch %s: %v", e.Symbol, e.Err)
}

// Unwrap returns both ErrFetchFailed and the underlying cause.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetchFailed}
	}
	return []error{ErrFetchFailed, e.Err}
}

// Client for the Yahoo Finance history download endpoint.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
	group   singleflight.Group
}

// NewClient creates a new Yahoo Finance client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// GetHistory downloads daily bars for symbol between start and end.
// Concurrent calls for the same symbol and range share one request. The shared
// request is detached from the callers' cancellation and bounded by the client
// timeout; each caller still returns as soon as its own ctx is done.
func (c *Client) GetHistory(ctx context.Context, symbol string, start, end time.Time) (*StockData, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}

	key := fmt.Sprintf("%s:%d:%d", symbol, dateutil.ToUnix(start), dateutil.ToUnix(end))
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx), symbol, start, end)
	})

	select {
	case <-ctx.Done():
		return nil, &FetchError{Symbol: symbol, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log.Debug().Str("symbol", symbol).Msg("Shared in-flight download")
		}
		return res.Val.(*StockData), nil
	}
}

func (c *Client) fetch(ctx context.Context, symbol string, start, end time.Time) (*StockData, error) {
	q := url.Values{}
	q.Set("period1", fmt.Sprint(dateutil.ToUnix(start)))
	q.Set("period2", fmt.Sprint(dateutil.ToUnix(end)))
	q.Set("interval", "1d")
	q.Set("events", "history")
	q.Set("includeAdjustedClose", "true")
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

	c.log.Debug().Str("url", reqURL).Msg("Fetching history")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Symbol: symbol, StatusCode: resp.StatusCode}
	}

	data, err := ParseCSV(symbol, resp.Body)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}

	c.log.Info().
		Str("symbol", symbol).
		Int("rows", data.Len()).
		Msg("Fetched history")

	return data, nil
}

// GetReturns downloads every symbol in parallel and returns adjusted-close
// returns over the dates present in every history, so index i covers the same
// period in every series. A date missing for one symbol (for example a null
// row) is dropped for all of them.
func (c *Client) GetReturns(ctx context.Context, symbols []string, start, end time.Time) (map[string][]float64, error) {
	return c.GetColumnReturns(ctx, symbols, start, end, AdjClose)
}

// GetColumnReturns is GetReturns for an arbitrary price column.
func (c *Client) GetColumnReturns(ctx context.Context, symbols []string, start, end time.Time, column Column) (map[string][]float64, error) {
	histories := make([]*StockData, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		g.Go(func() error {
			data, err := c.GetHistory(gctx, symbol, start, end)
			if err != nil {
				return err
			}
			histories[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dates := CommonDates(histories...)
	if len(dates) < 2 {
		return nil, fmt.Errorf("yahoo: %d dates shared by %d symbols, need at least 2", len(dates), len(symbols))
	}

	returns := make(map[string][]float64, len(symbols))
	for i, symbol := range symbols {
		if dropped := histories[i].Len() - len(dates); dropped > 0 {
			c.log.Debug().
				Str("symbol", symbol).
				Int("dropped", dropped).
				Msg("Dropped dates not shared by every symbol")
		}
		prices, err := histories[i].SeriesAt(column, dates)
		if err != nil {
			return nil, err
		}
		r, err := simpleReturns(symbol, column, dates, prices)
		if err != nil {
			return nil, err
		}
		returns[symbol] = r
	}
	return returns, nil
}
