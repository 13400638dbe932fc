package optimization

import (
	"math"

	"github.com/aristath/frontier/internal/matrix"
	"gonum.org/v1/gonum/stat"
)

// CovarianceMatrix builds the sample covariance matrix of the given return
// series. Element (i,j) is the Bessel-corrected (n-1) covariance between
// tickers[i] and tickers[j]. Every ticker needs a series, all series must have
// the same length and at least two observations.
func CovarianceMatrix(tickers []string, history map[string][]float64) (*matrix.Dense, error) {
	if len(tickers) == 0 {
		return nil, invalidInput("no tickers provided")
	}

	var length int
	for i, ticker := range tickers {
		series, ok := history[ticker]
		if !ok {
			return nil, invalidInput("missing return series for %s", ticker)
		}
		if i == 0 {
			length = len(series)
		}
		if len(series) != length {
			return nil, invalidInput("inconsistent series lengths: %s has %d, expected %d", ticker, len(series), length)
		}
		if !allFinite(series) {
			return nil, invalidInput("return series for %s contains NaN or Inf", ticker)
		}
	}
	if length < 2 {
		return nil, invalidInput("need at least 2 observations, got %d", length)
	}

	n := len(tickers)
	cov, err := matrix.New(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := stat.Covariance(history[tickers[i]], history[tickers[j]], nil)
			_ = cov.Set(i, j, c)
			if i != j {
				_ = cov.Set(j, i, c)
			}
		}
	}
	return cov, nil
}

// Annualize scales a per-period covariance matrix by the number of periods per year.
func Annualize(cov *matrix.Dense, periodsPerYear int) *matrix.Dense {
	return cov.Scale(float64(periodsPerYear))
}

// AnnualizedMeanReturns returns the arithmetic mean of each ticker's series
// scaled by periodsPerYear, ordered like tickers.
func AnnualizedMeanReturns(tickers []string, history map[string][]float64, periodsPerYear int) ([]float64, error) {
	out := make([]float64, len(tickers))
	for i, ticker := range tickers {
		series, ok := history[ticker]
		if !ok || len(series) == 0 {
			return nil, invalidInput("missing return series for %s", ticker)
		}
		out[i] = stat.Mean(series, nil) * float64(periodsPerYear)
	}
	return out, nil
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
