package optimization

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

// Result is the minimum-variance portfolio for one target return.
type Result struct {
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
	// Leverage is the sum of absolute weights, risk-free weight included.
	Leverage    float64            `json:"leverage"`
	SharpeRatio float64            `json:"sharpe_ratio"`
	Weights     map[string]float64 `json:"weights"`
	// RiskFreeWeight is the allocation to the synthetic risk-free asset, zero
	// when it was not included.
	RiskFreeWeight float64 `json:"risk_free_weight"`
	// RiskContributions is each asset's contribution to volatility,
	// w_i·(Σw)_i/σ. Together with the risk-free asset they sum to Volatility.
	RiskContributions   map[string]float64 `json:"risk_contributions"`
	LagrangeMultipliers [2]float64         `json:"lagrange_multipliers"`
}

// TargetGrid returns steps evenly spaced target returns from lo to hi
// inclusive. A single step yields lo.
func TargetGrid(lo, hi float64, steps int) ([]float64, error) {
	if steps < 1 {
		return nil, invalidInput("grid needs at least one step, got %d", steps)
	}
	if lo > hi {
		return nil, invalidInput("grid min %g is greater than max %g", lo, hi)
	}
	if steps == 1 {
		return []float64{lo}, nil
	}
	return floats.Span(make([]float64, steps), lo, hi), nil
}

// Point is one slot of a Frontier: either a Result or the reason it failed.
type Point struct {
	TargetReturn float64 `json:"target_return"`
	Result       *Result `json:"result,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Frontier is a snapshot of one MinimumRisk run with its inputs.
type Frontier struct {
	ID              string    `json:"id"`
	GeneratedAt     time.Time `json:"generated_at"`
	Tickers         []string  `json:"tickers"`
	ExpectedReturns []float64 `json:"expected_returns"`
	RiskFreeRate    float64   `json:"risk_free_rate"`
	IncludeRiskFree bool      `json:"include_risk_free"`
	Points          []Point   `json:"points"`
	Failed          int       `json:"failed"`
}

// NewFrontier pairs results with their targets. err is the error MinimumRisk
// returned alongside results; per-slot failures of a *FrontierError become
// Point.Error.
func NewFrontier(opt *Optimizer, targets []float64, includeRiskFree bool, results []*Result, err error) *Frontier {
	f := &Frontier{
		ID:              uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		Tickers:         opt.Tickers(),
		ExpectedReturns: opt.ExpectedReturns(),
		RiskFreeRate:    opt.RiskFreeRate(),
		IncludeRiskFree: includeRiskFree,
		Points:          make([]Point, len(targets)),
	}

	slotErrs := make(map[int]error)
	var fe *FrontierError
	if errors.As(err, &fe) {
		for _, se := range fe.Failures {
			slotErrs[se.Index] = se.Err
		}
	}

	for i, target := range targets {
		p := Point{TargetReturn: target}
		if i < len(results) && results[i] != nil {
			p.Result = results[i]
		} else {
			f.Failed++
			if e, ok := slotErrs[i]; ok {
				p.Error = e.Error()
			} else {
				p.Error = "not computed"
			}
		}
		f.Points[i] = p
	}
	return f
}
