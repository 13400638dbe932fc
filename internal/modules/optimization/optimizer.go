package optimization

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aristath/frontier/internal/matrix"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// RiskFreeTicker names the synthetic risk-free asset added by MinimumRisk.
	RiskFreeTicker = "rf"
	// RiskFreeVariance is the variance given to the risk-free asset. It is kept
	// slightly above zero so the augmented system stays invertible.
	RiskFreeVariance = 1e-8

	// symmetryTolerance bounds |cov(i,j) - cov(j,i)| for a supplied covariance matrix.
	symmetryTolerance = 1e-9
)

// Optimizer computes closed-form minimum-variance portfolios for a fixed
// asset universe. It is safe for concurrent use; MinimumRisk never mutates it.
type Optimizer struct {
	tickers         []string
	expectedReturns []float64
	riskFreeRate    float64
	cov             *matrix.Dense
	maxWorkers      int
	log             zerolog.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithMaxWorkers caps the number of concurrent solves. Zero or negative means
// one goroutine per target return.
func WithMaxWorkers(n int) Option {
	return func(o *Optimizer) { o.maxWorkers = n }
}

// NewOptimizer creates an optimizer whose covariance matrix is the sample
// covariance of the given return series.
func NewOptimizer(
	tickers []string,
	history map[string][]float64,
	expectedReturns []float64,
	riskFreeRate float64,
	log zerolog.Logger,
	opts ...Option,
) (*Optimizer, error) {
	cov, err := CovarianceMatrix(tickers, history)
	if err != nil {
		return nil, err
	}
	return NewOptimizerWithCovariance(tickers, expectedReturns, riskFreeRate, cov, log, opts...)
}

// NewOptimizerWithCovariance creates an optimizer from a precomputed (for
// example annualized) covariance matrix. The matrix must be N×N for N tickers,
// symmetric, finite, with a non-negative diagonal. It is copied.
func NewOptimizerWithCovariance(
	tickers []string,
	expectedReturns []float64,
	riskFreeRate float64,
	cov *matrix.Dense,
	log zerolog.Logger,
	opts ...Option,
) (*Optimizer, error) {
	n := len(tickers)
	if n == 0 {
		return nil, invalidInput("no tickers provided")
	}
	if len(expectedReturns) != n {
		return nil, invalidInput("%d expected returns for %d tickers", len(expectedReturns), n)
	}
	if !allFinite(expectedReturns) || math.IsNaN(riskFreeRate) || math.IsInf(riskFreeRate, 0) {
		return nil, invalidInput("expected returns and risk-free rate must be finite")
	}
	seen := make(map[string]bool, n)
	for _, t := range tickers {
		if t == "" || t == RiskFreeTicker || seen[t] {
			return nil, invalidInput("invalid or duplicate ticker %q", t)
		}
		seen[t] = true
	}
	if err := validateCovariance(cov, n); err != nil {
		return nil, err
	}

	o := &Optimizer{
		tickers:         append([]string(nil), tickers...),
		expectedReturns: append([]float64(nil), expectedReturns...),
		riskFreeRate:    riskFreeRate,
		cov:             cov.Clone(),
		log:             log.With().Str("component", "mv_optimizer").Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func validateCovariance(cov *matrix.Dense, n int) error {
	if cov == nil {
		return invalidInput("covariance matrix is nil")
	}
	if r, c := cov.Dims(); r != n || c != n {
		return invalidInput("covariance matrix is %dx%d, expected %dx%d", r, c, n, n)
	}
	if !allFinite(cov.AsVector()) {
		return invalidInput("covariance matrix contains NaN or Inf")
	}
	for i := 0; i < n; i++ {
		d, _ := cov.At(i, i)
		if d < 0 {
			return invalidInput("covariance diagonal (%d,%d) is negative: %g", i, i, d)
		}
		for j := i + 1; j < n; j++ {
			a, _ := cov.At(i, j)
			b, _ := cov.At(j, i)
			if math.Abs(a-b) > symmetryTolerance {
				return invalidInput("covariance matrix is not symmetric at (%d,%d)", i, j)
			}
		}
	}
	return nil
}

// Tickers returns a copy of the asset universe in canonical order.
func (o *Optimizer) Tickers() []string { return append([]string(nil), o.tickers...) }

// ExpectedReturns returns a copy of the expected returns, ordered like Tickers.
func (o *Optimizer) ExpectedReturns() []float64 {
	return append([]float64(nil), o.expectedReturns...)
}

// RiskFreeRate returns the risk-free rate used for the synthetic asset and Sharpe ratios.
func (o *Optimizer) RiskFreeRate() float64 { return o.riskFreeRate }

// Covariance returns a copy of the covariance matrix.
func (o *Optimizer) Covariance() *matrix.Dense { return o.cov.Clone() }

// MinimumRisk returns the minimum-variance portfolio for every target return,
// in input order. When includeRiskFree is set a synthetic risk-free asset is
// added to the universe.
//
// Malformed input returns (nil, err) wrapping ErrInvalidInput. Otherwise each
// target is solved independently: a failed solve leaves its slot nil and the
// call returns the partial results together with a *FrontierError. Context
// cancellation aborts the batch and returns (nil, ctx.Err()).
func (o *Optimizer) MinimumRisk(ctx context.Context, targetReturns []float64, includeRiskFree bool) ([]*Result, error) {
	if len(targetReturns) == 0 {
		return nil, invalidInput("no target returns provided")
	}
	if !allFinite(targetReturns) {
		return nil, invalidInput("target returns must be finite")
	}

	sys, err := o.buildSystem(includeRiskFree)
	if err != nil {
		return nil, err
	}

	o.log.Info().
		Int("num_assets", len(o.tickers)).
		Int("num_targets", len(targetReturns)).
		Bool("include_risk_free", includeRiskFree).
		Msg("Computing minimum-risk portfolios")

	results, err := o.solveAll(ctx, targetReturns, sys.solve)
	if err != nil {
		var fe *FrontierError
		if !errors.As(err, &fe) {
			return nil, err
		}
		for _, f := range fe.Failures {
			o.log.Warn().
				Err(f.Err).
				Int("index", f.Index).
				Float64("target_return", f.TargetReturn).
				Msg("Minimum-risk solve failed")
		}
		return results, err
	}

	o.log.Debug().Int("num_targets", len(targetReturns)).Msg("Computed minimum-risk portfolios")
	return results, nil
}

// system is the augmented KKT system shared read-only by every solve of one call.
type system struct {
	tickers      []string      // includes RiskFreeTicker when the risk-free asset is on
	cov          *matrix.Dense // unscaled, risk-free augmented
	aug          *matrix.Dense // [[2Σ μ 1] [μᵀ 0 0] [1ᵀ 0 0]]
	riskFreeRate float64
	riskFree     bool
}

// buildSystem assembles
//
//	| 2Σ   μ  1 |
//	| μᵀ   0  0 |
//	| 1ᵀ   0  0 |
//
// from a working copy of the covariance matrix.
func (o *Optimizer) buildSystem(includeRiskFree bool) (*system, error) {
	cov := o.cov.Clone()
	tickers := append([]string(nil), o.tickers...)
	mu := append([]float64(nil), o.expectedReturns...)

	if includeRiskFree {
		cov.CBindConst(0)
		cov.RBindConst(0)
		n := cov.Rows()
		if err := cov.Set(n-1, n-1, RiskFreeVariance); err != nil {
			return nil, err
		}
		tickers = append(tickers, RiskFreeTicker)
		mu = append(mu, o.riskFreeRate)
	}

	aug := cov.Scale(2)
	if err := aug.RBind(mu); err != nil {
		return nil, fmt.Errorf("failed to append return constraint row: %w", err)
	}
	aug.RBindConst(1)

	col := make([]float64, aug.Rows())
	copy(col, mu)
	if err := aug.CBind(col); err != nil {
		return nil, fmt.Errorf("failed to append return constraint column: %w", err)
	}
	ones := make([]float64, aug.Rows())
	for i := range mu {
		ones[i] = 1
	}
	if err := aug.CBind(ones); err != nil {
		return nil, fmt.Errorf("failed to append budget constraint column: %w", err)
	}

	return &system{
		tickers:      tickers,
		cov:          cov,
		aug:          aug,
		riskFreeRate: o.riskFreeRate,
		riskFree:     includeRiskFree,
	}, nil
}

// solve computes the portfolio for one target return. Each call inverts the
// shared augmented matrix on its own; nothing shared is written.
func (s *system) solve(target float64) (*Result, error) {
	size := s.aug.Rows()
	rhs := make([]float64, size)
	rhs[size-2] = target
	rhs[size-1] = 1

	inv, err := s.aug.Inverse()
	if err != nil {
		return nil, err
	}
	col, err := inv.MulVec(rhs)
	if err != nil {
		return nil, err
	}
	x := col.AsVector()
	if !allFinite(x) {
		return nil, fmt.Errorf("solution for target %g: %w", target, ErrNonFinite)
	}

	n := len(s.tickers)
	w := x[:n]

	variance, err := s.cov.QuadForm(w)
	if err != nil {
		return nil, err
	}
	if variance < 0 {
		if variance < -1e-12 {
			return nil, fmt.Errorf("negative portfolio variance %g: %w", variance, ErrNonFinite)
		}
		variance = 0
	}
	volatility := math.Sqrt(variance)

	res := &Result{
		ExpectedReturn:      target,
		Volatility:          volatility,
		Weights:             make(map[string]float64, n),
		RiskContributions:   make(map[string]float64, n),
		LagrangeMultipliers: [2]float64{x[n], x[n+1]},
	}
	if volatility > 0 {
		res.SharpeRatio = (target - s.riskFreeRate) / volatility
	}

	sigmaW, err := s.cov.MulVec(w)
	if err != nil {
		return nil, err
	}
	marginal := sigmaW.AsVector()
	for i, ticker := range s.tickers {
		res.Leverage += math.Abs(w[i])
		if ticker == RiskFreeTicker && s.riskFree {
			res.RiskFreeWeight = w[i]
			continue
		}
		res.Weights[ticker] = w[i]
		if volatility > 0 {
			res.RiskContributions[ticker] = w[i] * marginal[i] / volatility
		} else {
			res.RiskContributions[ticker] = 0
		}
	}
	return res, nil
}

// solveAll runs solve once per target on an errgroup and joins results by
// index. Solve failures are recorded per slot and never cancel siblings; only
// ctx cancellation aborts the batch.
func (o *Optimizer) solveAll(ctx context.Context, targets []float64, solve func(float64) (*Result, error)) ([]*Result, error) {
	results := make([]*Result, len(targets))
	failures := make([]error, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	if o.maxWorkers > 0 {
		g.SetLimit(o.maxWorkers)
	}
	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := solve(target)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fe *FrontierError
	for i, err := range failures {
		if err == nil {
			continue
		}
		if fe == nil {
			fe = &FrontierError{Total: len(targets)}
		}
		fe.Failures = append(fe.Failures, &SolveError{Index: i, TargetReturn: targets[i], Err: err})
	}
	if fe != nil {
		return results, fe
	}
	return results, nil
}
