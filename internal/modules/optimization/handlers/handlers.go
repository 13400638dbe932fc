// Package handlers provides HTTP handlers for efficient-frontier operations.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/aristath/frontier/internal/matrix"
	"github.com/aristath/frontier/internal/modules/optimization"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// ContentTypeMsgpack is negotiated through the Accept header.
	ContentTypeMsgpack = "application/msgpack"
	// MaxTargetReturns caps target_returns and grid steps per request.
	MaxTargetReturns = 500
)

// FrontierRunner runs a ticker-based frontier.
type FrontierRunner interface {
	Run(ctx context.Context, req optimization.RunRequest) (*optimization.Frontier, error)
}

// Handler handles optimizer HTTP requests
type Handler struct {
	runner        FrontierRunner
	store         *optimization.SnapshotStore
	maxWorkers    int
	lookbackYears int
	log           zerolog.Logger
}

// NewHandler creates a new optimizer handler. runner may be nil, in which
// case the ticker-based endpoint responds 503. A maxWorkers of zero or less
// limits concurrent solves per request to GOMAXPROCS.
func NewHandler(
	runner FrontierRunner,
	store *optimization.SnapshotStore,
	maxWorkers int,
	lookbackYears int,
	log zerolog.Logger,
) *Handler {
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}
	return &Handler{
		runner:        runner,
		store:         store,
		maxWorkers:    maxWorkers,
		lookbackYears: lookbackYears,
		log:           log.With().Str("handler", "optimizer").Logger(),
	}
}

// GridRequest asks for evenly spaced target returns.
type GridRequest struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Steps int     `json:"steps"`
}

// FrontierRequest is the body of POST /api/optimizer/frontier. Exactly one of
// Returns or Covariance must be set.
type FrontierRequest struct {
	Tickers         []string             `json:"tickers"`
	Returns         map[string][]float64 `json:"returns,omitempty"`
	Covariance      [][]float64          `json:"covariance,omitempty"`
	ExpectedReturns []float64            `json:"expected_returns,omitempty"`
	// PeriodsPerYear annualizes Returns when set; it is ignored with Covariance.
	PeriodsPerYear  int          `json:"periods_per_year,omitempty"`
	RiskFreeRate    float64      `json:"risk_free_rate"`
	TargetReturns   []float64    `json:"target_returns,omitempty"`
	Grid            *GridRequest `json:"grid,omitempty"`
	IncludeRiskFree bool         `json:"include_risk_free"`
}

// TickersRequest is the body of POST /api/optimizer/frontier/tickers.
type TickersRequest struct {
	Tickers         []string     `json:"tickers"`
	LookbackYears   int          `json:"lookback_years,omitempty"`
	RiskFreeRate    float64      `json:"risk_free_rate"`
	TargetReturns   []float64    `json:"target_returns,omitempty"`
	Grid            *GridRequest `json:"grid,omitempty"`
	IncludeRiskFree bool         `json:"include_risk_free"`
}

// HandleFrontier handles POST /api/optimizer/frontier
func (h *Handler) HandleFrontier(w http.ResponseWriter, r *http.Request) {
	var req FrontierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	targets, err := resolveTargets(req.TargetReturns, req.Grid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opt, err := h.buildOptimizer(req)
	if err != nil {
		h.log.Debug().Err(err).Msg("Rejected frontier request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := opt.MinimumRisk(r.Context(), targets, req.IncludeRiskFree)
	var fe *optimization.FrontierError
	if err != nil && !errors.As(err, &fe) {
		h.writeError(w, err)
		return
	}

	h.writeFrontier(w, r, optimization.NewFrontier(opt, targets, req.IncludeRiskFree, results, err))
}

// HandleFrontierTickers handles POST /api/optimizer/frontier/tickers
func (h *Handler) HandleFrontierTickers(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		http.Error(w, "Price history is not configured", http.StatusServiceUnavailable)
		return
	}

	var req TickersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	targets, err := resolveTargets(req.TargetReturns, req.Grid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lookback := req.LookbackYears
	if lookback == 0 {
		lookback = h.lookbackYears
	}

	f, err := h.runner.Run(r.Context(), optimization.RunRequest{
		Tickers:         req.Tickers,
		LookbackYears:   lookback,
		Targets:         targets,
		RiskFreeRate:    req.RiskFreeRate,
		IncludeRiskFree: req.IncludeRiskFree,
	})
	var fe *optimization.FrontierError
	if err != nil && !errors.As(err, &fe) {
		h.writeError(w, err)
		return
	}

	h.writeFrontier(w, r, f)
}

// HandleLatest handles GET /api/optimizer/latest
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	f, ok := h.store.Latest()
	if !ok {
		http.Error(w, "No frontier computed yet", http.StatusNotFound)
		return
	}
	h.writeFrontier(w, r, f)
}

func (h *Handler) buildOptimizer(req FrontierRequest) (*optimization.Optimizer, error) {
	opts := []optimization.Option{optimization.WithMaxWorkers(h.maxWorkers)}

	switch {
	case req.Covariance != nil && req.Returns != nil:
		return nil, fmt.Errorf("%w: provide either returns or covariance, not both", optimization.ErrInvalidInput)

	case req.Covariance != nil:
		cov, err := matrix.NewFromRows(req.Covariance)
		if err != nil {
			return nil, fmt.Errorf("%w: covariance: %v", optimization.ErrInvalidInput, err)
		}
		return optimization.NewOptimizerWithCovariance(req.Tickers, req.ExpectedReturns, req.RiskFreeRate, cov, h.log, opts...)

	case req.Returns != nil:
		periods := req.PeriodsPerYear
		if periods <= 0 {
			periods = 1
		}
		cov, err := optimization.CovarianceMatrix(req.Tickers, req.Returns)
		if err != nil {
			return nil, err
		}
		mu := req.ExpectedReturns
		if mu == nil {
			if mu, err = optimization.AnnualizedMeanReturns(req.Tickers, req.Returns, periods); err != nil {
				return nil, err
			}
		}
		return optimization.NewOptimizerWithCovariance(
			req.Tickers, mu, req.RiskFreeRate, optimization.Annualize(cov, periods), h.log, opts...,
		)
	}
	return nil, fmt.Errorf("%w: returns or covariance is required", optimization.ErrInvalidInput)
}

func resolveTargets(targets []float64, grid *GridRequest) ([]float64, error) {
	if len(targets) > 0 && grid != nil {
		return nil, fmt.Errorf("%w: provide either target_returns or grid, not both", optimization.ErrInvalidInput)
	}
	if grid != nil {
		if grid.Steps > MaxTargetReturns {
			return nil, fmt.Errorf("%w: grid has %d steps, at most %d allowed", optimization.ErrInvalidInput, grid.Steps, MaxTargetReturns)
		}
		return optimization.TargetGrid(grid.Min, grid.Max, grid.Steps)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: target_returns or grid is required", optimization.ErrInvalidInput)
	}
	if len(targets) > MaxTargetReturns {
		return nil, fmt.Errorf("%w: %d target returns, at most %d allowed", optimization.ErrInvalidInput, len(targets), MaxTargetReturns)
	}
	return targets, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, optimization.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "Request cancelled", http.StatusServiceUnavailable)
	default:
		h.log.Error().Err(err).Msg("Failed to compute frontier")
		http.Error(w, "Failed to compute frontier", http.StatusBadGateway)
	}
}

// writeFrontier responds 200, or 422 when no target return could be solved.
func (h *Handler) writeFrontier(w http.ResponseWriter, r *http.Request, f *optimization.Frontier) {
	status := http.StatusOK
	if len(f.Points) > 0 && f.Failed == len(f.Points) {
		status = http.StatusUnprocessableEntity
	}
	response := map[string]interface{}{
		"data": f,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"failed":    f.Failed,
		},
	}
	h.write(w, r, status, response)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack) {
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(data); err != nil {
			h.log.Error().Err(err).Msg("Failed to encode msgpack response")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
