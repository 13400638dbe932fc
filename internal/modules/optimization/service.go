package optimization

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/frontier/internal/dateutil"
	"github.com/rs/zerolog"
)

// HistoryProvider supplies positionally aligned per-period returns for a set
// of symbols over [start, end].
type HistoryProvider interface {
	GetReturns(ctx context.Context, symbols []string, start, end time.Time) (map[string][]float64, error)
}

// RunRequest describes one ticker-based frontier run.
type RunRequest struct {
	Tickers         []string
	LookbackYears   int
	Targets         []float64
	RiskFreeRate    float64
	IncludeRiskFree bool
}

// Service downloads return history, annualizes it and computes a frontier.
type Service struct {
	history        HistoryProvider
	periodsPerYear int
	maxWorkers     int
	log            zerolog.Logger
	now            func() time.Time
}

// NewService creates a frontier service.
func NewService(history HistoryProvider, periodsPerYear, maxWorkers int, log zerolog.Logger) *Service {
	return &Service{
		history:        history,
		periodsPerYear: periodsPerYear,
		maxWorkers:     maxWorkers,
		log:            log.With().Str("service", "frontier").Logger(),
		now:            time.Now,
	}
}

// Run computes the frontier for req. When only some targets fail the
// snapshot is returned together with the *FrontierError.
func (s *Service) Run(ctx context.Context, req RunRequest) (*Frontier, error) {
	if len(req.Tickers) == 0 {
		return nil, invalidInput("no tickers provided")
	}
	if req.LookbackYears < 1 {
		return nil, invalidInput("lookback must be at least one year, got %d", req.LookbackYears)
	}
	if len(req.Targets) == 0 {
		return nil, invalidInput("no target returns provided")
	}

	end := s.now()
	start := dateutil.YearsBack(end, req.LookbackYears)

	s.log.Info().
		Strs("tickers", req.Tickers).
		Str("start", dateutil.Format(start)).
		Str("end", dateutil.Format(end)).
		Msg("Fetching return history")

	history, err := s.history.GetReturns(ctx, req.Tickers, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch return history: %w", err)
	}

	mu, err := AnnualizedMeanReturns(req.Tickers, history, s.periodsPerYear)
	if err != nil {
		return nil, err
	}
	cov, err := CovarianceMatrix(req.Tickers, history)
	if err != nil {
		return nil, err
	}

	opt, err := NewOptimizerWithCovariance(
		req.Tickers, mu, req.RiskFreeRate, Annualize(cov, s.periodsPerYear), s.log, WithMaxWorkers(s.maxWorkers),
	)
	if err != nil {
		return nil, err
	}

	results, err := opt.MinimumRisk(ctx, req.Targets, req.IncludeRiskFree)
	var fe *FrontierError
	if err != nil && !errors.As(err, &fe) {
		return nil, err
	}

	f := NewFrontier(opt, req.Targets, req.IncludeRiskFree, results, err)
	s.log.Info().
		Str("frontier_id", f.ID).
		Int("points", len(f.Points)).
		Int("failed", f.Failed).
		Msg("Frontier computed")
	return f, err
}

// SnapshotStore keeps the most recent frontier in memory.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest *Frontier
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Save replaces the latest snapshot.
func (s *SnapshotStore) Save(f *Frontier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = f
}

// Latest returns the latest snapshot, if any.
func (s *SnapshotStore) Latest() (*Frontier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}
