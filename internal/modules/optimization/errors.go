package optimization

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks malformed optimizer input: mismatched lengths, unknown
	// tickers, a non-square or asymmetric covariance matrix, non-finite values.
	// It is fatal for the whole call.
	ErrInvalidInput = errors.New("optimization: invalid input")

	// ErrNonFinite marks a solve that produced NaN or Inf values.
	ErrNonFinite = errors.New("optimization: non-finite solution")
)

// SolveError reports a failed solve for one target return.
type SolveError struct {
	Index        int
	TargetReturn float64
	Err          error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("target return %g (index %d): %v", e.TargetReturn, e.Index, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }

// FrontierError collects the per-target failures of a MinimumRisk call.
// Slots listed here are nil in the returned results; the others are valid.
type FrontierError struct {
	Total    int
	Failures []*SolveError // ordered by Index
}

func (e *FrontierError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d of %d target returns failed: %s", len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

// Unwrap exposes every failure so errors.Is(err, matrix.ErrSingular) works.
func (e *FrontierError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Failed reports whether the slot at index failed.
func (e *FrontierError) Failed(index int) bool {
	for _, f := range e.Failures {
		if f.Index == index {
			return true
		}
	}
	return false
}

// AllFailed reports whether no target return could be solved.
func (e *FrontierError) AllFailed() bool {
	return len(e.Failures) == e.Total
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
