package optimization

import (
	"errors"
	"testing"

	"github.com/aristath/frontier/internal/matrix"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetGrid(t *testing.T) {
	grid, err := TargetGrid(0.05, 0.25, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.05, 0.10, 0.15, 0.20, 0.25}, grid, 1e-12)

	single, err := TargetGrid(0.07, 0.30, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.07}, single)

	_, err = TargetGrid(0.3, 0.1, 4)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = TargetGrid(0.1, 0.3, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewFrontier(t *testing.T) {
	opt := twoAssetOptimizer(t, 0.01)
	targets := []float64{0.09, 0.10, 0.11}
	results := []*Result{{ExpectedReturn: 0.09}, nil, {ExpectedReturn: 0.11}}
	err := &FrontierError{
		Total:    3,
		Failures: []*SolveError{{Index: 1, TargetReturn: 0.10, Err: matrix.ErrSingular}},
	}

	f := NewFrontier(opt, targets, true, results, err)
	_, parseErr := uuid.Parse(f.ID)
	assert.NoError(t, parseErr)
	assert.False(t, f.GeneratedAt.IsZero())
	assert.Equal(t, []string{"A", "B"}, f.Tickers)
	assert.Equal(t, 0.01, f.RiskFreeRate)
	assert.True(t, f.IncludeRiskFree)
	assert.Equal(t, 1, f.Failed)

	require.Len(t, f.Points, 3)
	assert.Same(t, results[0], f.Points[0].Result)
	assert.Nil(t, f.Points[1].Result)
	assert.Equal(t, 0.10, f.Points[1].TargetReturn)
	assert.Equal(t, matrix.ErrSingular.Error(), f.Points[1].Error)
	assert.Empty(t, f.Points[2].Error)
}

func TestFrontierError(t *testing.T) {
	err := &FrontierError{
		Total: 4,
		Failures: []*SolveError{
			{Index: 0, TargetReturn: 0.5, Err: matrix.ErrSingular},
			{Index: 2, TargetReturn: 0.7, Err: ErrNonFinite},
		},
	}
	assert.ErrorIs(t, err, matrix.ErrSingular)
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.True(t, err.Failed(2))
	assert.False(t, err.Failed(1))
	assert.False(t, err.AllFailed())
	assert.Contains(t, err.Error(), "2 of 4 target returns failed")

	var se *SolveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Index)
}
