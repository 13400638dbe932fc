package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/aristath/frontier/internal/matrix"
	"github.com/aristath/frontier/internal/modules/optimization"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	f   *optimization.Frontier
	err error
	got optimization.RunRequest
	ctx context.Context
}

func (s *stubRunner) Run(ctx context.Context, req optimization.RunRequest) (*optimization.Frontier, error) {
	s.ctx, s.got = ctx, req
	return s.f, s.err
}

func newRefreshJob(r FrontierRunner, store *optimization.SnapshotStore) *FrontierRefreshJob {
	return NewFrontierRefreshJob(FrontierRefreshConfig{
		Runner: r,
		Store:  store,
		Request: optimization.RunRequest{
			Tickers: []string{"SPY", "TLT"}, LookbackYears: 5, Targets: []float64{0.05, 0.1},
		},
		Log: zerolog.Nop(),
	})
}

func TestFrontierRefreshJob_Success(t *testing.T) {
	store := optimization.NewSnapshotStore()
	runner := &stubRunner{f: &optimization.Frontier{ID: "abc"}}
	job := newRefreshJob(runner, store)

	assert.Equal(t, "frontier_refresh", job.Name())
	require.NoError(t, job.Run())

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, "abc", latest.ID)
	assert.Equal(t, []string{"SPY", "TLT"}, runner.got.Tickers)

	_, hasDeadline := runner.ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestFrontierRefreshJob_PartialFailureIsStored(t *testing.T) {
	store := optimization.NewSnapshotStore()
	runner := &stubRunner{
		f: &optimization.Frontier{ID: "partial", Failed: 1},
		err: &optimization.FrontierError{Total: 2, Failures: []*optimization.SolveError{
			{Index: 1, TargetReturn: 0.1, Err: matrix.ErrSingular},
		}},
	}
	require.NoError(t, newRefreshJob(runner, store).Run())

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, "partial", latest.ID)
}

func TestFrontierRefreshJob_FailureKeepsPreviousSnapshot(t *testing.T) {
	store := optimization.NewSnapshotStore()
	store.Save(&optimization.Frontier{ID: "previous"})

	allFailed := &optimization.FrontierError{Total: 1, Failures: []*optimization.SolveError{
		{Index: 0, TargetReturn: 0.1, Err: matrix.ErrSingular},
	}}
	for _, err := range []error{errors.New("download failed"), allFailed} {
		runner := &stubRunner{f: &optimization.Frontier{ID: "new"}, err: err}
		assert.Error(t, newRefreshJob(runner, store).Run())

		latest, _ := store.Latest()
		assert.Equal(t, "previous", latest.ID)
	}
}
