package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCBindRoundTrip(t *testing.T) {
	orig := mustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	m := orig.Clone()
	col := []float64{7, 8, 9}
	require.NoError(t, m.CBind(col))
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())

	left, err := m.Submatrix(0, 0, 3, 2)
	require.NoError(t, err)
	assert.True(t, Equal(orig, left))

	appended, err := m.Col(2)
	require.NoError(t, err)
	assert.Equal(t, col, appended)

	assert.ErrorIs(t, m.CBind([]float64{1, 2}), ErrShape)
}

func TestRBindRoundTrip(t *testing.T) {
	orig := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	m := orig.Clone()
	row := []float64{7, 8, 9}
	require.NoError(t, m.RBind(row))
	assert.Equal(t, 3, m.Rows())

	top, err := m.Submatrix(0, 0, 2, 3)
	require.NoError(t, err)
	assert.True(t, Equal(orig, top))

	appended, err := m.Row(2)
	require.NoError(t, err)
	assert.Equal(t, row, appended)

	assert.ErrorIs(t, m.RBind([]float64{1}), ErrShape)
}

func TestBindConst(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	m.CBindConst(0)
	m.RBindConst(0)
	require.NoError(t, m.Set(2, 2, 1e-8))

	assert.Equal(t, []float64{
		1, 2, 0,
		3, 4, 0,
		0, 0, 1e-8,
	}, m.AsVector())

	m.RBindConst(1)
	last, err := m.Row(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, last)
}

func TestMinor(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	minor, err := m.Minor(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 7, 9}, minor.AsVector())

	_, err = m.Minor(3, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestSubmatrix(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	block, err := m.Submatrix(1, 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 8, 9}, block.AsVector())

	tests := []struct {
		name                 string
		row, col, nrow, ncol int
	}{
		{"rows overflow", 2, 0, 2, 1},
		{"cols overflow", 0, 1, 1, 3},
		{"negative start", -1, 0, 1, 1},
		{"negative count", 0, 0, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Submatrix(tt.row, tt.col, tt.nrow, tt.ncol)
			assert.ErrorIs(t, err, ErrOutOfBounds)
		})
	}
}
