package matrix

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomDense(rng *rand.Rand, rows, cols int) *Dense {
	m := &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
	for i := range m.data {
		m.data[i] = rng.Float64()*2 - 1
	}
	return m
}

func TestAddSub(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{10, 20}, {30, 40}})

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 33, 44}, sum.AsVector())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 18, 27, 36}, diff.AsVector())

	// operands are untouched
	assert.Equal(t, []float64{1, 2, 3, 4}, a.AsVector())

	c := mustRows(t, [][]float64{{1, 2, 3}})
	_, err = a.Add(c)
	assert.ErrorIs(t, err, ErrShape)
	_, err = a.Sub(c)
	assert.ErrorIs(t, err, ErrShape)
}

func TestInPlaceVariants(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{1, 1}, {1, 1}})

	require.NoError(t, a.AddInPlace(b))
	assert.Equal(t, []float64{2, 3, 4, 5}, a.AsVector())

	require.NoError(t, a.SubInPlace(b))
	assert.Equal(t, []float64{1, 2, 3, 4}, a.AsVector())

	a.ScaleInPlace(2)
	assert.Equal(t, []float64{2, 4, 6, 8}, a.AsVector())

	a.DivScalarInPlace(4)
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, a.AsVector())
}

func TestMul(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := mustRows(t, [][]float64{{7, 8}, {9, 10}, {11, 12}})

	p, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Rows())
	assert.Equal(t, 2, p.Cols())
	assert.Equal(t, []float64{58, 64, 139, 154}, p.AsVector())

	_, err = a.Mul(a)
	assert.ErrorIs(t, err, ErrShape)
}

func TestMulVec(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	v, err := a.MulVec([]float64{1, -1})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Rows())
	assert.Equal(t, 1, v.Cols())
	assert.Equal(t, []float64{-1, -1, -1}, v.AsVector())

	_, err = a.MulVec([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShape)
}

func TestScaleDivScalar(t *testing.T) {
	a := mustRows(t, [][]float64{{2, 4}})
	assert.Equal(t, []float64{6, 12}, a.Scale(3).AsVector())
	assert.Equal(t, []float64{1, 2}, a.DivScalar(2).AsVector())
	assert.Equal(t, []float64{2, 4}, a.AsVector())
}

func TestProductAssociativityAndDistributivity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n, k, p, q := 1+rng.Intn(5), 1+rng.Intn(5), 1+rng.Intn(5), 1+rng.Intn(5)
		a := randomDense(rng, n, k)
		b := randomDense(rng, k, p)
		b2 := randomDense(rng, k, p)
		c := randomDense(rng, p, q)

		ab, err := a.Mul(b)
		require.NoError(t, err)
		abc1, err := ab.Mul(c)
		require.NoError(t, err)
		bc, err := b.Mul(c)
		require.NoError(t, err)
		abc2, err := a.Mul(bc)
		require.NoError(t, err)
		assert.True(t, EqualApprox(abc1, abc2, 1e-12), "(AB)C != A(BC)")

		sum, err := b.Add(b2)
		require.NoError(t, err)
		left, err := a.Mul(sum)
		require.NoError(t, err)
		ab2, err := a.Mul(b2)
		require.NoError(t, err)
		right, err := ab.Add(ab2)
		require.NoError(t, err)
		assert.True(t, EqualApprox(left, right, 1e-12), "A(B+C) != AB+AC")
	}
}

func TestTransposeTwiceIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := randomDense(rng, 3, 5)
	tr := m.T()
	assert.Equal(t, 5, tr.Rows())
	assert.Equal(t, 3, tr.Cols())

	v, err := tr.At(4, 2)
	require.NoError(t, err)
	w, err := m.At(2, 4)
	require.NoError(t, err)
	assert.Equal(t, w, v)

	assert.True(t, Equal(m, tr.T()))
}
