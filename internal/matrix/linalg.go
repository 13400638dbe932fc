package matrix

import (
	"fmt"
	"math"
)

// SingularTolerance is the relative pivot threshold below which LU treats a
// matrix as exactly singular: a pivot p is rejected when
// |p| <= SingularTolerance * max|a_ij|.
const SingularTolerance = 1e-12

// LUFactors holds a partially pivoted Doolittle factorization P·A = L·U.
type LUFactors struct {
	L *Dense // unit lower triangular
	U *Dense // upper triangular
	// Perm maps row i of P·A to row Perm[i] of A.
	Perm []int
	// Sign is +1 or -1 depending on the parity of the row swaps.
	Sign float64
	// Singular is set when a pivot fell under the tolerance; L and U are then incomplete.
	Singular bool
}

// LU factors a square matrix with partial pivoting.
//
// U(i,k) = a(i,k) - Σ_{j<i} L(i,j)U(j,k) for k ≥ i and
// L(k,i) = (a(k,i) - Σ_{j<i} L(k,j)U(j,i)) / U(i,i) for k > i, with unit diagonal L.
// A pivot under the tolerance stops the factorization and marks it Singular
// instead of failing.
func (m *Dense) LU() (*LUFactors, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("LU: %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	n := m.rows
	a := m.Clone()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	f := &LUFactors{Perm: perm, Sign: 1}

	var scale float64
	for _, v := range a.data {
		scale = math.Max(scale, math.Abs(v))
	}
	tol := SingularTolerance * scale

	for k := 0; k < n; k++ {
		p := k
		best := math.Abs(a.data[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(a.data[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best <= tol || scale == 0 {
			f.Singular = true
			break
		}
		if p != k {
			for j := 0; j < n; j++ {
				a.data[k*n+j], a.data[p*n+j] = a.data[p*n+j], a.data[k*n+j]
			}
			perm[k], perm[p] = perm[p], perm[k]
			f.Sign = -f.Sign
		}
		pivot := a.data[k*n+k]
		for i := k + 1; i < n; i++ {
			l := a.data[i*n+k] / pivot
			a.data[i*n+k] = l
			if l == 0 {
				continue
			}
			for j := k + 1; j < n; j++ {
				a.data[i*n+j] -= l * a.data[k*n+j]
			}
		}
	}

	f.L = &Dense{rows: n, cols: n, data: make([]float64, n*n)}
	f.U = &Dense{rows: n, cols: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case i == j:
				f.L.data[i*n+j] = 1
				f.U.data[i*n+j] = a.data[i*n+j]
			case i > j:
				f.L.data[i*n+j] = a.data[i*n+j]
			default:
				f.U.data[i*n+j] = a.data[i*n+j]
			}
		}
	}
	return f, nil
}

// Determinant returns the determinant of a square matrix. 1×1 and 2×2
// matrices use the closed form; larger ones use LU. A singular matrix yields
// exactly 0 rather than an error. The determinant of the empty matrix is 1.
func (m *Dense) Determinant() (float64, error) {
	if !m.IsSquare() {
		return 0, fmt.Errorf("Determinant: %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	return m.det(), nil
}

func (m *Dense) det() float64 {
	switch m.rows {
	case 0:
		return 1
	case 1:
		return m.data[0]
	case 2:
		return m.data[0]*m.data[3] - m.data[1]*m.data[2]
	}
	f, _ := m.LU()
	if f.Singular {
		return 0
	}
	d := f.Sign
	for i := 0; i < m.rows; i++ {
		d *= f.U.at(i, i)
	}
	return d
}

// Cofactor returns the cofactor matrix C with C(i,j) = (-1)^(i+j)·det(minor(i,j)).
// Every entry needs its own minor determinant, so the cost grows steeply with
// size; it is meant for matrices of a few dozen rows at most.
func (m *Dense) Cofactor() (*Dense, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("Cofactor: %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	n := m.rows
	out := &Dense{rows: n, cols: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := m.minor(i, j).det()
			if (i+j)%2 == 1 {
				c = -c
			}
			out.data[i*n+j] = c
		}
	}
	return out, nil
}

// Inverse returns the inverse of a square matrix computed with the adjugate
// method: transpose(Cofactor()) / Determinant(). Singularity is taken from
// the pivoted LU factorization, not from the raw determinant, and the matrix
// is rescaled so its pivots have unit geometric mean before the adjugate step.
// A large well-conditioned matrix whose determinant underflows float64 is
// therefore still invertible. It returns ErrSingular when a pivot falls under
// SingularTolerance.
func (m *Dense) Inverse() (*Dense, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("Inverse: %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	n := m.rows
	if n == 0 {
		return &Dense{data: []float64{}}, nil
	}

	f, err := m.LU()
	if err != nil {
		return nil, err
	}
	if f.Singular {
		return nil, fmt.Errorf("Inverse: %dx%d pivot under tolerance: %w", n, n, ErrSingular)
	}

	// inv(A) = c·inv(cA) with c = exp(-mean(log|u_ii|)).
	var logSum float64
	for i := 0; i < n; i++ {
		logSum += math.Log(math.Abs(f.U.at(i, i)))
	}
	c := math.Exp(-logSum / float64(n))
	scaled := m.Scale(c)

	d := scaled.det()
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return nil, fmt.Errorf("Inverse: %dx%d scaled determinant %g: %w", n, n, d, ErrSingular)
	}
	cof, err := scaled.Cofactor()
	if err != nil {
		return nil, err
	}
	adj := cof.T()
	adj.ScaleInPlace(c / d)
	return adj, nil
}
