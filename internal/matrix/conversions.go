package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToGonum copies m into a gonum dense matrix. An empty matrix converts to the
// zero-value mat.Dense, which gonum treats as empty.
func (m *Dense) ToGonum() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(m.rows, m.cols, m.AsVector())
}

// FromGonum copies any gonum matrix into a Dense.
func FromGonum(g mat.Matrix) *Dense {
	r, c := g.Dims()
	out := &Dense{rows: r, cols: c, data: make([]float64, r*c)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = g.At(i, j)
		}
	}
	return out
}

// QuadForm returns xᵀ·m·x for a square m with len(x) == Rows().
func (m *Dense) QuadForm(x []float64) (float64, error) {
	if !m.IsSquare() {
		return 0, fmt.Errorf("QuadForm: %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	if len(x) != m.rows {
		return 0, fmt.Errorf("QuadForm: vector(%d) with %dx%d: %w", len(x), m.rows, m.cols, ErrShape)
	}
	if len(x) == 0 {
		return 0, nil
	}
	v := mat.NewVecDense(len(x), append([]float64(nil), x...))
	return mat.Inner(v, m.ToGonum(), v), nil
}
