package matrix

import "fmt"

func sameShape(op string, a, b *Dense) error {
	if a.rows != b.rows || a.cols != b.cols {
		return fmt.Errorf("%s: %dx%d vs %dx%d: %w", op, a.rows, a.cols, b.rows, b.cols, ErrShape)
	}
	return nil
}

// Add returns m + other. Both operands must have the same shape.
func (m *Dense) Add(other *Dense) (*Dense, error) {
	out := m.Clone()
	if err := out.AddInPlace(other); err != nil {
		return nil, err
	}
	return out, nil
}

// AddInPlace adds other to m elementwise.
func (m *Dense) AddInPlace(other *Dense) error {
	if err := sameShape("Add", m, other); err != nil {
		return err
	}
	for i := range m.data {
		m.data[i] += other.data[i]
	}
	return nil
}

// Sub returns m - other. Both operands must have the same shape.
func (m *Dense) Sub(other *Dense) (*Dense, error) {
	out := m.Clone()
	if err := out.SubInPlace(other); err != nil {
		return nil, err
	}
	return out, nil
}

// SubInPlace subtracts other from m elementwise.
func (m *Dense) SubInPlace(other *Dense) error {
	if err := sameShape("Sub", m, other); err != nil {
		return err
	}
	for i := range m.data {
		m.data[i] -= other.data[i]
	}
	return nil
}

// Mul returns the matrix product m·other. Requires m.Cols() == other.Rows().
func (m *Dense) Mul(other *Dense) (*Dense, error) {
	if m.cols != other.rows {
		return nil, fmt.Errorf("Mul: %dx%d * %dx%d: %w", m.rows, m.cols, other.rows, other.cols, ErrShape)
	}
	out := &Dense{rows: m.rows, cols: other.cols, data: make([]float64, m.rows*other.cols)}
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			for j := 0; j < other.cols; j++ {
				out.data[i*other.cols+j] += a * other.data[k*other.cols+j]
			}
		}
	}
	return out, nil
}

// MulVec multiplies m by v treated as a column matrix and returns the
// resulting Rows()×1 column matrix. Requires len(v) == m.Cols().
func (m *Dense) MulVec(v []float64) (*Dense, error) {
	if len(v) != m.cols {
		return nil, fmt.Errorf("MulVec: %dx%d * vector(%d): %w", m.rows, m.cols, len(v), ErrShape)
	}
	out := &Dense{rows: m.rows, cols: 1, data: make([]float64, m.rows)}
	for i := 0; i < m.rows; i++ {
		var sum float64
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, x := range row {
			sum += x * v[j]
		}
		out.data[i] = sum
	}
	return out, nil
}

// Scale returns m multiplied elementwise by s.
func (m *Dense) Scale(s float64) *Dense {
	out := m.Clone()
	out.ScaleInPlace(s)
	return out
}

// ScaleInPlace multiplies every element of m by s.
func (m *Dense) ScaleInPlace(s float64) {
	for i := range m.data {
		m.data[i] *= s
	}
}

// DivScalar returns m divided elementwise by s.
func (m *Dense) DivScalar(s float64) *Dense {
	out := m.Clone()
	out.DivScalarInPlace(s)
	return out
}

// DivScalarInPlace divides every element of m by s.
func (m *Dense) DivScalarInPlace(s float64) {
	for i := range m.data {
		m.data[i] /= s
	}
}

// T returns the transpose of m as a new Cols()×Rows() matrix.
func (m *Dense) T() *Dense {
	out := &Dense{rows: m.cols, cols: m.rows, data: make([]float64, len(m.data))}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return out
}
