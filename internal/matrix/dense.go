// Package matrix provides a small dense linear-algebra engine used by the
// portfolio optimizer.
//
// Dense stores float64 elements in a flat row-major slice; (row, col) addressing
// is the only access contract. Every operation that can fail returns an error
// wrapping one of the package sentinels (ErrShape, ErrNotSquare, ErrSingular,
// ErrOutOfBounds, ErrRaggedRows). Operations never panic on bad input.
//
// The engine targets the sizes seen in portfolio work (tens of assets). Inverse
// uses the classical adjugate method, whose cost grows quickly with size.
package matrix

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dense is a row-major matrix of float64 values.
// The zero value is an empty 0×0 matrix ready to use.
type Dense struct {
	rows, cols int
	data       []float64 // len(data) == rows*cols
}

// New creates a rows×cols matrix filled with zeros.
// A 0×0 matrix is allowed and equivalent to the zero value.
func New(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("New(%d,%d): %w", rows, cols, ErrNegativeDimension)
	}
	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// NewFromRows creates a matrix from a nested slice. The shape is inferred from
// the input and all rows must have the same length.
func NewFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return &Dense{}, nil
	}
	cols := len(rows[0])
	m := &Dense{rows: len(rows), cols: cols, data: make([]float64, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("NewFromRows: row %d has %d columns, expected %d: %w", i, len(row), cols, ErrRaggedRows)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// NewFromSlice creates a rows×cols matrix backed by a copy of data, which must
// be laid out row-major and hold exactly rows*cols elements.
func NewFromSlice(data []float64, rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("NewFromSlice(%d,%d): %w", rows, cols, ErrNegativeDimension)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("NewFromSlice: %d elements for %dx%d: %w", len(data), rows, cols, ErrShape)
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Dense{rows: rows, cols: cols, data: buf}, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) (*Dense, error) {
	m, err := New(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.cols }

// Dims returns the number of rows and columns.
func (m *Dense) Dims() (int, int) { return m.rows, m.cols }

// IsSquare reports whether the matrix has as many rows as columns.
func (m *Dense) IsSquare() bool { return m.rows == m.cols }

func (m *Dense) index(op string, row, col int) (int, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, fmt.Errorf("%s(%d,%d) on %dx%d: %w", op, row, col, m.rows, m.cols, ErrOutOfBounds)
	}
	return row*m.cols + col, nil
}

// At returns the element at (row, col).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.index("At", row, col)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set stores v at (row, col).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.index("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v
	return nil
}

// Ref returns a pointer to the element at (row, col) for read-modify-write
// access. The pointer is invalidated by any operation that reallocates storage
// (CBind, RBind and their constant variants).
func (m *Dense) Ref(row, col int) (*float64, error) {
	idx, err := m.index("Ref", row, col)
	if err != nil {
		return nil, err
	}
	return &m.data[idx], nil
}

// at is the unchecked accessor used by algorithms that already validated shapes.
func (m *Dense) at(row, col int) float64 { return m.data[row*m.cols+col] }

// Clone returns a deep copy of m.
func (m *Dense) Clone() *Dense {
	buf := make([]float64, len(m.data))
	copy(buf, m.data)
	return &Dense{rows: m.rows, cols: m.cols, data: buf}
}

// AsVector returns a row-major copy of the elements.
func (m *Dense) AsVector() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)
	return out
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.rows {
		return nil, fmt.Errorf("Row(%d) on %dx%d: %w", i, m.rows, m.cols, ErrOutOfBounds)
	}
	out := make([]float64, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out, nil
}

// Col returns a copy of column j.
func (m *Dense) Col(j int) ([]float64, error) {
	if j < 0 || j >= m.cols {
		return nil, fmt.Errorf("Col(%d) on %dx%d: %w", j, m.rows, m.cols, ErrOutOfBounds)
	}
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = m.data[i*m.cols+j]
	}
	return out, nil
}

// Equal reports whether a and b have the same shape and identical elements.
func Equal(a, b *Dense) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// EqualApprox reports whether a and b have the same shape and every pair of
// elements differs by at most tol.
func EqualApprox(a, b *Dense, tol float64) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// String renders the matrix one row per line with fixed-width columns.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			sb.WriteString(fmt.Sprintf("%-12s", strconv.FormatFloat(m.at(i, j), 'f', 6, 64)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
