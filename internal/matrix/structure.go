package matrix

import "fmt"

// CBindConst appends a column filled with v. The receiver's storage is
// reallocated with the new shape. Appending to an empty matrix yields a 0×1
// matrix, since the column has no rows to fill.
func (m *Dense) CBindConst(v float64) {
	col := make([]float64, m.rows)
	for i := range col {
		col[i] = v
	}
	m.cbind(col)
}

// CBind appends col as a new last column. len(col) must equal Rows().
func (m *Dense) CBind(col []float64) error {
	if len(col) != m.rows {
		return fmt.Errorf("CBind: vector(%d) onto %dx%d: %w", len(col), m.rows, m.cols, ErrShape)
	}
	m.cbind(col)
	return nil
}

func (m *Dense) cbind(col []float64) {
	cols := m.cols + 1
	data := make([]float64, m.rows*cols)
	for i := 0; i < m.rows; i++ {
		copy(data[i*cols:i*cols+m.cols], m.data[i*m.cols:(i+1)*m.cols])
		data[i*cols+m.cols] = col[i]
	}
	m.cols = cols
	m.data = data
}

// RBindConst appends a row filled with v.
func (m *Dense) RBindConst(v float64) {
	row := make([]float64, m.cols)
	for i := range row {
		row[i] = v
	}
	m.rbind(row)
}

// RBind appends row as a new last row. len(row) must equal Cols().
func (m *Dense) RBind(row []float64) error {
	if len(row) != m.cols {
		return fmt.Errorf("RBind: vector(%d) onto %dx%d: %w", len(row), m.rows, m.cols, ErrShape)
	}
	m.rbind(row)
	return nil
}

func (m *Dense) rbind(row []float64) {
	data := make([]float64, len(m.data), len(m.data)+m.cols)
	copy(data, m.data)
	m.data = append(data, row...)
	m.rows++
}

// Minor returns a copy of m with the given row and column removed.
func (m *Dense) Minor(row, col int) (*Dense, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return nil, fmt.Errorf("Minor(%d,%d) on %dx%d: %w", row, col, m.rows, m.cols, ErrOutOfBounds)
	}
	return m.minor(row, col), nil
}

func (m *Dense) minor(row, col int) *Dense {
	out := &Dense{rows: m.rows - 1, cols: m.cols - 1, data: make([]float64, 0, (m.rows-1)*(m.cols-1))}
	for i := 0; i < m.rows; i++ {
		if i == row {
			continue
		}
		for j := 0; j < m.cols; j++ {
			if j == col {
				continue
			}
			out.data = append(out.data, m.data[i*m.cols+j])
		}
	}
	return out
}

// Submatrix returns a copy of the rowCount×colCount block whose top-left
// corner is (row, col). The block must lie entirely inside m.
func (m *Dense) Submatrix(row, col, rowCount, colCount int) (*Dense, error) {
	if row < 0 || col < 0 || rowCount < 0 || colCount < 0 ||
		row+rowCount > m.rows || col+colCount > m.cols {
		return nil, fmt.Errorf("Submatrix(%d,%d,%d,%d) on %dx%d: %w",
			row, col, rowCount, colCount, m.rows, m.cols, ErrOutOfBounds)
	}
	out := &Dense{rows: rowCount, cols: colCount, data: make([]float64, rowCount*colCount)}
	for i := 0; i < rowCount; i++ {
		src := (row+i)*m.cols + col
		copy(out.data[i*colCount:(i+1)*colCount], m.data[src:src+colCount])
	}
	return out, nil
}
