package matrix

import "errors"

// Sentinel errors returned by matrix operations. Callers match them with errors.Is;
// operations wrap them with the failing operation and the offending shapes.
var (
	// ErrShape is returned when operand shapes are incompatible (Add/Sub on different
	// shapes, Mul with lhs.cols != rhs.rows, a bind vector of the wrong length, or a
	// flat slice whose length does not match the requested dimensions).
	ErrShape = errors.New("matrix: shape mismatch")

	// ErrNotSquare is returned by square-only operations (determinant, cofactor, inverse).
	ErrNotSquare = errors.New("matrix: matrix is not square")

	// ErrSingular is returned by Inverse when the determinant is zero.
	ErrSingular = errors.New("matrix: matrix is singular")

	// ErrOutOfBounds is returned when an index or a submatrix request exceeds the matrix extent.
	ErrOutOfBounds = errors.New("matrix: index out of bounds")

	// ErrRaggedRows is returned when a nested slice has rows of different lengths.
	ErrRaggedRows = errors.New("matrix: rows have different lengths")

	// ErrNegativeDimension is returned when a constructor receives negative dimensions.
	ErrNegativeDimension = errors.New("matrix: negative dimension")
)
