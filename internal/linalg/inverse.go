package linalg

import (
	"fmt"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Inverse computes the inverse by Gauss-Jordan elimination. Pivots are taken
// from the diagonal in row order without searching or swapping rows, so a
// zero on the diagonal fails even when the matrix is invertible by row
// exchange. Small nonzero pivots are accepted and their error propagates.
func Inverse(m Matrix) (Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: cannot invert %dx%d matrix", dynamo.ErrDimensionMismatch, m.Rows(), m.Cols())
	}

	n := len(m)
	a := m.Clone()
	inv := Identity(n)

	for i := 0; i < n; i++ {
		pivot := a[i][i]
		if pivot == 0 {
			return nil, fmt.Errorf("%w at row %d", dynamo.ErrSingularMatrix, i)
		}

		for j := 0; j < n; j++ {
			a[i][j] /= pivot
			inv[i][j] /= pivot
		}

		for k := i + 1; k < n; k++ {
			p := a[k][i]
			if p == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a[k][j] -= p * a[i][j]
				inv[k][j] -= p * inv[i][j]
			}
		}
	}

	for i := n - 1; i >= 0; i-- {
		for k := i - 1; k >= 0; k-- {
			p := a[k][i]
			if p == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a[k][j] -= p * a[i][j]
				inv[k][j] -= p * inv[i][j]
			}
		}
	}

	return inv, nil
}

// Solve returns Inverse(m) * v.
func Solve(m Matrix, v Vector) (Vector, error) {
	inv, err := Inverse(m)
	if err != nil {
		return nil, err
	}
	return MultiplyVector(inv, v)
}
