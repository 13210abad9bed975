package linalg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Eigenvalues returns the eigenvalues of a square matrix, unordered.
func Eigenvalues(m Matrix) ([]complex128, error) {
	if !m.IsSquare() || m.Rows() == 0 {
		return nil, fmt.Errorf("%w: no eigenvalues for %dx%d matrix", dynamo.ErrDimensionMismatch, m.Rows(), m.Cols())
	}
	n := m.Rows()
	a := mat.NewDense(n, n, nil)
	for i, row := range m {
		a.SetRow(i, row)
	}
	var eig mat.Eigen
	if !eig.Factorize(a, mat.EigenNone) {
		return nil, errors.New("eigenvalue decomposition did not converge")
	}
	return eig.Values(nil), nil
}
