package linalg

import (
	"fmt"
	"math"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Matrix is a dense row-major matrix. Operations never alias their inputs.
type Matrix [][]float64

// Vector is a dense column vector.
type Vector []float64

func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}

func (m Matrix) Rows() int { return len(m) }

func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func (m Matrix) IsSquare() bool {
	for _, row := range m {
		if len(row) != len(m) {
			return false
		}
	}
	return true
}

func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = make([]float64, len(row))
		copy(c[i], row)
	}
	return c
}

func (m Matrix) Scale(factor float64) Matrix {
	c := m.Clone()
	for i := range c {
		for j := range c[i] {
			c[i][j] *= factor
		}
	}
	return c
}

// Symmetric reports whether |m[i][j] - m[j][i]| <= tol for every pair.
func (m Matrix) Symmetric(tol float64) bool {
	if !m.IsSquare() {
		return false
	}
	for i := range m {
		for j := i + 1; j < len(m); j++ {
			if math.Abs(m[i][j]-m[j][i]) > tol {
				return false
			}
		}
	}
	return true
}

func sameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return fmt.Errorf("%w: %d rows vs %d rows", dynamo.ErrDimensionMismatch, a.Rows(), b.Rows())
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return fmt.Errorf("%w: row %d has %d vs %d columns", dynamo.ErrDimensionMismatch, i, len(a[i]), len(b[i]))
		}
	}
	return nil
}

func Sum(a, b Matrix) (Matrix, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	out := a.Clone()
	for i := range out {
		for j := range out[i] {
			out[i][j] += b[i][j]
		}
	}
	return out, nil
}

func Subtract(a, b Matrix) (Matrix, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	out := a.Clone()
	for i := range out {
		for j := range out[i] {
			out[i][j] -= b[i][j]
		}
	}
	return out, nil
}

func Multiply(a, b Matrix) (Matrix, error) {
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("%w: cannot multiply %dx%d by %dx%d",
			dynamo.ErrDimensionMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	out := NewMatrix(a.Rows(), b.Cols())
	for i := range a {
		for k, aik := range a[i] {
			if aik == 0 {
				continue
			}
			for j := range b[k] {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out, nil
}

func MultiplyVector(m Matrix, v Vector) (Vector, error) {
	if m.Cols() != len(v) {
		return nil, fmt.Errorf("%w: cannot multiply %dx%d by vector of %d",
			dynamo.ErrDimensionMismatch, m.Rows(), m.Cols(), len(v))
	}
	out := make(Vector, m.Rows())
	for i, row := range m {
		s := 0.0
		for j, x := range row {
			s += x * v[j]
		}
		out[i] = s
	}
	return out, nil
}

func Transpose(m Matrix) Matrix {
	out := NewMatrix(m.Cols(), m.Rows())
	for i := range m {
		for j, x := range m[i] {
			out[j][i] = x
		}
	}
	return out
}

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) Scale(factor float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x * factor
	}
	return out
}

func (v Vector) Add(other Vector) (Vector, error) {
	if len(v) != len(other) {
		return nil, fmt.Errorf("%w: vectors of %d and %d", dynamo.ErrDimensionMismatch, len(v), len(other))
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + other[i]
	}
	return out, nil
}

func (v Vector) Sub(other Vector) (Vector, error) {
	if len(v) != len(other) {
		return nil, fmt.Errorf("%w: vectors of %d and %d", dynamo.ErrDimensionMismatch, len(v), len(other))
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - other[i]
	}
	return out, nil
}

// Combine returns sum(coef[i]*vs[i]). All vectors must share a length.
func Combine(coef []float64, vs ...Vector) (Vector, error) {
	if len(coef) != len(vs) || len(vs) == 0 {
		return nil, fmt.Errorf("%w: %d coefficients for %d vectors", dynamo.ErrDimensionMismatch, len(coef), len(vs))
	}
	out := make(Vector, len(vs[0]))
	for k, v := range vs {
		if len(v) != len(out) {
			return nil, fmt.Errorf("%w: vectors of %d and %d", dynamo.ErrDimensionMismatch, len(out), len(v))
		}
		for i, x := range v {
			out[i] += coef[k] * x
		}
	}
	return out, nil
}

// Round rounds x to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	if math.IsInf(x*p, 0) {
		return x
	}
	return math.Round(x*p) / p
}

func (v Vector) Round(decimals int) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = Round(x, decimals)
	}
	return out
}
