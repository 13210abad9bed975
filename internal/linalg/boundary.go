package linalg

import "fmt"

// ApplyBoundaryConditions keeps the rows and columns of m whose mask entry is
// true, preserving order. trueCount must equal the number of true entries.
func ApplyBoundaryConditions(m Matrix, mask []bool, trueCount int) Matrix {
	checkMask(mask, trueCount)
	if m.Rows() != len(mask) || !m.IsSquare() {
		panic(fmt.Sprintf("linalg: %dx%d matrix with mask of %d", m.Rows(), m.Cols(), len(mask)))
	}

	out := NewMatrix(trueCount, trueCount)
	r := 0
	for i := range m {
		if !mask[i] {
			continue
		}
		c := 0
		for j := range m[i] {
			if !mask[j] {
				continue
			}
			out[r][c] = m[i][j]
			c++
		}
		r++
	}
	return out
}

func ApplyBoundaryConditionsVector(v Vector, mask []bool, trueCount int) Vector {
	checkMask(mask, trueCount)
	if len(v) != len(mask) {
		panic(fmt.Sprintf("linalg: vector of %d with mask of %d", len(v), len(mask)))
	}

	out := make(Vector, 0, trueCount)
	for i, x := range v {
		if mask[i] {
			out = append(out, x)
		}
	}
	return out
}

func checkMask(mask []bool, trueCount int) {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	if n != trueCount {
		panic(fmt.Sprintf("linalg: trueCount %d but mask has %d free entries", trueCount, n))
	}
}
