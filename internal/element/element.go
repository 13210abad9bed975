// Package element builds Euler-Bernoulli element matrices and assembles them
// into global mass, stiffness and damping matrices.
//
// Each beam kind is a [Builder]. [Assemble] is the single assembly loop for
// every kind. Kinds that also implement [Electromechanical] get the coupling
// and capacitance blocks of a piezoelectric system, and [Attached] kinds get
// one extra degree of freedom per absorber.
package element

import (
	"github.com/san-kum/structdyn/internal/linalg"
)

// Rayleigh damping coefficients: C = Mu*M + Alpha*K.
const (
	Mu    = 0.0
	Alpha = 1e-5
)

// Degrees of freedom per node.
const (
	BeamNodeDOF  = 2
	PiezoNodeDOF = 1
)

// Builder produces the element matrices of one beam kind.
type Builder interface {
	Elements() int
	ElementMass(n int) linalg.Matrix
	ElementStiffness(n int) linalg.Matrix
}

// Electromechanical is a Builder with piezoelectric coupling terms. Elements
// without piezoelectric material return zero blocks.
type Electromechanical interface {
	Builder
	ElementCoupling(n int) linalg.Matrix
	ElementCapacitance(n int) linalg.Matrix
}

// Matrices is an assembled system before boundary conditions.
type Matrices struct {
	Mass      linalg.Matrix
	Stiffness linalg.Matrix
	Damping   linalg.Matrix
}

// Assemble builds the global matrices for b. For Electromechanical builders
// the result holds the equivalent block matrices
//
//	K = [[K, T], [T', Cp]]    M = [[M, 0], [0, 0]]
//
// Absorbers are appended after those, and damping is computed from the
// final mass and stiffness.
func Assemble[B Builder](b B) (Matrices, error) {
	nodes := b.Elements() + 1
	mechanical := BeamNodeDOF * nodes

	mass := sumBlocks(mechanical, mechanical, b.Elements(), BeamNodeDOF, BeamNodeDOF, b.ElementMass)
	stiffness := sumBlocks(mechanical, mechanical, b.Elements(), BeamNodeDOF, BeamNodeDOF, b.ElementStiffness)

	if em, ok := any(b).(Electromechanical); ok {
		coupling := sumBlocks(mechanical, nodes, b.Elements(), BeamNodeDOF, PiezoNodeDOF, em.ElementCoupling)
		capacitance := sumBlocks(nodes, nodes, b.Elements(), PiezoNodeDOF, PiezoNodeDOF, em.ElementCapacitance)
		stiffness = EquivalentStiffness(stiffness, coupling, capacitance)
		mass = EquivalentMass(mass, nodes)
	}
	if at, ok := any(b).(Attached); ok {
		mass, stiffness = AttachAbsorbers(mass, stiffness, at.Absorbers())
	}

	damping, err := Damping(mass, stiffness)
	if err != nil {
		return Matrices{}, err
	}
	return Matrices{Mass: mass, Stiffness: stiffness, Damping: damping}, nil
}

// sumBlocks adds block(n) into a rows x cols matrix at (rowStep*n, colStep*n).
// Overlapping entries of neighbouring elements are summed.
func sumBlocks(rows, cols, elements, rowStep, colStep int, block func(n int) linalg.Matrix) linalg.Matrix {
	global := linalg.NewMatrix(rows, cols)
	for n := 0; n < elements; n++ {
		e := block(n)
		r0, c0 := rowStep*n, colStep*n
		for i := range e {
			for j := range e[i] {
				global[r0+i][c0+j] += e[i][j]
			}
		}
	}
	return global
}

// Damping returns Mu*mass + Alpha*stiffness.
func Damping(mass, stiffness linalg.Matrix) (linalg.Matrix, error) {
	return linalg.Sum(mass.Scale(Mu), stiffness.Scale(Alpha))
}

// EquivalentStiffness lays out [[k, coupling], [coupling', capacitance]].
func EquivalentStiffness(k, coupling, capacitance linalg.Matrix) linalg.Matrix {
	m, p := k.Rows(), capacitance.Rows()
	out := linalg.NewMatrix(m+p, m+p)
	for i := 0; i < m; i++ {
		copy(out[i], k[i])
		for j := 0; j < p; j++ {
			out[i][m+j] = coupling[i][j]
			out[m+j][i] = coupling[i][j]
		}
	}
	for i := 0; i < p; i++ {
		copy(out[m+i][m:], capacitance[i])
	}
	return out
}

// EquivalentMass pads mass with electrical rows and columns of zeros.
func EquivalentMass(mass linalg.Matrix, electrical int) linalg.Matrix {
	m := mass.Rows()
	out := linalg.NewMatrix(m+electrical, m+electrical)
	for i := 0; i < m; i++ {
		copy(out[i], mass[i])
	}
	return out
}

// EquivalentForce appends the electrical charge to the mechanical force.
func EquivalentForce(force, charge linalg.Vector) linalg.Vector {
	out := make(linalg.Vector, 0, len(force)+len(charge))
	out = append(out, force...)
	return append(out, charge...)
}

// beamMass is the consistent mass matrix scaled by area*rho*l/420.
func beamMass(area, specificMass, l float64) linalg.Matrix {
	c := area * specificMass * l / 420
	return linalg.Matrix{
		{156 * c, 22 * l * c, 54 * c, -13 * l * c},
		{22 * l * c, 4 * l * l * c, 13 * l * c, -3 * l * l * c},
		{54 * c, 13 * l * c, 156 * c, -22 * l * c},
		{-13 * l * c, -3 * l * l * c, -22 * l * c, 4 * l * l * c},
	}
}

// beamStiffness is the bending stiffness matrix scaled by I*E/l³.
func beamStiffness(inertia, modulus, l float64) linalg.Matrix {
	c := inertia * modulus / (l * l * l)
	return linalg.Matrix{
		{12 * c, 6 * l * c, -12 * c, 6 * l * c},
		{6 * l * c, 4 * l * l * c, -6 * l * c, 2 * l * l * c},
		{-12 * c, -6 * l * c, 12 * c, -6 * l * c},
		{6 * l * c, 2 * l * l * c, -6 * l * c, 4 * l * l * c},
	}
}
