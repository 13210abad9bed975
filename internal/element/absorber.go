package element

import (
	"github.com/san-kum/structdyn/internal/boundary"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
)

// Absorber is a dynamic vibration absorber: a lumped mass hung from the
// transverse displacement of a beam node by a spring.
type Absorber struct {
	Node      int
	Mass      float64
	Stiffness float64
}

// Attached is a Builder carrying absorbers. Each absorber adds one degree of
// freedom after the beam ones, in order.
type Attached interface {
	Builder
	Absorbers() []Absorber
}

// WithAbsorbers is a beam with dynamic vibration absorbers.
type WithAbsorbers struct {
	Beam

	Attachments []Absorber
}

func (b *WithAbsorbers) Absorbers() []Absorber { return b.Attachments }

func (b *WithAbsorbers) DegreesOfFreedom() int {
	return b.Beam.DegreesOfFreedom() + len(b.Attachments)
}

// Mask leaves every absorber free.
func (b *WithAbsorbers) Mask() ([]bool, int) {
	beam, _ := b.Beam.Mask()
	free := make([]bool, len(b.Attachments))
	for i := range free {
		free[i] = true
	}
	return boundary.Concat(beam, free)
}

// EquivalentForce pads the beam force with zeros on the absorbers.
func (b *WithAbsorbers) EquivalentForce() linalg.Vector {
	return EquivalentForce(b.Force, make(linalg.Vector, len(b.Attachments)))
}

func (b *WithAbsorbers) Validate() error {
	if err := b.Beam.Validate(); err != nil {
		return err
	}
	for i, a := range b.Attachments {
		if a.Node < 0 || a.Node > b.NumberOfElements {
			return dynamo.Invalid("absorber %d node %d outside 0..%d", i, a.Node, b.NumberOfElements)
		}
		if a.Mass <= 0 || a.Stiffness <= 0 {
			return dynamo.Invalid("absorber %d needs positive mass and stiffness, got %v and %v", i, a.Mass, a.Stiffness)
		}
	}
	return nil
}

// AttachAbsorbers grows mass and stiffness by one row and column per
// absorber. The spring couples the absorber with the transverse degree of
// freedom of its node:
//
//	K[v][v] += k    K[v][a] = K[a][v] = -k    K[a][a] = k    M[a][a] = m
func AttachAbsorbers(mass, stiffness linalg.Matrix, absorbers []Absorber) (linalg.Matrix, linalg.Matrix) {
	n := mass.Rows()
	size := n + len(absorbers)
	m, k := linalg.NewMatrix(size, size), linalg.NewMatrix(size, size)
	for i := 0; i < n; i++ {
		copy(m[i], mass[i])
		copy(k[i], stiffness[i])
	}
	for i, a := range absorbers {
		v, d := BeamNodeDOF*a.Node, n+i
		k[v][v] += a.Stiffness
		k[v][d] -= a.Stiffness
		k[d][v] -= a.Stiffness
		k[d][d] += a.Stiffness
		m[d][d] += a.Mass
	}
	return m, k
}
