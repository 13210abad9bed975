package element

import (
	"github.com/san-kum/structdyn/internal/boundary"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/material"
)

// Beam is an Euler-Bernoulli beam split in equal elements.
type Beam struct {
	NumberOfElements int
	Length           float64
	Area             []float64
	MomentOfInertia  []float64
	Material         material.Material
	Fastenings       map[int]boundary.Fastening
	Force            linalg.Vector
}

func (b *Beam) Elements() int { return b.NumberOfElements }

func (b *Beam) Nodes() int { return b.NumberOfElements + 1 }

func (b *Beam) DegreesOfFreedom() int { return BeamNodeDOF * b.Nodes() }

func (b *Beam) ElementLength() float64 { return b.Length / float64(b.NumberOfElements) }

func (b *Beam) ElementMass(n int) linalg.Matrix {
	return beamMass(b.Area[n], b.Material.SpecificMass, b.ElementLength())
}

func (b *Beam) ElementStiffness(n int) linalg.Matrix {
	return beamStiffness(b.MomentOfInertia[n], b.Material.YoungModulus, b.ElementLength())
}

// Mask returns the boundary condition mask of the mechanical degrees of freedom.
func (b *Beam) Mask() ([]bool, int) {
	return boundary.Mask(b.Fastenings, b.Nodes())
}

func (b *Beam) Validate() error {
	if b.NumberOfElements < 1 {
		return dynamo.Invalid("number of elements must be at least 1, got %d", b.NumberOfElements)
	}
	if b.Length <= 0 {
		return dynamo.Invalid("beam length must be positive, got %v", b.Length)
	}
	if len(b.Area) != b.NumberOfElements || len(b.MomentOfInertia) != b.NumberOfElements {
		return dynamo.Invalid("expected %d element areas and inertias, got %d and %d",
			b.NumberOfElements, len(b.Area), len(b.MomentOfInertia))
	}
	if len(b.Force) != b.DegreesOfFreedom() {
		return dynamo.Invalid("force vector has %d entries, want %d", len(b.Force), b.DegreesOfFreedom())
	}
	return nil
}

// EquivalentForce is the nodal force vector.
func (b *Beam) EquivalentForce() linalg.Vector { return b.Force.Clone() }
