package element

import (
	"slices"

	"github.com/san-kum/structdyn/internal/boundary"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
)

// Piezoelectric is a rectangular beam with piezoelectric plates bonded on
// some of its elements.
type Piezoelectric struct {
	Beam

	// Elements carrying piezoelectric material, numbered from 1.
	PiezoelectricElements []int

	PiezoelectricArea         []float64
	PiezoelectricInertia      []float64
	PiezoelectricSpecificMass float64
	PiezoelectricHeight       float64
	PiezoelectricWidth        float64
	BeamHeight                float64
	DielectricConstant        float64
	DielectricPermissiveness  float64
	ElasticityConstant        float64
	ElectricalCharge          linalg.Vector
}

func (p *Piezoelectric) covered(n int) bool {
	return slices.Contains(p.PiezoelectricElements, n+1)
}

func (p *Piezoelectric) ElementMass(n int) linalg.Matrix {
	m := p.Beam.ElementMass(n)
	if !p.covered(n) {
		return m
	}
	out, _ := linalg.Sum(m, beamMass(p.PiezoelectricArea[n], p.PiezoelectricSpecificMass, p.ElementLength()))
	return out
}

func (p *Piezoelectric) ElementStiffness(n int) linalg.Matrix {
	k := p.Beam.ElementStiffness(n)
	if !p.covered(n) {
		return k
	}
	out, _ := linalg.Sum(k, p.PiezoelectricStiffness(n))
	return out
}

// PiezoelectricStiffness is the stiffness added by the plates of element n.
func (p *Piezoelectric) PiezoelectricStiffness(n int) linalg.Matrix {
	if !p.covered(n) {
		return linalg.NewMatrix(4, 4)
	}
	return beamStiffness(p.PiezoelectricInertia[n], p.ElasticityConstant, p.ElementLength())
}

// ElementCoupling is the 4x2 electromechanical block of element n.
func (p *Piezoelectric) ElementCoupling(n int) linalg.Matrix {
	out := linalg.NewMatrix(4, 2)
	if !p.covered(n) {
		return out
	}

	l := p.ElementLength()
	h := p.PiezoelectricHeight
	k := -(p.DielectricPermissiveness * p.PiezoelectricWidth * l / 2) * (2*p.BeamHeight*h + h*h)

	out[1][0] = -l * k
	out[1][1] = l * k
	out[2][1] = l * k
	out[3][0] = l * k
	out[3][1] = -l * k
	return out
}

// ElementCapacitance is the 2x2 capacitance block of element n.
func (p *Piezoelectric) ElementCapacitance(n int) linalg.Matrix {
	out := linalg.NewMatrix(2, 2)
	if !p.covered(n) {
		return out
	}

	h := p.PiezoelectricHeight
	c := -p.DielectricConstant * p.PiezoelectricArea[n] * p.ElementLength() / (h * h)
	out[0][0], out[0][1] = c, -c
	out[1][0], out[1][1] = -c, c
	return out
}

// Mask concatenates the mechanical mask with the electrical one.
func (p *Piezoelectric) Mask() ([]bool, int) {
	mechanical, _ := p.Beam.Mask()
	electrical, _ := boundary.PiezoelectricMask(p.PiezoelectricElements, p.Nodes())
	return boundary.Concat(mechanical, electrical)
}

// EquivalentForce is the mechanical force followed by the electrical charge.
func (p *Piezoelectric) EquivalentForce() linalg.Vector {
	return EquivalentForce(p.Force, p.ElectricalCharge)
}

func (p *Piezoelectric) Validate() error {
	if err := p.Beam.Validate(); err != nil {
		return err
	}
	for _, e := range p.PiezoelectricElements {
		if e < 1 || e > p.NumberOfElements {
			return dynamo.Invalid("piezoelectric element %d outside 1..%d", e, p.NumberOfElements)
		}
	}
	if len(p.PiezoelectricArea) != p.NumberOfElements || len(p.PiezoelectricInertia) != p.NumberOfElements {
		return dynamo.Invalid("expected %d piezoelectric areas and inertias", p.NumberOfElements)
	}
	if p.PiezoelectricHeight <= 0 {
		return dynamo.Invalid("piezoelectric height must be positive, got %v", p.PiezoelectricHeight)
	}
	if len(p.ElectricalCharge) != p.Nodes() {
		return dynamo.Invalid("electrical charge has %d entries, want %d", len(p.ElectricalCharge), p.Nodes())
	}
	return nil
}
