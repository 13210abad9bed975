// Package vehicle holds the lumped-parameter suspension models integrated by
// the dynamic analyses.
package vehicle

import (
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
)

// NoAngularDOF is returned by models without a rotational coordinate.
const NoAngularDOF = -1

// Model is a suspension model with constant matrices and a time-dependent
// force.
type Model interface {
	dynamo.Configurable

	Name() string
	DegreesOfFreedom() int
	Validate() error

	Mass() linalg.Matrix
	Damping() linalg.Matrix
	Stiffness() linalg.Matrix
	Force(t float64) linalg.Vector

	// Deformation converts a result measured from the system origin into
	// the deformation of each spring element.
	Deformation(r newmark.Result) newmark.Result

	// AngularIndex is the coordinate reinterpreted under large
	// displacements, or NoAngularDOF.
	AngularIndex() int

	Channels() []string
	DeformationChannels() []string

	Clone() Model
}

// System returns the matrices of m in the form the integrator takes.
func System(m Model) newmark.System {
	return newmark.System{Mass: m.Mass(), Stiffness: m.Stiffness(), Damping: m.Damping()}
}

func diagonal(values ...float64) linalg.Matrix {
	m := linalg.NewMatrix(len(values), len(values))
	for i, v := range values {
		m[i][i] = v
	}
	return m
}

func positive(name string, v float64) error {
	if v <= 0 {
		return dynamo.Invalid("%s must be positive, got %v", name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if v < 0 {
		return dynamo.Invalid("%s must not be negative, got %v", name, v)
	}
	return nil
}
