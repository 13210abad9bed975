package vehicle

import (
	"math"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
)

const TwoMassDOF = 2

// TwoMass is a primary rigid body on a spring and damper over a fixed base,
// carrying a secondary body on its own spring and damper. The harmonic
// force F·cos(ωt) acts on the primary body.
//
//	M = [[m1, 0], [0, m2]]    K = [[k1+k2, -k2], [-k2, k2]]
type TwoMass struct {
	PrimaryMass        float64 `json:"primary_mass" yaml:"primary_mass"`
	PrimaryStiffness   float64 `json:"primary_stiffness" yaml:"primary_stiffness"`
	PrimaryDamping     float64 `json:"primary_damping" yaml:"primary_damping"`
	SecondaryMass      float64 `json:"secondary_mass" yaml:"secondary_mass"`
	SecondaryStiffness float64 `json:"secondary_stiffness" yaml:"secondary_stiffness"`
	SecondaryDamping   float64 `json:"secondary_damping" yaml:"secondary_damping"`
	ForceAmplitude     float64 `json:"force" yaml:"force"`
	Frequency          float64 `json:"frequency" yaml:"frequency"`
	Hertz              bool    `json:"hertz,omitempty" yaml:"hertz,omitempty"`
}

// NewTwoMass is a quarter-car body with an absorber tuned to its natural
// frequency.
func NewTwoMass() *TwoMass {
	return &TwoMass{
		PrimaryMass:        250,
		PrimaryStiffness:   2.5e4,
		PrimaryDamping:     500,
		SecondaryMass:      25,
		SecondaryStiffness: 2500,
		SecondaryDamping:   20,
		ForceAmplitude:     500,
		Frequency:          10,
	}
}

func (m *TwoMass) Name() string          { return "two-mass" }
func (m *TwoMass) DegreesOfFreedom() int { return TwoMassDOF }
func (m *TwoMass) AngularIndex() int     { return NoAngularDOF }

func (m *TwoMass) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"primary_mass", m.PrimaryMass},
		{"secondary_mass", m.SecondaryMass},
		{"secondary_stiffness", m.SecondaryStiffness},
	} {
		if err := positive(p.name, p.v); err != nil {
			return err
		}
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"primary_stiffness", m.PrimaryStiffness},
		{"primary_damping", m.PrimaryDamping},
		{"secondary_damping", m.SecondaryDamping},
		{"frequency", m.Frequency},
	} {
		if err := nonNegative(p.name, p.v); err != nil {
			return err
		}
	}
	return nil
}

// AngularFrequency is ω in rad/s.
func (m *TwoMass) AngularFrequency() float64 {
	if m.Hertz {
		return dynamo.HertzToRadPerSecond(m.Frequency)
	}
	return m.Frequency
}

func (m *TwoMass) Mass() linalg.Matrix { return diagonal(m.PrimaryMass, m.SecondaryMass) }

func (m *TwoMass) Stiffness() linalg.Matrix {
	return coupled(m.PrimaryStiffness, m.SecondaryStiffness)
}

func (m *TwoMass) Damping() linalg.Matrix {
	return coupled(m.PrimaryDamping, m.SecondaryDamping)
}

func coupled(ground, between float64) linalg.Matrix {
	return linalg.Matrix{
		{ground + between, -between},
		{-between, between},
	}
}

func (m *TwoMass) Force(t float64) linalg.Vector {
	return linalg.Vector{m.ForceAmplitude * math.Cos(m.AngularFrequency()*t), 0}
}

// Deformation is the primary displacement and the stretch of the secondary
// spring.
func (m *TwoMass) Deformation(r newmark.Result) newmark.Result {
	rel := func(v linalg.Vector) linalg.Vector { return linalg.Vector{v[0], v[1] - v[0]} }
	return newmark.Result{
		Time:         r.Time,
		Displacement: rel(r.Displacement),
		Velocity:     rel(r.Velocity),
		Acceleration: rel(r.Acceleration),
	}
}

func (m *TwoMass) Channels() []string { return []string{"primary", "secondary"} }
func (m *TwoMass) DeformationChannels() []string {
	return []string{"primary_spring", "secondary_spring"}
}

func (m *TwoMass) Clone() Model {
	c := *m
	return &c
}

func (m *TwoMass) fields() map[string]*float64 {
	return map[string]*float64{
		"primary_mass":        &m.PrimaryMass,
		"primary_stiffness":   &m.PrimaryStiffness,
		"primary_damping":     &m.PrimaryDamping,
		"secondary_mass":      &m.SecondaryMass,
		"secondary_stiffness": &m.SecondaryStiffness,
		"secondary_damping":   &m.SecondaryDamping,
		"force":               &m.ForceAmplitude,
		"frequency":           &m.Frequency,
	}
}

func (m *TwoMass) GetParams() map[string]float64 { return dynamo.Params(m.fields()) }

func (m *TwoMass) SetParam(name string, value float64) error {
	return dynamo.SetParam(m.fields(), name, value)
}
