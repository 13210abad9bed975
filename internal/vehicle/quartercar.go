package vehicle

import (
	"math"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
)

const QuarterCarDOF = 1

// QuarterCar is m·ẍ + c·ẋ + k·x = F·cos(ωt) over a fixed base. Frequency
// is in rad/s unless Hertz is set.
type QuarterCar struct {
	BodyMass           float64 `json:"mass" yaml:"mass"`
	DampingCoefficient float64 `json:"damping" yaml:"damping"`
	SpringStiffness    float64 `json:"stiffness" yaml:"stiffness"`
	ForceAmplitude     float64 `json:"force" yaml:"force"`
	Frequency          float64 `json:"frequency" yaml:"frequency"`
	Hertz              bool    `json:"hertz,omitempty" yaml:"hertz,omitempty"`
}

func NewQuarterCar() *QuarterCar {
	return &QuarterCar{
		BodyMass:           250,
		DampingCoefficient: 1500,
		SpringStiffness:    2.5e4,
		ForceAmplitude:     500,
		Frequency:          10,
	}
}

func (q *QuarterCar) Name() string          { return "quarter-car" }
func (q *QuarterCar) DegreesOfFreedom() int { return QuarterCarDOF }
func (q *QuarterCar) AngularIndex() int     { return NoAngularDOF }

func (q *QuarterCar) Validate() error {
	if err := positive("mass", q.BodyMass); err != nil {
		return err
	}
	if err := nonNegative("damping", q.DampingCoefficient); err != nil {
		return err
	}
	if err := nonNegative("stiffness", q.SpringStiffness); err != nil {
		return err
	}
	return nonNegative("frequency", q.Frequency)
}

// AngularFrequency is ω in rad/s.
func (q *QuarterCar) AngularFrequency() float64 {
	if q.Hertz {
		return dynamo.HertzToRadPerSecond(q.Frequency)
	}
	return q.Frequency
}

func (q *QuarterCar) Mass() linalg.Matrix      { return diagonal(q.BodyMass) }
func (q *QuarterCar) Damping() linalg.Matrix   { return diagonal(q.DampingCoefficient) }
func (q *QuarterCar) Stiffness() linalg.Matrix { return diagonal(q.SpringStiffness) }

func (q *QuarterCar) Force(t float64) linalg.Vector {
	return linalg.Vector{q.ForceAmplitude * math.Cos(q.AngularFrequency()*t)}
}

// Deformation of the single spring equals the displacement of the mass.
func (q *QuarterCar) Deformation(r newmark.Result) newmark.Result {
	return newmark.Result{
		Time:         r.Time,
		Displacement: r.Displacement.Clone(),
		Velocity:     r.Velocity.Clone(),
		Acceleration: r.Acceleration.Clone(),
	}
}

func (q *QuarterCar) Channels() []string            { return []string{"linear"} }
func (q *QuarterCar) DeformationChannels() []string { return []string{"spring"} }

func (q *QuarterCar) Clone() Model {
	c := *q
	return &c
}

func (q *QuarterCar) fields() map[string]*float64 {
	return map[string]*float64{
		"mass":      &q.BodyMass,
		"damping":   &q.DampingCoefficient,
		"stiffness": &q.SpringStiffness,
		"force":     &q.ForceAmplitude,
		"frequency": &q.Frequency,
	}
}

func (q *QuarterCar) GetParams() map[string]float64 { return dynamo.Params(q.fields()) }

func (q *QuarterCar) SetParam(name string, value float64) error {
	return dynamo.SetParam(q.fields(), name, value)
}
