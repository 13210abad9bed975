package vehicle

import (
	"math"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/excitation"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
)

// Half-car coordinates.
const (
	CarLinear = iota
	CarAngular
	Engine
	Driver
	RearUnsprung
	FrontUnsprung
	HalfCarDOF
)

// HalfCar is the 6-DOF pitch-plane model: a rigid chassis carrying an
// engine on its mount and a driver on the seat, on rear and front
// suspensions with unsprung masses and tires.
//
// Distances are measured from the chassis centre of mass; the engine and
// rear sit behind it, the driver and front ahead of it. EngineFrequency is
// in RPM. The rear tire sees the base excitation delayed by the wheelbase
// over the car speed.
type HalfCar struct {
	CarMass               float64 `json:"car_mass" yaml:"car_mass"`
	CarMomentOfInertia    float64 `json:"car_moment_of_inertia" yaml:"car_moment_of_inertia"`
	FrontMassDistribution float64 `json:"front_mass_distribution" yaml:"front_mass_distribution"`
	RearMassDistribution  float64 `json:"rear_mass_distribution" yaml:"rear_mass_distribution"`

	EngineMass           float64 `json:"engine_mass" yaml:"engine_mass"`
	EngineMountStiffness float64 `json:"engine_mount_stiffness" yaml:"engine_mount_stiffness"`
	EngineDistance       float64 `json:"engine_distance" yaml:"engine_distance"`
	EngineForce          float64 `json:"engine_force" yaml:"engine_force"`
	EngineFrequency      float64 `json:"engine_frequency" yaml:"engine_frequency"`

	RearDamping       float64 `json:"rear_damping" yaml:"rear_damping"`
	RearStiffness     float64 `json:"rear_stiffness" yaml:"rear_stiffness"`
	RearTireStiffness float64 `json:"rear_tire_stiffness" yaml:"rear_tire_stiffness"`
	RearDistance      float64 `json:"rear_distance" yaml:"rear_distance"`
	RearUnsprungMass  float64 `json:"rear_unsprung_mass" yaml:"rear_unsprung_mass"`

	FrontDamping       float64 `json:"front_damping" yaml:"front_damping"`
	FrontStiffness     float64 `json:"front_stiffness" yaml:"front_stiffness"`
	FrontTireStiffness float64 `json:"front_tire_stiffness" yaml:"front_tire_stiffness"`
	FrontDistance      float64 `json:"front_distance" yaml:"front_distance"`
	FrontUnsprungMass  float64 `json:"front_unsprung_mass" yaml:"front_unsprung_mass"`

	DriverMass     float64 `json:"driver_mass" yaml:"driver_mass"`
	SeatStiffness  float64 `json:"seat_stiffness" yaml:"seat_stiffness"`
	DriverDistance float64 `json:"driver_distance" yaml:"driver_distance"`

	Excitation *excitation.Curve `json:"base_excitation,omitempty" yaml:"base_excitation,omitempty"`
}

// NewHalfCar returns an off-road prototype crossing a 10 cm bump at 20 km/h.
func NewHalfCar() *HalfCar {
	bump := excitation.Bump(0.1, 0.3, 20)
	return &HalfCar{
		CarMass:               200,
		CarMomentOfInertia:    90,
		FrontMassDistribution: 0.45,
		RearMassDistribution:  0.55,

		EngineMass:           40,
		EngineMountStiffness: 1e5,
		EngineDistance:       0.4,
		EngineForce:          60,
		EngineFrequency:      3600,

		RearDamping:       1500,
		RearStiffness:     3e4,
		RearTireStiffness: 1.2e5,
		RearDistance:      0.65,
		RearUnsprungMass:  20,

		FrontDamping:       1200,
		FrontStiffness:     2.5e4,
		FrontTireStiffness: 1.2e5,
		FrontDistance:      0.75,
		FrontUnsprungMass:  18,

		DriverMass:     80,
		SeatStiffness:  5e4,
		DriverDistance: 0.15,

		Excitation: &bump,
	}
}

func (h *HalfCar) Name() string          { return "half-car" }
func (h *HalfCar) DegreesOfFreedom() int { return HalfCarDOF }
func (h *HalfCar) AngularIndex() int     { return CarAngular }

func (h *HalfCar) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"car mass", h.CarMass},
		{"car moment of inertia", h.CarMomentOfInertia},
		{"engine mass", h.EngineMass},
		{"driver mass", h.DriverMass},
		{"rear unsprung mass", h.RearUnsprungMass},
		{"front unsprung mass", h.FrontUnsprungMass},
	} {
		if err := positive(c.name, c.v); err != nil {
			return err
		}
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"engine mount stiffness", h.EngineMountStiffness},
		{"rear damping", h.RearDamping},
		{"rear stiffness", h.RearStiffness},
		{"rear tire stiffness", h.RearTireStiffness},
		{"rear distance", h.RearDistance},
		{"front damping", h.FrontDamping},
		{"front stiffness", h.FrontStiffness},
		{"front tire stiffness", h.FrontTireStiffness},
		{"front distance", h.FrontDistance},
		{"seat stiffness", h.SeatStiffness},
	} {
		if err := nonNegative(c.name, c.v); err != nil {
			return err
		}
	}
	if h.Excitation != nil {
		return h.Excitation.Validate()
	}
	return nil
}

func (h *HalfCar) Mass() linalg.Matrix {
	return diagonal(h.CarMass, h.CarMomentOfInertia, h.EngineMass, h.DriverMass, h.RearUnsprungMass, h.FrontUnsprungMass)
}

func (h *HalfCar) Damping() linalg.Matrix {
	cr, cf := h.RearDamping, h.FrontDamping
	lr, lf := h.RearDistance, h.FrontDistance

	c := linalg.NewMatrix(HalfCarDOF, HalfCarDOF)
	c[0][0] = cr + cf
	c[0][1] = -cr*lr + cf*lf
	c[0][4] = -cr
	c[0][5] = -cf

	c[1][0] = c[0][1]
	c[1][1] = cr*lr*lr + cf*lf*lf
	c[1][4] = cr * lr
	c[1][5] = -cf * lf

	c[4][0] = -cr
	c[4][1] = cr * lr
	c[4][4] = cr

	c[5][0] = -cf
	c[5][1] = -cf * lf
	c[5][5] = cf
	return c
}

func (h *HalfCar) Stiffness() linalg.Matrix {
	kr, kf, ke, ks := h.RearStiffness, h.FrontStiffness, h.EngineMountStiffness, h.SeatStiffness
	lr, lf, le, ld := h.RearDistance, h.FrontDistance, h.EngineDistance, h.DriverDistance

	k := linalg.NewMatrix(HalfCarDOF, HalfCarDOF)
	k[0][0] = kr + kf + ke + ks
	k[0][1] = -kr*lr + kf*lf - ke*le + ks*ld
	k[0][2] = -ke
	k[0][3] = -ks
	k[0][4] = -kr
	k[0][5] = -kf

	k[1][0] = k[0][1]
	k[1][1] = kr*lr*lr + kf*lf*lf + ke*le*le + ks*ld*ld
	k[1][2] = ke * le
	k[1][3] = -ks * ld
	k[1][4] = kr * lr
	k[1][5] = -kf * lf

	k[2][0] = -ke
	k[2][1] = ke * le
	k[2][2] = ke

	k[3][0] = -ks
	k[3][1] = -ks * ld
	k[3][3] = ks

	k[4][0] = -kr
	k[4][1] = kr * lr
	k[4][4] = kr + h.RearTireStiffness

	k[5][0] = -kf
	k[5][1] = -kf * lf
	k[5][5] = kf + h.FrontTireStiffness
	return k
}

// Force is the applied load (gravity, engine unbalance) plus the tire
// stiffness times the base displacement under each wheel.
func (h *HalfCar) Force(t float64) linalg.Vector {
	g := dynamo.Gravity
	we := dynamo.RPMToRadPerSecond(h.EngineFrequency)

	f := make(linalg.Vector, HalfCarDOF)
	f[CarLinear] = -h.CarMass * g
	f[CarAngular] = (h.RearMassDistribution*h.RearDistance - h.FrontMassDistribution*h.FrontDistance) * h.CarMass * g
	f[Engine] = -h.EngineMass*g - h.EngineForce*math.Sin(we*t)
	f[Driver] = -h.DriverMass * g
	f[RearUnsprung] = -h.RearUnsprungMass * g
	f[FrontUnsprung] = -h.FrontUnsprungMass * g

	rear, front := h.base(t, excitation.Curve.Displacement)
	f[RearUnsprung] += h.RearTireStiffness * rear
	f[FrontUnsprung] += h.FrontTireStiffness * front
	return f
}

// base evaluates fn for the rear and front tire at time t.
func (h *HalfCar) base(t float64, fn func(excitation.Curve, float64) float64) (rear, front float64) {
	if h.Excitation == nil {
		return 0, 0
	}
	delay := (h.RearDistance + h.FrontDistance) / h.Excitation.SpeedMetersPerSecond()
	return fn(*h.Excitation, t-delay), fn(*h.Excitation, t)
}

func (h *HalfCar) Deformation(r newmark.Result) newmark.Result {
	out := newmark.Result{Time: r.Time}
	out.Displacement = h.deform(r.Displacement, r.Time, excitation.Curve.Displacement)
	out.Velocity = h.deform(r.Velocity, r.Time, excitation.Curve.Velocity)
	out.Acceleration = h.deform(r.Acceleration, r.Time, excitation.Curve.Acceleration)
	return out
}

func (h *HalfCar) deform(x linalg.Vector, t float64, fn func(excitation.Curve, float64) float64) linalg.Vector {
	rear, front := h.base(t, fn)
	return linalg.Vector{
		x[CarLinear] - h.EngineDistance*x[CarAngular] - x[Engine],
		x[CarLinear] + h.DriverDistance*x[CarAngular] - x[Driver],
		x[CarLinear] - h.RearDistance*x[CarAngular] - x[RearUnsprung],
		x[CarLinear] + h.FrontDistance*x[CarAngular] - x[FrontUnsprung],
		x[RearUnsprung] - rear,
		x[FrontUnsprung] - front,
	}
}

func (h *HalfCar) Channels() []string {
	return []string{"car_linear", "car_angular", "engine", "driver", "rear", "front"}
}

func (h *HalfCar) DeformationChannels() []string {
	return []string{"engine_mount", "seat", "rear", "front", "rear_tire", "front_tire"}
}

func (h *HalfCar) Clone() Model {
	c := *h
	if h.Excitation != nil {
		e := *h.Excitation
		e.Constants = append([]float64(nil), h.Excitation.Constants...)
		if h.Excitation.LimitTimes != nil {
			e.LimitTimes = append([]float64(nil), h.Excitation.LimitTimes...)
		}
		c.Excitation = &e
	}
	return &c
}

// fields maps parameter names to struct fields. car_speed and
// obstacle_height reach into the base excitation when there is one.
func (h *HalfCar) fields() map[string]*float64 {
	f := map[string]*float64{
		"car_mass":                &h.CarMass,
		"car_moment_of_inertia":   &h.CarMomentOfInertia,
		"front_mass_distribution": &h.FrontMassDistribution,
		"rear_mass_distribution":  &h.RearMassDistribution,
		"engine_mass":             &h.EngineMass,
		"engine_mount_stiffness":  &h.EngineMountStiffness,
		"engine_distance":         &h.EngineDistance,
		"engine_force":            &h.EngineForce,
		"engine_frequency":        &h.EngineFrequency,
		"rear_damping":            &h.RearDamping,
		"rear_stiffness":          &h.RearStiffness,
		"rear_tire_stiffness":     &h.RearTireStiffness,
		"rear_distance":           &h.RearDistance,
		"rear_unsprung_mass":      &h.RearUnsprungMass,
		"front_damping":           &h.FrontDamping,
		"front_stiffness":         &h.FrontStiffness,
		"front_tire_stiffness":    &h.FrontTireStiffness,
		"front_distance":          &h.FrontDistance,
		"front_unsprung_mass":     &h.FrontUnsprungMass,
		"driver_mass":             &h.DriverMass,
		"seat_stiffness":          &h.SeatStiffness,
		"driver_distance":         &h.DriverDistance,
	}
	if h.Excitation != nil {
		f["car_speed"] = &h.Excitation.CarSpeed
		if h.Excitation.Type == excitation.Cosine && len(h.Excitation.Constants) > 0 {
			f["obstacle_height"] = &h.Excitation.Constants[0]
		}
	}
	return f
}

func (h *HalfCar) GetParams() map[string]float64 { return dynamo.Params(h.fields()) }

func (h *HalfCar) SetParam(name string, value float64) error {
	return dynamo.SetParam(h.fields(), name, value)
}
