package reaction

import (
	"maps"
	"slices"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
)

// Position is the axle a knuckle belongs to. Only the front one steers.
type Position string

const (
	Front Position = "front"
	Rear  Position = "rear"
)

// Bearing is a wheel bearing seen from the knuckle.
type Bearing struct {
	EffectiveRadius  float64 `json:"effective_radius"`
	AxialLoadFactor  float64 `json:"axial_load_factor"`
	RadialLoadFactor float64 `json:"radial_load_factor"`
}

const DefaultBearing = "bearing1"

var bearings = map[string]Bearing{
	DefaultBearing: {EffectiveRadius: 45.3e-3, AxialLoadFactor: 1, RadialLoadFactor: 1.6},
}

func GetBearing(name string) (Bearing, error) {
	b, ok := bearings[name]
	if !ok {
		return Bearing{}, dynamo.Invalid("unknown bearing %q (available: %v)", name, slices.Sorted(maps.Keys(bearings)))
	}
	return b, nil
}

// BrakeCaliperSupport holds the two points bolting the brake caliper to
// the knuckle.
type BrakeCaliperSupport struct {
	Point1 Vector3 `json:"point1" yaml:"point1"`
	Point2 Vector3 `json:"point2" yaml:"point2"`
}

// KnuckleLoad is what the knuckle carries besides the suspension members.
// InertialForce is the brake caliper pushing on its support when it grips
// the disc, applied at InertialForcePoint.
type KnuckleLoad struct {
	Position           Position            `json:"position" yaml:"position"`
	SteeringWheelForce Vector3             `json:"steering_wheel_force" yaml:"steering_wheel_force"`
	Bearing            string              `json:"bearing" yaml:"bearing"`
	BearingTorque      float64             `json:"bearing_torque" yaml:"bearing_torque"`
	InertialForce      Vector3             `json:"inertial_force" yaml:"inertial_force"`
	InertialForcePoint Vector3             `json:"inertial_force_point" yaml:"inertial_force_point"`
	BrakeCaliper       BrakeCaliperSupport `json:"brake_caliper_support" yaml:"brake_caliper_support"`
}

// KnuckleResult holds the forces on the knuckle at each of its attachments.
// The caliper supports cannot resist torque about the line through them;
// that component of the inertial moment is reported as UnsupportedTorque.
type KnuckleResult struct {
	UpperWishbone       Vector3    `json:"upper_wishbone"`
	LowerWishbone       Vector3    `json:"lower_wishbone"`
	TieRod              Vector3    `json:"tie_rod"`
	BrakeCaliperSupport [2]Vector3 `json:"brake_caliper_support"`
	UnsupportedTorque   float64    `json:"unsupported_torque"`
	Bearing             float64    `json:"bearing"`
}

func (l KnuckleLoad) Validate() error {
	if l.Position != Front && l.Position != Rear {
		return dynamo.Invalid("knuckle position must be %q or %q, got %q", Front, Rear, l.Position)
	}
	if l.BrakeCaliper.Point1 == l.BrakeCaliper.Point2 {
		return dynamo.Invalid("brake caliper support points must differ")
	}
	_, err := GetBearing(l.Bearing)
	return err
}

// Knuckle collects the member reactions of r on the knuckle and solves the
// bearing and brake caliper supports for load. Each wishbone acts through
// its ball joint, so its two member forces add up. The steering wheel force
// reaches the tie rod of a front knuckle only.
func Knuckle(r Result, load KnuckleLoad) (KnuckleResult, error) {
	if err := load.Validate(); err != nil {
		return KnuckleResult{}, err
	}
	b, _ := GetBearing(load.Bearing)

	f := r.Reactions
	res := KnuckleResult{
		UpperWishbone: f[UpperWishboneFront].Vector.Add(f[UpperWishboneRear].Vector),
		LowerWishbone: f[LowerWishboneFront].Vector.Add(f[LowerWishboneRear].Vector),
		TieRod:        f[TieRod].Vector,
		Bearing:       load.BearingTorque / b.EffectiveRadius * b.RadialLoadFactor,
	}
	if load.Position == Front {
		res.TieRod = res.TieRod.Add(load.SteeringWheelForce)
	}
	res.BrakeCaliperSupport, res.UnsupportedTorque = CaliperSupports(load.BrakeCaliper, load.InertialForce, load.InertialForcePoint)
	return res, nil
}

// CaliperSupports splits force, applied at point, between the two supports.
// Taking moments about Point1 with a = Point2 - Point1 and
// m = (point - Point1) x force, the second support carries the force normal
// to a that balances m:
//
//	R2 = (m x a) / |a|²    R1 = force - R2
//
// The component of m along a is returned as the unsupported torque.
func CaliperSupports(s BrakeCaliperSupport, force, point Vector3) ([2]Vector3, float64) {
	a := s.Point2.Sub(s.Point1)
	m := point.Sub(s.Point1).Cross(force)
	r2 := m.Cross(a).Scale(1 / a.Dot(a))
	return [2]Vector3{force.Sub(r2), r2}, m.Dot(a.Unit())
}

// Round returns a copy rounded to the given number of decimals.
func (r KnuckleResult) Round(decimals int) KnuckleResult {
	round := func(v Vector3) Vector3 {
		return Vector3{X: linalg.Round(v.X, decimals), Y: linalg.Round(v.Y, decimals), Z: linalg.Round(v.Z, decimals)}
	}
	return KnuckleResult{
		UpperWishbone:       round(r.UpperWishbone),
		LowerWishbone:       round(r.LowerWishbone),
		TieRod:              round(r.TieRod),
		BrakeCaliperSupport: [2]Vector3{round(r.BrakeCaliperSupport[0]), round(r.BrakeCaliperSupport[1])},
		UnsupportedTorque:   linalg.Round(r.UnsupportedTorque, decimals),
		Bearing:             linalg.Round(r.Bearing, decimals),
	}
}
