package reaction

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/structdyn/internal/dynamo"
)

func near(a, b Vector3, tol float64) bool {
	return a.Sub(b).Norm() <= tol
}

func frontLoad() KnuckleLoad {
	return KnuckleLoad{
		Position:           Front,
		SteeringWheelForce: Vector3{Z: 150},
		Bearing:            DefaultBearing,
		BearingTorque:      45.3,
		InertialForce:      Vector3{Z: -100},
		InertialForcePoint: Vector3{X: 0.1},
		BrakeCaliper:       BrakeCaliperSupport{Point1: Vector3{}, Point2: Vector3{Y: 0.2}},
	}
}

func TestKnuckleCollectsMemberForces(t *testing.T) {
	g := corner()
	r, err := Solve(Vector3{Y: 3000, Z: 500}, g)
	if err != nil {
		t.Fatal(err)
	}

	load := frontLoad()
	got, err := Knuckle(r, load)
	if err != nil {
		t.Fatalf("Knuckle() error = %v", err)
	}

	f := r.Reactions
	if !near(got.LowerWishbone, f[LowerWishboneFront].Vector.Add(f[LowerWishboneRear].Vector), 0) {
		t.Errorf("lower wishbone = %v", got.LowerWishbone)
	}
	if !near(got.UpperWishbone, f[UpperWishboneFront].Vector.Add(f[UpperWishboneRear].Vector), 0) {
		t.Errorf("upper wishbone = %v", got.UpperWishbone)
	}
	if !near(got.TieRod, f[TieRod].Vector.Add(load.SteeringWheelForce), 0) {
		t.Errorf("front tie rod = %v", got.TieRod)
	}
	if math.Abs(got.Bearing-1.6e3) > 1e-9 {
		t.Errorf("bearing = %v, want 1600", got.Bearing)
	}

	load.Position = Rear
	rear, err := Knuckle(r, load)
	if err != nil {
		t.Fatal(err)
	}
	if rear.TieRod != f[TieRod].Vector {
		t.Errorf("rear tie rod = %v, want %v", rear.TieRod, f[TieRod].Vector)
	}
}

func TestCaliperSupportsBalance(t *testing.T) {
	tests := []struct {
		name    string
		support BrakeCaliperSupport
		force   Vector3
		point   Vector3
	}{
		{"force through the first support", BrakeCaliperSupport{Point2: Vector3{Y: 1}}, Vector3{X: 5, Z: -3}, Vector3{}},
		{"offset force", BrakeCaliperSupport{Point2: Vector3{Y: 0.2}}, Vector3{Z: -100}, Vector3{X: 0.1}},
		{"skewed supports", BrakeCaliperSupport{Point1: Vector3{X: 0.55, Y: 0.28, Z: -0.05}, Point2: Vector3{X: 0.55, Y: 0.18, Z: -0.07}},
			Vector3{X: 200, Z: -1200}, Vector3{X: 0.56, Y: 0.25, Z: -0.08}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, torque := CaliperSupports(tt.support, tt.force, tt.point)
			if !near(r[0].Add(r[1]), tt.force, 1e-9) {
				t.Errorf("supports sum to %v, want %v", r[0].Add(r[1]), tt.force)
			}
			a := tt.support.Point2.Sub(tt.support.Point1)
			m := tt.point.Sub(tt.support.Point1).Cross(tt.force)
			if r[1].Dot(a) > 1e-9 {
				t.Errorf("second support carries %v along the support line", r[1].Dot(a))
			}
			// What the supports leave unbalanced lies along their line.
			left := m.Sub(a.Cross(r[1]))
			if !near(left, a.Unit().Scale(torque), 1e-9) {
				t.Errorf("moment left = %v, unsupported torque = %v", left, torque)
			}
		})
	}
}

// A force through the first support loads it alone.
func TestCaliperSupportsForceAtFirstSupport(t *testing.T) {
	r, torque := CaliperSupports(BrakeCaliperSupport{Point2: Vector3{Y: 1}}, Vector3{X: 5, Z: -3}, Vector3{})
	if r[1] != (Vector3{}) || r[0] != (Vector3{X: 5, Z: -3}) || torque != 0 {
		t.Errorf("CaliperSupports() = %v, %v", r, torque)
	}
}

func TestKnuckleLoadValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*KnuckleLoad)
	}{
		{"position", func(l *KnuckleLoad) { l.Position = "middle" }},
		{"bearing", func(l *KnuckleLoad) { l.Bearing = "bearing9" }},
		{"coincident supports", func(l *KnuckleLoad) { l.BrakeCaliper.Point2 = l.BrakeCaliper.Point1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := frontLoad()
			tt.modify(&l)
			if _, err := Knuckle(Result{}, l); !errors.Is(err, dynamo.ErrInvalidRequest) {
				t.Errorf("Knuckle() error = %v, want invalid request", err)
			}
		})
	}
}
