package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/material"
	"github.com/san-kum/structdyn/internal/newmark"
	"github.com/san-kum/structdyn/internal/vehicle"
)

// det(K - ω²M) = 0 for m1 = k1 = 1, m2 = k2 = 1/2 reduces to
// ω⁴ - 2.5ω² + 1 = 0.
func TestNaturalFrequenciesTwoMass(t *testing.T) {
	m := &vehicle.TwoMass{PrimaryMass: 1, PrimaryStiffness: 1, SecondaryMass: 0.5, SecondaryStiffness: 0.5}
	got, err := NaturalFrequencies(vehicle.System(m))
	if err != nil {
		t.Fatalf("NaturalFrequencies() error = %v", err)
	}
	want := []float64{math.Sqrt(0.5), math.Sqrt(2)}
	if len(got) != len(want) {
		t.Fatalf("NaturalFrequencies() = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("ω[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNaturalFrequenciesSkipMasslessDOF(t *testing.T) {
	sys := newmark.System{
		Mass:      linalg.Matrix{{4, 0}, {0, 0}},
		Stiffness: linalg.Matrix{{16, 0}, {0, -1}},
	}
	got, err := NaturalFrequencies(sys)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || math.Abs(got[0]-2) > 1e-12 {
		t.Errorf("NaturalFrequencies() = %v, want [2]", got)
	}
}

func TestNaturalFrequenciesSingularStiffness(t *testing.T) {
	sys := newmark.System{Mass: linalg.Identity(2), Stiffness: linalg.NewMatrix(2, 2)}
	if _, err := NaturalFrequencies(sys); !errors.Is(err, dynamo.ErrSingularMatrix) {
		t.Errorf("NaturalFrequencies() error = %v, want ErrSingularMatrix", err)
	}
}

// fineStrip is strip() in ten elements, loaded at midspan.
func fineStrip() BeamRequest {
	req := strip()
	req.NumberOfElements = 10
	req.Fastenings = []NodeFastening{{Node: 0, Type: "pinned"}, {Node: 10, Type: "pinned"}}
	req.Forces = []NodeValue{{Node: 5, Value: 100}}
	return req
}

// firstMode is π²·sqrt(EI/(ρAL⁴)) for the pinned strip.
func firstMode(t *testing.T) float64 {
	t.Helper()
	m, err := material.Get("steel4130")
	if err != nil {
		t.Fatal(err)
	}
	h, w := 3e-3, 25e-3
	return math.Pi * math.Pi * math.Sqrt(m.YoungModulus*w*h*h*h/12/(m.SpecificMass*w*h))
}

func TestRunBeamNaturalFrequencies(t *testing.T) {
	res, err := RunBeam(context.Background(), fineStrip(), nil)
	if err != nil {
		t.Fatalf("RunBeam() error = %v", err)
	}
	if len(res.NaturalFrequencies) != res.FreeDegreesOfFreedom {
		t.Fatalf("%d natural frequencies for %d free dofs", len(res.NaturalFrequencies), res.FreeDegreesOfFreedom)
	}
	w1 := firstMode(t)
	for n, got := range res.NaturalFrequencies[:2] {
		want := float64((n+1)*(n+1)) * w1
		if math.Abs(got-want) > 1e-3*want {
			t.Errorf("mode %d: ω = %v, want %v", n+1, got, want)
		}
	}
}

func TestRunBeamPiezoelectricNaturalFrequencies(t *testing.T) {
	req := strip()
	req.Piezoelectric = harvester(1)

	res, err := RunBeam(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("RunBeam() error = %v", err)
	}
	// two of the six free dofs are electrical potentials
	if len(res.NaturalFrequencies) != 4 {
		t.Errorf("natural frequencies = %v, want 4", res.NaturalFrequencies)
	}
}

// An absorber tuned to the first mode splits it in two around the
// original frequency.
func TestRunBeamTunedAbsorber(t *testing.T) {
	w1 := firstMode(t)
	mass := 0.03
	req := fineStrip()
	req.Absorbers = []AbsorberRequest{{Node: 5, Mass: mass, Stiffness: mass * w1 * w1}}

	res, err := RunBeam(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("RunBeam() error = %v", err)
	}
	if res.DegreesOfFreedom != 23 || res.FreeDegreesOfFreedom != 21 {
		t.Errorf("dof = %d/%d, want 21/23", res.FreeDegreesOfFreedom, res.DegreesOfFreedom)
	}
	if len(res.Frequencies[0].Maximum.Displacement) != 21 {
		t.Errorf("peak covers %d dofs, want 21", len(res.Frequencies[0].Maximum.Displacement))
	}
	nat := res.NaturalFrequencies
	if len(nat) != 21 {
		t.Fatalf("natural frequencies = %v", nat)
	}
	if !(nat[0] < w1 && w1 < nat[1] && nat[1] < 2*w1) {
		t.Errorf("lowest modes %v, %v do not straddle %v", nat[0], nat[1], w1)
	}
}

func TestRunBeamAbsorberRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BeamRequest)
	}{
		{"node off the beam", func(r *BeamRequest) { r.Absorbers[0].Node = 3 }},
		{"massless absorber", func(r *BeamRequest) { r.Absorbers[0].Mass = 0 }},
		{"with piezoelectric plates", func(r *BeamRequest) { r.Piezoelectric = harvester(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := strip()
			req.Absorbers = []AbsorberRequest{{Node: 1, Mass: 0.01, Stiffness: 10}}
			tt.mutate(&req)
			if _, err := RunBeam(context.Background(), req, nil); !errors.Is(err, dynamo.ErrInvalidRequest) {
				t.Errorf("RunBeam() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}
