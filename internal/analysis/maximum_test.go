package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
)

func TestMaxMinAbs(t *testing.T) {
	tests := []struct {
		a, b     float64
		max, min float64
	}{
		{1, -2, -2, 1},
		{-3, 2, -3, 2},
		{2, -2, -2, 2},
		{0, 0, 0, 0},
	}

	for _, tt := range tests {
		if got := MaxAbs(tt.a, tt.b); got != tt.max {
			t.Errorf("MaxAbs(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.max)
		}
		if got := MinAbs(tt.a, tt.b); got != tt.min {
			t.Errorf("MinAbs(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.min)
		}
	}
}

func sample(x ...float64) newmark.Result {
	v := linalg.Vector(x)
	return newmark.Result{Displacement: v, Velocity: v.Scale(2), Acceleration: v.Scale(3), EquivalentForce: v.Scale(4)}
}

func TestMaximumKeepsSignedPeaks(t *testing.T) {
	var m Maximum
	first := sample(1, -1)
	m.Track(first)
	m.Track(sample(-3, 0.5))
	m.Track(sample(2, -0.25))

	first.Displacement[0] = 100
	got := m.Result()
	if diff := cmp.Diff(linalg.Vector{-3, -1}, got.Displacement); diff != "" {
		t.Errorf("displacement peaks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(linalg.Vector{-12, -4}, got.EquivalentForce); diff != "" {
		t.Errorf("force peaks mismatch (-want +got):\n%s", diff)
	}

	got.Velocity[0] = 42
	if m.Result().Velocity[0] != -6 {
		t.Error("Result() shares storage with the tracker")
	}
}

func TestMaximumMagnitude(t *testing.T) {
	var m Maximum
	m.Track(sample(1, -1))
	m.Track(sample(-3, 0.5))

	got := m.Magnitude()
	if diff := cmp.Diff(linalg.Vector{3, 1}, got.Displacement); diff != "" {
		t.Errorf("displacement magnitudes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(linalg.Vector{9, 3}, got.Acceleration); diff != "" {
		t.Errorf("acceleration magnitudes mismatch (-want +got):\n%s", diff)
	}
	if m.Result().Displacement[0] != -3 {
		t.Error("Magnitude() changed the signed peaks")
	}
}

func TestRoundResult(t *testing.T) {
	r := RoundResult(sample(1.23456), 2)
	if r.Displacement[0] != 1.23 || r.Acceleration[0] != 3.7 {
		t.Errorf("RoundResult() = %+v", r)
	}
}
