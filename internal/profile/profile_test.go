package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/structdyn/internal/dynamo"
)

func TestCircular(t *testing.T) {
	tests := []struct {
		name    string
		p       Circular
		area    float64
		inertia float64
	}{
		{"solid", Circular{Diameter: 0.02}, math.Pi / 4 * 4e-4, math.Pi / 64 * 1.6e-7},
		{"tube", Circular{Diameter: 0.02, Thickness: 0.002},
			math.Pi / 4 * (4e-4 - 2.56e-4), math.Pi / 64 * (1.6e-7 - 6.5536e-8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got := tt.p.Area(); math.Abs(got-tt.area) > 1e-15 {
				t.Errorf("Area() = %v, want %v", got, tt.area)
			}
			if got := tt.p.MomentOfInertia(); math.Abs(got-tt.inertia) > 1e-20 {
				t.Errorf("MomentOfInertia() = %v, want %v", got, tt.inertia)
			}
		})
	}
}

func TestRectangular(t *testing.T) {
	r := Rectangular{Height: 3e-3, Width: 25e-3}
	if got := r.Area(); math.Abs(got-7.5e-5) > 1e-15 {
		t.Errorf("Area() = %v, want 7.5e-5", got)
	}
	if got := r.MomentOfInertia(); math.Abs(got-5.625e-11) > 1e-20 {
		t.Errorf("MomentOfInertia() = %v, want 5.625e-11", got)
	}

	hollow := Rectangular{Height: 0.04, Width: 0.02, Thickness: 0.002}
	wantArea := 0.04*0.02 - 0.036*0.016
	if got := hollow.Area(); math.Abs(got-wantArea) > 1e-15 {
		t.Errorf("hollow Area() = %v, want %v", got, wantArea)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
	}{
		{"zero diameter", Circular{}},
		{"thick wall", Circular{Diameter: 0.01, Thickness: 0.005}},
		{"negative width", Rectangular{Height: 0.01, Width: -1}},
		{"thick rectangular wall", Rectangular{Height: 0.01, Width: 0.02, Thickness: 0.006}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); !errors.Is(err, dynamo.ErrInvalidRequest) {
				t.Errorf("Validate() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestSpecResolve(t *testing.T) {
	if _, err := (Spec{}).Resolve(); !errors.Is(err, dynamo.ErrInvalidRequest) {
		t.Errorf("empty Spec.Resolve() error = %v, want ErrInvalidRequest", err)
	}

	p, err := Spec{Circular: &Circular{Diameter: 0.02}}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, ok := p.(Circular); !ok {
		t.Errorf("Resolve() = %T, want Circular", p)
	}
}
