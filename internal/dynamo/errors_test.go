package dynamo

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestInvalid(t *testing.T) {
	err := Invalid("time step %v must be positive", -1.0)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Invalid() = %v, want wrapped ErrInvalidRequest", err)
	}
	if !strings.Contains(err.Error(), "time step -1 must be positive") {
		t.Errorf("Invalid() message = %q", err.Error())
	}
}

func TestStepErrorUnwrap(t *testing.T) {
	err := &StepError{Step: 3, Time: 0.3, Wrapped: ErrSingularMatrix}
	if !errors.Is(err, ErrSingularMatrix) {
		t.Error("StepError should unwrap to its cause")
	}
	if !strings.HasPrefix(err.Error(), "step 3 (t=0.300000)") {
		t.Errorf("StepError.Error() = %q", err.Error())
	}
}

func TestUnitConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"rpm", RPMToRadPerSecond(60), 2 * math.Pi},
		{"kmh", KmhToMetersPerSecond(36), 10},
		{"hz", HertzToRadPerSecond(1), 2 * math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestParams(t *testing.T) {
	mass, stiffness := 1.0, 2.0
	fields := map[string]*float64{"mass": &mass, "stiffness": &stiffness}

	if got := Params(fields); got["mass"] != 1 || got["stiffness"] != 2 {
		t.Errorf("Params() = %v", got)
	}
	if err := SetParam(fields, "mass", 5); err != nil || mass != 5 {
		t.Errorf("SetParam(mass) = %v, mass = %v", err, mass)
	}
	if err := SetParam(fields, "length", 1); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("SetParam(length) = %v, want ErrInvalidRequest", err)
	}
	if got := ParamNames(fields); got[0] != "mass" || got[1] != "stiffness" {
		t.Errorf("ParamNames() = %v", got)
	}
}
