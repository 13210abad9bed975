package profile

import (
	"math"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Profile is a cross-section with an area and a second moment of area.
type Profile interface {
	Area() float64
	MomentOfInertia() float64
	Validate() error
}

// Circular is a solid bar when Thickness is zero, a tube otherwise.
type Circular struct {
	Diameter  float64 `json:"diameter" yaml:"diameter"`
	Thickness float64 `json:"thickness,omitempty" yaml:"thickness,omitempty"`
}

func (c Circular) Validate() error {
	if c.Diameter <= 0 {
		return dynamo.Invalid("circular profile diameter must be positive, got %v", c.Diameter)
	}
	if c.Thickness < 0 || c.Thickness >= c.Diameter/2 {
		return dynamo.Invalid("circular profile thickness %v must be in [0, %v)", c.Thickness, c.Diameter/2)
	}
	return nil
}

func (c Circular) Area() float64 {
	inner := 0.0
	if c.Thickness > 0 {
		inner = c.Diameter - 2*c.Thickness
	}
	return math.Pi / 4 * (c.Diameter*c.Diameter - inner*inner)
}

func (c Circular) MomentOfInertia() float64 {
	inner := 0.0
	if c.Thickness > 0 {
		inner = c.Diameter - 2*c.Thickness
	}
	return math.Pi / 64 * (math.Pow(c.Diameter, 4) - math.Pow(inner, 4))
}

// Rectangular is solid when Thickness is zero. Inertia is about the axis
// parallel to the width.
type Rectangular struct {
	Height    float64 `json:"height" yaml:"height"`
	Width     float64 `json:"width" yaml:"width"`
	Thickness float64 `json:"thickness,omitempty" yaml:"thickness,omitempty"`
}

func (r Rectangular) Validate() error {
	if r.Height <= 0 || r.Width <= 0 {
		return dynamo.Invalid("rectangular profile dimensions must be positive, got %vx%v", r.Height, r.Width)
	}
	if r.Thickness < 0 || r.Thickness >= math.Min(r.Height, r.Width)/2 {
		return dynamo.Invalid("rectangular profile thickness %v must be in [0, %v)", r.Thickness, math.Min(r.Height, r.Width)/2)
	}
	return nil
}

func (r Rectangular) inner() (h, w float64) {
	if r.Thickness == 0 {
		return 0, 0
	}
	return r.Height - 2*r.Thickness, r.Width - 2*r.Thickness
}

func (r Rectangular) Area() float64 {
	h, w := r.inner()
	return r.Width*r.Height - w*h
}

func (r Rectangular) MomentOfInertia() float64 {
	h, w := r.inner()
	return (math.Pow(r.Height, 3)*r.Width - math.Pow(h, 3)*w) / 12
}

// Spec is the serialized form of a profile: exactly one of the shapes is set.
type Spec struct {
	Circular    *Circular    `json:"circular,omitempty" yaml:"circular,omitempty"`
	Rectangular *Rectangular `json:"rectangular,omitempty" yaml:"rectangular,omitempty"`
}

// Resolve returns the validated profile described by s.
func (s Spec) Resolve() (Profile, error) {
	var p Profile
	switch {
	case s.Circular != nil && s.Rectangular != nil:
		return nil, dynamo.Invalid("profile must be either circular or rectangular, not both")
	case s.Circular != nil:
		p = *s.Circular
	case s.Rectangular != nil:
		p = *s.Rectangular
	default:
		return nil, dynamo.Invalid("missing profile")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
