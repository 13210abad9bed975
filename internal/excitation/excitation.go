// Package excitation describes the road profile seen by a tire as a function
// of time, together with its first two derivatives.
package excitation

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/structdyn/internal/dynamo"
)

type CurveType string

const (
	// Polynomial is Σ cᵢ·tⁱ.
	Polynomial CurveType = "polynomial"
	// Exponential is Σ c₂ᵢ·exp(c₂ᵢ₊₁·t).
	Exponential CurveType = "exponential"
	// Cosine is the bump c₀/2·(c₁ + c₂·cos(ωt)) with ω = 2π·speed/width.
	Cosine CurveType = "cosine"
)

func ParseCurveType(s string) (CurveType, error) {
	switch CurveType(strings.ToLower(strings.TrimSpace(s))) {
	case Polynomial, "polinomial":
		return Polynomial, nil
	case Exponential, "exponencial":
		return Exponential, nil
	case Cosine:
		return Cosine, nil
	}
	return "", dynamo.Invalid("unknown curve type %q", s)
}

// Curve is a base excitation. CarSpeed is in km/h and ObstacleWidth in m.
//
// A cosine curve holds one bump per group of three constants. Without
// LimitTimes the single bump is active for 0 <= t <= width/speed. With
// LimitTimes, bump i is active for LimitTimes[2i] <= t < LimitTimes[2i+1].
type Curve struct {
	Type          CurveType `json:"curve_type" yaml:"curve_type"`
	Constants     []float64 `json:"constants" yaml:"constants"`
	LimitTimes    []float64 `json:"limit_times,omitempty" yaml:"limit_times,omitempty"`
	ObstacleWidth float64   `json:"obstacle_width" yaml:"obstacle_width"`
	CarSpeed      float64   `json:"car_speed" yaml:"car_speed"`
}

// Bump is a single cosine obstacle of the given height, starting at t = 0.
func Bump(height, width, speedKmh float64) Curve {
	return Curve{
		Type:          Cosine,
		Constants:     []float64{height, 1, -1},
		ObstacleWidth: width,
		CarSpeed:      speedKmh,
	}
}

func (c Curve) Validate() error {
	if len(c.Constants) == 0 {
		return dynamo.Invalid("excitation constants must not be empty")
	}
	if c.CarSpeed == 0 {
		return dynamo.Invalid("car speed must not be zero")
	}
	switch c.Type {
	case Polynomial:
	case Exponential:
		if len(c.Constants)%2 != 0 {
			return dynamo.Invalid("exponential curve needs pairs of constants, got %d", len(c.Constants))
		}
	case Cosine:
		if c.ObstacleWidth <= 0 {
			return dynamo.Invalid("obstacle width must be positive, got %v", c.ObstacleWidth)
		}
		if len(c.Constants)%3 != 0 {
			return dynamo.Invalid("cosine curve needs groups of three constants, got %d", len(c.Constants))
		}
		if c.LimitTimes != nil && len(c.LimitTimes) != 2*(len(c.Constants)/3) {
			return dynamo.Invalid("cosine curve needs %d limit times, got %d", 2*(len(c.Constants)/3), len(c.LimitTimes))
		}
	default:
		return dynamo.Invalid("unknown curve type %q", c.Type)
	}
	return nil
}

// SpeedMetersPerSecond is the car speed in SI units.
func (c Curve) SpeedMetersPerSecond() float64 {
	return dynamo.KmhToMetersPerSecond(c.CarSpeed)
}

func (c Curve) Displacement(t float64) float64 { return c.eval(t, 0) }

func (c Curve) Velocity(t float64) float64 { return c.eval(t, 1) }

func (c Curve) Acceleration(t float64) float64 { return c.eval(t, 2) }

// eval returns the order-th time derivative of the curve at t.
func (c Curve) eval(t float64, order int) float64 {
	switch c.Type {
	case Polynomial:
		return c.polynomial(t, order)
	case Exponential:
		return c.exponential(t, order)
	case Cosine:
		return c.cosine(t, order)
	}
	panic(fmt.Sprintf("excitation: unknown curve type %q", c.Type))
}

func (c Curve) polynomial(t float64, order int) float64 {
	var sum float64
	for i := order; i < len(c.Constants); i++ {
		coef := c.Constants[i]
		for k := 0; k < order; k++ {
			coef *= float64(i - k)
		}
		sum += coef * math.Pow(t, float64(i-order))
	}
	return sum
}

func (c Curve) exponential(t float64, order int) float64 {
	var sum float64
	for i := 0; i+1 < len(c.Constants); i += 2 {
		a, b := c.Constants[i], c.Constants[i+1]
		sum += a * math.Pow(b, float64(order)) * math.Exp(b*t)
	}
	return sum
}

func (c Curve) cosine(t float64, order int) float64 {
	speed := c.SpeedMetersPerSecond()
	w := 2 * math.Pi * speed / c.ObstacleWidth

	bump := func(k int) float64 {
		amp, offset, scale := c.Constants[3*k], c.Constants[3*k+1], c.Constants[3*k+2]
		switch order {
		case 0:
			return amp / 2 * (offset + scale*math.Cos(w*t))
		case 1:
			return -amp / 2 * scale * w * math.Sin(w*t)
		default:
			return -amp / 2 * scale * w * w * math.Cos(w*t)
		}
	}

	if c.LimitTimes == nil {
		if t >= 0 && t <= c.ObstacleWidth/speed {
			return bump(0)
		}
		return 0
	}

	// Later windows win where they overlap.
	var out float64
	for k := 0; k < len(c.Constants)/3; k++ {
		if c.LimitTimes[2*k] <= t && t < c.LimitTimes[2*k+1] {
			out = bump(k)
		}
	}
	return out
}
