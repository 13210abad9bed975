// Package reaction solves the static equilibrium of a double-wishbone
// suspension corner for the six member forces.
package reaction

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
)

// Precision is the tolerance used by Balanced.
const Precision = 1e-3

// Force is the reaction carried by one member.
type Force struct {
	Member    string  `json:"member"`
	Magnitude float64 `json:"magnitude"`
	Vector    Vector3 `json:"vector"`
}

// Result holds the reactions in solve order. A positive magnitude points
// from the chassis pivot towards the wheel.
type Result struct {
	Reactions [Members]Force `json:"reactions"`
}

func (r Result) Magnitudes() [Members]float64 {
	var out [Members]float64
	for i, f := range r.Reactions {
		out[i] = f.Magnitude
	}
	return out
}

// Round returns a copy rounded to the given number of decimals.
func (r Result) Round(decimals int) Result {
	out := r
	for i, f := range r.Reactions {
		out.Reactions[i].Magnitude = linalg.Round(f.Magnitude, decimals)
		out.Reactions[i].Vector = Vector3{
			linalg.Round(f.Vector.X, decimals),
			linalg.Round(f.Vector.Y, decimals),
			linalg.Round(f.Vector.Z, decimals),
		}
	}
	return out
}

// DisplacementMatrix is the 6x6 system whose first three rows hold the unit
// directions and whose last three hold (p - origin) x u for each member.
func DisplacementMatrix(g Geometry) linalg.Matrix {
	points, dirs := g.anchors()
	m := linalg.NewMatrix(6, Members)
	for j := 0; j < Members; j++ {
		u := dirs[j]
		moment := points[j].Sub(g.Origin).Cross(u)
		m[0][j], m[1][j], m[2][j] = u.X, u.Y, u.Z
		m[3][j], m[4][j], m[5][j] = moment.X, moment.Y, moment.Z
	}
	return m
}

// Solve computes the member reactions balancing the applied force. The
// result is the force each member exerts on the chassis, so the raw solve
// output is negated.
func Solve(applied Vector3, g Geometry) (Result, error) {
	if applied.IsZero() {
		return Result{}, dynamo.Invalid("applied force must not be zero")
	}

	effort := linalg.Vector{applied.X, applied.Y, applied.Z, 0, 0, 0}
	raw, err := linalg.Solve(DisplacementMatrix(g), effort)
	if err != nil {
		if errors.Is(err, dynamo.ErrSingularMatrix) {
			return Result{}, fmt.Errorf("error in suspension geometry: %w", err)
		}
		return Result{}, fmt.Errorf("calculating reactions: %w", err)
	}

	_, dirs := g.anchors()
	var res Result
	for i := range res.Reactions {
		f := -raw[i]
		res.Reactions[i] = Force{Member: MemberName(i), Magnitude: f, Vector: dirs[i].Scale(f)}
	}
	return res, nil
}

// Residual returns the force and moment sums of the reactions plus the
// applied force, in the sign convention of Solve. It is a diagnostic: known
// geometries can leave a residual without the reactions being wrong.
func Residual(r Result, applied Vector3, g Geometry) (force, moment Vector3) {
	points, _ := g.anchors()
	force = applied
	for i, f := range r.Reactions {
		force = force.Add(f.Vector)
		moment = moment.Add(points[i].Sub(g.Origin).Cross(f.Vector))
	}
	return force, moment
}

// Balanced reports whether every residual component is within Precision.
func Balanced(force, moment Vector3) bool {
	for _, c := range []float64{force.X, force.Y, force.Z, moment.X, moment.Y, moment.Z} {
		if math.Abs(c) > Precision {
			return false
		}
	}
	return true
}
