package analysis

import (
	"math"

	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
)

// MaxAbs returns the argument with the larger magnitude, keeping its sign.
// Ties go to b.
func MaxAbs(a, b float64) float64 {
	if math.Abs(a) > math.Abs(b) {
		return a
	}
	return b
}

// MinAbs returns the argument with the smaller magnitude, keeping its sign.
// Ties go to a.
func MinAbs(a, b float64) float64 {
	if math.Abs(a) > math.Abs(b) {
		return b
	}
	return a
}

// Maximum keeps the element-wise signed peak of a stream of results.
// Result reports the signed peaks, Magnitude their absolute values.
type Maximum struct {
	peak newmark.Result
	seen bool
}

func (m *Maximum) Track(r newmark.Result) {
	if !m.seen {
		m.peak = newmark.Result{
			Displacement:    r.Displacement.Clone(),
			Velocity:        r.Velocity.Clone(),
			Acceleration:    r.Acceleration.Clone(),
			EquivalentForce: r.EquivalentForce.Clone(),
		}
		m.seen = true
		return
	}
	peakInto(m.peak.Displacement, r.Displacement)
	peakInto(m.peak.Velocity, r.Velocity)
	peakInto(m.peak.Acceleration, r.Acceleration)
	peakInto(m.peak.EquivalentForce, r.EquivalentForce)
}

// Result returns a copy of the current peaks. Time is left at zero.
func (m *Maximum) Result() newmark.Result {
	return newmark.Result{
		Displacement:    m.peak.Displacement.Clone(),
		Velocity:        m.peak.Velocity.Clone(),
		Acceleration:    m.peak.Acceleration.Clone(),
		EquivalentForce: m.peak.EquivalentForce.Clone(),
	}
}

// Magnitude returns the absolute values of the current peaks.
func (m *Maximum) Magnitude() newmark.Result {
	return newmark.Result{
		Displacement:    abs(m.peak.Displacement),
		Velocity:        abs(m.peak.Velocity),
		Acceleration:    abs(m.peak.Acceleration),
		EquivalentForce: abs(m.peak.EquivalentForce),
	}
}

func abs(v linalg.Vector) linalg.Vector {
	out := make(linalg.Vector, len(v))
	for i, x := range v {
		out[i] = math.Abs(x)
	}
	return out
}

func peakInto(dst, src linalg.Vector) {
	for i := range dst {
		if i < len(src) {
			dst[i] = MaxAbs(dst[i], src[i])
		}
	}
}

// RoundResult rounds every channel of r to decimals.
func RoundResult(r newmark.Result, decimals int) newmark.Result {
	return newmark.Result{
		Time:            linalg.Round(r.Time, decimals),
		Displacement:    r.Displacement.Round(decimals),
		Velocity:        r.Velocity.Round(decimals),
		Acceleration:    r.Acceleration.Round(decimals),
		EquivalentForce: r.EquivalentForce.Round(decimals),
	}
}
