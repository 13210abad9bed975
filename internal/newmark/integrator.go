// Package newmark integrates M·ẍ + C·ẋ + K·x = F(t) with the Newmark-beta
// method over a fixed time step.
package newmark

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
)

// ErrSequenceConsumed is yielded when a sequence is ranged over twice.
var ErrSequenceConsumed = errors.New("newmark: sequence already consumed")

// System holds reduced matrices: every one is n x n for n free DOFs.
type System struct {
	Mass      linalg.Matrix
	Stiffness linalg.Matrix
	Damping   linalg.Matrix
}

func (s System) Size() int { return s.Mass.Rows() }

// ForceFunc returns the reduced force vector at time t.
type ForceFunc func(t float64) linalg.Vector

type Options struct {
	Beta  float64
	Gamma float64

	// LargeDisplacements reinterprets the coordinate at AngularIndex as the
	// sine of an angle in the reported results.
	LargeDisplacements bool
	AngularIndex       int
}

func DefaultOptions() Options {
	return Options{Beta: DefaultBeta, Gamma: DefaultGamma, AngularIndex: 1}
}

// Result is the state of the system at one sample time.
type Result struct {
	Time            float64       `json:"time"`
	Displacement    linalg.Vector `json:"displacement"`
	Velocity        linalg.Vector `json:"velocity"`
	Acceleration    linalg.Vector `json:"acceleration"`
	EquivalentForce linalg.Vector `json:"equivalent_force"`
}

func zeroResult(n int) Result {
	return Result{
		Displacement:    make(linalg.Vector, n),
		Velocity:        make(linalg.Vector, n),
		Acceleration:    make(linalg.Vector, n),
		EquivalentForce: make(linalg.Vector, n),
	}
}

// Samples is the number of samples in [0, finalTime] for step dt, counting
// both ends. The count comes from the index, never from accumulating time.
func Samples(dt, finalTime float64) int {
	return int(math.Floor(finalTime/dt+1e-9)) + 1
}

func validate(sys System, dt, finalTime float64) error {
	if dt <= 0 {
		return dynamo.Invalid("time step must be positive, got %v", dt)
	}
	if finalTime <= 0 {
		return dynamo.Invalid("final time must be positive, got %v", finalTime)
	}
	if dt >= finalTime {
		return dynamo.Invalid("time step %v must be smaller than final time %v", dt, finalTime)
	}
	n := sys.Size()
	for _, m := range []linalg.Matrix{sys.Mass, sys.Stiffness, sys.Damping} {
		if m.Rows() != n || !m.IsSquare() {
			return fmt.Errorf("%w: system matrices must all be %dx%d", dynamo.ErrDimensionMismatch, n, n)
		}
	}
	return nil
}

// Integrate validates the request and returns a lazy, one-pass sequence of
// results at t = i·dt for i = 0..Samples(dt, finalTime)-1. The first result
// is the zero state with the force at t = 0.
//
// A failed step yields a *dynamo.StepError and ends the sequence. Results
// already yielded stay valid for the caller.
func Integrate(ctx context.Context, sys System, force ForceFunc, dt, finalTime float64, opts Options) (iter.Seq2[Result, error], error) {
	if err := validate(sys, dt, finalTime); err != nil {
		return nil, err
	}
	if opts.Beta == 0 && opts.Gamma == 0 {
		d := DefaultOptions()
		opts.Beta, opts.Gamma = d.Beta, d.Gamma
	}

	in := newIntegrator(sys, force, dt, finalTime, opts)
	consumed := false

	return func(yield func(Result, error) bool) {
		if consumed {
			yield(Result{}, ErrSequenceConsumed)
			return
		}
		consumed = true

		for {
			if err := ctx.Err(); err != nil {
				yield(Result{}, err)
				return
			}
			r, ok, err := in.Next()
			if err != nil {
				yield(Result{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}, nil
}

// State is the position of an Integrator in its lifecycle.
type State int

const (
	InitialTime State = iota
	Stepping
	Done
)

func (s State) String() string {
	switch s {
	case InitialTime:
		return "initial"
	case Stepping:
		return "stepping"
	default:
		return "done"
	}
}

// Integrator advances one (frequency, time step) run. Steps are strictly
// sequential: each one needs the full previous state.
type Integrator struct {
	sys     System
	force   ForceFunc
	dt      float64
	samples int
	opts    Options
	c       Constants

	state  State
	step   int
	prev   Result
	keqInv linalg.Matrix
}

func newIntegrator(sys System, force ForceFunc, dt, finalTime float64, opts Options) *Integrator {
	return &Integrator{
		sys:     sys,
		force:   force,
		dt:      dt,
		samples: Samples(dt, finalTime),
		opts:    opts,
		c:       NewConstants(opts.Beta, opts.Gamma, dt),
		state:   InitialTime,
	}
}

func (in *Integrator) State() State { return in.state }

// Next returns the next sample. ok is false once every sample was produced.
func (in *Integrator) Next() (Result, bool, error) {
	switch in.state {
	case Done:
		return Result{}, false, nil

	case InitialTime:
		inv, err := in.invertEquivalentStiffness()
		if err != nil {
			in.state = Done
			return Result{}, false, &dynamo.StepError{Step: 0, Time: 0, Wrapped: err}
		}
		in.keqInv = inv

		r := zeroResult(in.sys.Size())
		r.EquivalentForce = in.force(0).Clone()
		in.prev = r
		in.step = 0
		in.state = Stepping
		if in.samples == 1 {
			in.state = Done
		}
		return in.report(r), true, nil
	}

	i := in.step + 1
	t := float64(i) * in.dt
	r, err := in.advance(t)
	if err != nil {
		in.state = Done
		return Result{}, false, &dynamo.StepError{Step: i, Time: t, Wrapped: err}
	}

	in.prev = r
	in.step = i
	if i >= in.samples-1 {
		in.state = Done
	}
	return in.report(r), true, nil
}

// invertEquivalentStiffness returns the inverse of a0·M + a1·C + K. M, C, K
// and dt are fixed for the run, so it is computed once.
func (in *Integrator) invertEquivalentStiffness() (linalg.Matrix, error) {
	keq, err := linalg.Sum(in.sys.Mass.Scale(in.c.A0), in.sys.Damping.Scale(in.c.A1))
	if err != nil {
		return nil, err
	}
	keq, err = linalg.Sum(keq, in.sys.Stiffness)
	if err != nil {
		return nil, err
	}
	return linalg.Inverse(keq)
}

func (in *Integrator) advance(t float64) (Result, error) {
	c, p := in.c, in.prev

	mTerm, err := linalg.Combine([]float64{c.A0, c.A2, c.A3}, p.Displacement, p.Velocity, p.Acceleration)
	if err != nil {
		return Result{}, err
	}
	cTerm, err := linalg.Combine([]float64{c.A1, c.A4, c.A5}, p.Displacement, p.Velocity, p.Acceleration)
	if err != nil {
		return Result{}, err
	}
	mf, err := linalg.MultiplyVector(in.sys.Mass, mTerm)
	if err != nil {
		return Result{}, err
	}
	cf, err := linalg.MultiplyVector(in.sys.Damping, cTerm)
	if err != nil {
		return Result{}, err
	}
	feq, err := linalg.Combine([]float64{1, 1, 1}, in.force(t), mf, cf)
	if err != nil {
		return Result{}, err
	}

	d, err := linalg.MultiplyVector(in.keqInv, feq)
	if err != nil {
		return Result{}, err
	}
	a, err := linalg.Combine([]float64{c.A0, -c.A0, -c.A2, -c.A3}, d, p.Displacement, p.Velocity, p.Acceleration)
	if err != nil {
		return Result{}, err
	}
	v, err := linalg.Combine([]float64{1, c.A6, c.A7}, p.Velocity, p.Acceleration, a)
	if err != nil {
		return Result{}, err
	}

	return Result{Time: t, Displacement: d, Velocity: v, Acceleration: a, EquivalentForce: feq}, nil
}

func (in *Integrator) report(r Result) Result {
	if !in.opts.LargeDisplacements {
		return r
	}
	return LargeDisplacement(r, in.opts.AngularIndex)
}

// LargeDisplacement treats the raw coordinate at index as sin(θ) and returns
// a copy where that coordinate holds θ and its consistent derivatives. Other
// coordinates are unchanged.
func LargeDisplacement(r Result, index int) Result {
	out := Result{
		Time:            r.Time,
		Displacement:    r.Displacement.Clone(),
		Velocity:        r.Velocity.Clone(),
		Acceleration:    r.Acceleration.Clone(),
		EquivalentForce: r.EquivalentForce.Clone(),
	}
	if index < 0 || index >= len(out.Displacement) {
		return out
	}

	theta := math.Asin(r.Displacement[index])
	cos := math.Cos(theta)
	out.Displacement[index] = theta
	out.Velocity[index] = r.Velocity[index] / cos
	out.Acceleration[index] = r.Acceleration[index] * cos
	return out
}
