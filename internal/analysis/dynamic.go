package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
	"github.com/san-kum/structdyn/internal/vehicle"
)

// Recorder receives every sample of a dynamic run with its deformation.
type Recorder interface {
	Record(result, deformation newmark.Result) error
}

// DynamicOptions controls a time response. Beta and Gamma default to the
// average acceleration method.
type DynamicOptions struct {
	TimeStep           float64 `json:"time_step" yaml:"time_step"`
	FinalTime          float64 `json:"final_time" yaml:"final_time"`
	LargeDisplacements bool    `json:"large_displacements,omitempty" yaml:"large_displacements,omitempty"`
	Beta               float64 `json:"beta,omitempty" yaml:"beta,omitempty"`
	Gamma              float64 `json:"gamma,omitempty" yaml:"gamma,omitempty"`
	Decimals           *int    `json:"decimals,omitempty" yaml:"decimals,omitempty"`
}

func (o DynamicOptions) newmark(angular int) newmark.Options {
	opts := newmark.DefaultOptions()
	if o.Beta != 0 {
		opts.Beta = o.Beta
	}
	if o.Gamma != 0 {
		opts.Gamma = o.Gamma
	}
	if o.LargeDisplacements && angular != vehicle.NoAngularDOF {
		opts.LargeDisplacements = true
		opts.AngularIndex = angular
	}
	return opts
}

type DynamicResult struct {
	Model               string         `json:"model"`
	Channels            []string       `json:"channels"`
	DeformationChannels []string       `json:"deformation_channels"`
	Samples             int            `json:"samples"`
	Maximum             newmark.Result `json:"maximum"`
	MaximumDeformation  newmark.Result `json:"maximum_deformation"`

	// DominantFrequency is the main response frequency of each
	// displacement channel, in Hz.
	DominantFrequency []float64 `json:"dominant_frequency"`
}

// RunDynamic integrates m over [0, opts.FinalTime] and passes every sample
// to rec, which may be nil. On a failed step the result holds the maxima of
// the samples produced so far together with the error.
func RunDynamic(ctx context.Context, m vehicle.Model, opts DynamicOptions, rec Recorder) (DynamicResult, error) {
	if err := m.Validate(); err != nil {
		return DynamicResult{}, err
	}
	seq, err := newmark.Integrate(ctx, vehicle.System(m), m.Force, opts.TimeStep, opts.FinalTime, opts.newmark(m.AngularIndex()))
	if err != nil {
		return DynamicResult{}, err
	}

	res := DynamicResult{
		Model:               m.Name(),
		Channels:            m.Channels(),
		DeformationChannels: m.DeformationChannels(),
	}
	var peak, deformationPeak Maximum
	history := make([][]float64, m.DegreesOfFreedom())

	var runErr error
	for r, err := range seq {
		if err != nil {
			runErr = err
			break
		}
		d := m.Deformation(r)
		if rec != nil {
			if err := rec.Record(r, d); err != nil {
				runErr = fmt.Errorf("recording t=%v: %w", r.Time, err)
				break
			}
		}
		peak.Track(r)
		deformationPeak.Track(d)
		for i, x := range r.Displacement {
			history[i] = append(history[i], x)
		}
		res.Samples++
	}

	res.Maximum = peak.Result()
	res.MaximumDeformation = deformationPeak.Result()
	res.DominantFrequency = make([]float64, len(history))
	for i, h := range history {
		res.DominantFrequency[i] = DominantFrequency(h, opts.TimeStep)
	}
	if opts.Decimals != nil {
		res = res.Round(*opts.Decimals)
	}
	return res, runErr
}

func (r DynamicResult) Round(decimals int) DynamicResult {
	out := r
	out.Maximum = RoundResult(r.Maximum, decimals)
	out.MaximumDeformation = RoundResult(r.MaximumDeformation, decimals)
	out.DominantFrequency = make([]float64, len(r.DominantFrequency))
	for i, f := range r.DominantFrequency {
		out.DominantFrequency[i] = linalg.Round(f, decimals)
	}
	return out
}

// ValidateDynamic checks the time grid before a model is built.
func ValidateDynamic(opts DynamicOptions) error {
	if opts.TimeStep <= 0 {
		return dynamo.Invalid("time step must be positive, got %v", opts.TimeStep)
	}
	if opts.TimeStep >= opts.FinalTime {
		return dynamo.Invalid("time step %v must be smaller than final time %v", opts.TimeStep, opts.FinalTime)
	}
	return nil
}
