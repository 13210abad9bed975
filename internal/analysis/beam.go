package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/structdyn/internal/boundary"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/element"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/material"
	"github.com/san-kum/structdyn/internal/newmark"
	"github.com/san-kum/structdyn/internal/profile"
)

// Frequency sweep defaults.
const (
	DefaultPeriodDivision  = 20
	DefaultNumberOfPeriods = 10
	DefaultPiezoPerElement = 2
)

// NodeValue is a value applied at a node, numbered from 0.
type NodeValue struct {
	Node  int     `json:"node" yaml:"node"`
	Value float64 `json:"value" yaml:"value"`
}

type NodeFastening struct {
	Node int    `json:"node" yaml:"node"`
	Type string `json:"type" yaml:"type"`
}

// PiezoelectricRequest bonds rectangular plates on some elements of a
// rectangular beam. Elements are numbered from 1.
type PiezoelectricRequest struct {
	Elements                 []int       `json:"elements" yaml:"elements"`
	PerElement               int         `json:"per_element,omitempty" yaml:"per_element,omitempty"`
	Height                   float64     `json:"height" yaml:"height"`
	Width                    float64     `json:"width" yaml:"width"`
	SpecificMass             float64     `json:"specific_mass" yaml:"specific_mass"`
	DielectricConstant       float64     `json:"dielectric_constant" yaml:"dielectric_constant"`
	DielectricPermissiveness float64     `json:"dielectric_permissiveness" yaml:"dielectric_permissiveness"`
	ElasticityConstant       float64     `json:"elasticity_constant" yaml:"elasticity_constant"`
	ElectricalCharges        []NodeValue `json:"electrical_charges,omitempty" yaml:"electrical_charges,omitempty"`
}

// AbsorberRequest hangs a dynamic vibration absorber from the transverse
// displacement of a node.
type AbsorberRequest struct {
	Node      int     `json:"node" yaml:"node"`
	Mass      float64 `json:"mass" yaml:"mass"`
	Stiffness float64 `json:"stiffness" yaml:"stiffness"`
}

// BeamRequest is a harmonic frequency sweep of a finite element beam. Each
// angular frequency ω from InitialAngularFrequency to FinalAngularFrequency
// runs NumberOfPeriods periods of F·cos(ωt), sampled PeriodDivision times
// per period.
type BeamRequest struct {
	NumberOfElements int                   `json:"number_of_elements" yaml:"number_of_elements"`
	Length           float64               `json:"length" yaml:"length"`
	Material         string                `json:"material" yaml:"material"`
	Profile          profile.Spec          `json:"profile" yaml:"profile"`
	Fastenings       []NodeFastening       `json:"fastenings" yaml:"fastenings"`
	Forces           []NodeValue           `json:"forces" yaml:"forces"`
	Piezoelectric    *PiezoelectricRequest `json:"piezoelectric,omitempty" yaml:"piezoelectric,omitempty"`
	Absorbers        []AbsorberRequest     `json:"absorbers,omitempty" yaml:"absorbers,omitempty"`

	InitialAngularFrequency float64 `json:"initial_angular_frequency" yaml:"initial_angular_frequency"`
	FinalAngularFrequency   float64 `json:"final_angular_frequency" yaml:"final_angular_frequency"`
	AngularFrequencyStep    float64 `json:"angular_frequency_step" yaml:"angular_frequency_step"`
	PeriodDivision          int     `json:"period_division,omitempty" yaml:"period_division,omitempty"`
	NumberOfPeriods         int     `json:"number_of_periods,omitempty" yaml:"number_of_periods,omitempty"`

	Decimals *int `json:"decimals,omitempty" yaml:"decimals,omitempty"`
}

// FrequencyResult is the peak response at one angular frequency. Maximum
// holds the largest magnitude of each free degree of freedom.
type FrequencyResult struct {
	AngularFrequency float64        `json:"angular_frequency"`
	TimeStep         float64        `json:"time_step"`
	FinalTime        float64        `json:"final_time"`
	Samples          int            `json:"samples"`
	Maximum          newmark.Result `json:"maximum"`
}

// BeamResult holds the sweep and the natural angular frequencies of the
// reduced system, ascending.
type BeamResult struct {
	DegreesOfFreedom     int               `json:"degrees_of_freedom"`
	FreeDegreesOfFreedom int               `json:"free_degrees_of_freedom"`
	NaturalFrequencies   []float64         `json:"natural_frequencies"`
	Frequencies          []FrequencyResult `json:"frequencies"`
}

// RecordCloser is a Recorder owning an output that must be closed.
type RecordCloser interface {
	Recorder
	Close() error
}

// RecorderFactory opens the recorder of one angular frequency for the
// given number of free degrees of freedom. A nil factory records nothing.
type RecorderFactory func(angularFrequency float64, free int) (RecordCloser, error)

// Frequencies lists the angular frequencies of the sweep. The count comes
// from the index so the final frequency is not lost to rounding.
func (req BeamRequest) Frequencies() []float64 {
	if req.AngularFrequencyStep <= 0 || req.FinalAngularFrequency == req.InitialAngularFrequency {
		return []float64{req.InitialAngularFrequency}
	}
	n := int(math.Floor((req.FinalAngularFrequency-req.InitialAngularFrequency)/req.AngularFrequencyStep+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = req.InitialAngularFrequency + float64(i)*req.AngularFrequencyStep
	}
	return out
}

// TimeGrid returns the time step and final time for angular frequency w.
func (req BeamRequest) TimeGrid(w float64) (dt, finalTime float64) {
	div, periods := req.periodDivision(), req.numberOfPeriods()
	period := 2 * math.Pi
	if w != 0 {
		period = 2 * math.Pi / w
	}
	dt = period / float64(div)
	return dt, float64(periods*div) * dt
}

func (req BeamRequest) periodDivision() int {
	if req.PeriodDivision <= 0 {
		return DefaultPeriodDivision
	}
	return req.PeriodDivision
}

func (req BeamRequest) numberOfPeriods() int {
	if req.NumberOfPeriods <= 0 {
		return DefaultNumberOfPeriods
	}
	return req.NumberOfPeriods
}

func (req BeamRequest) Validate() error {
	if req.NumberOfElements < 1 {
		return dynamo.Invalid("number of elements must be at least 1, got %d", req.NumberOfElements)
	}
	if req.InitialAngularFrequency < 0 || req.FinalAngularFrequency < req.InitialAngularFrequency {
		return dynamo.Invalid("angular frequencies must satisfy 0 <= initial <= final, got %v and %v",
			req.InitialAngularFrequency, req.FinalAngularFrequency)
	}
	if req.FinalAngularFrequency > req.InitialAngularFrequency && req.AngularFrequencyStep <= 0 {
		return dynamo.Invalid("angular frequency step must be positive, got %v", req.AngularFrequencyStep)
	}
	for _, f := range req.Fastenings {
		if f.Node < 0 || f.Node > req.NumberOfElements {
			return dynamo.Invalid("fastening node %d outside 0..%d", f.Node, req.NumberOfElements)
		}
	}
	for _, f := range req.Forces {
		if f.Node < 0 || f.Node > req.NumberOfElements {
			return dynamo.Invalid("force node %d outside 0..%d", f.Node, req.NumberOfElements)
		}
	}
	if len(req.Absorbers) > 0 && req.Piezoelectric != nil {
		return dynamo.Invalid("a beam takes absorbers or piezoelectric plates, not both")
	}
	return nil
}

// assembled is a beam reduced to its free degrees of freedom.
type assembled struct {
	system newmark.System
	force  linalg.Vector
	dof    int
}

type beamKind interface {
	element.Builder
	Mask() ([]bool, int)
	EquivalentForce() linalg.Vector
	Validate() error
}

// reduce assembles b and drops its fixed degrees of freedom.
func reduce[B beamKind](b B) (assembled, error) {
	if err := b.Validate(); err != nil {
		return assembled{}, err
	}
	mats, err := element.Assemble(b)
	if err != nil {
		return assembled{}, err
	}
	mask, free := b.Mask()
	if free == 0 {
		return assembled{}, dynamo.Invalid("every degree of freedom is fixed")
	}
	return assembled{
		system: newmark.System{
			Mass:      linalg.ApplyBoundaryConditions(mats.Mass, mask, free),
			Stiffness: linalg.ApplyBoundaryConditions(mats.Stiffness, mask, free),
			Damping:   linalg.ApplyBoundaryConditions(mats.Damping, mask, free),
		},
		force: linalg.ApplyBoundaryConditionsVector(b.EquivalentForce(), mask, free),
		dof:   len(mask),
	}, nil
}

// assemble builds and reduces the beam described by req.
func (req BeamRequest) assemble() (assembled, error) {
	if err := req.Validate(); err != nil {
		return assembled{}, err
	}
	m, err := material.Get(req.Material)
	if err != nil {
		return assembled{}, err
	}
	p, err := req.Profile.Resolve()
	if err != nil {
		return assembled{}, err
	}

	n := req.NumberOfElements
	beam := element.Beam{
		NumberOfElements: n,
		Length:           req.Length,
		Area:             repeat(p.Area(), n),
		MomentOfInertia:  repeat(p.MomentOfInertia(), n),
		Material:         m,
		Fastenings:       make(map[int]boundary.Fastening, len(req.Fastenings)),
		Force:            make(linalg.Vector, element.BeamNodeDOF*(n+1)),
	}
	for _, f := range req.Fastenings {
		fastening, err := boundary.ParseFastening(f.Type)
		if err != nil {
			return assembled{}, err
		}
		beam.Fastenings[f.Node] = fastening
	}
	for _, f := range req.Forces {
		beam.Force[element.BeamNodeDOF*f.Node] += f.Value
	}

	if len(req.Absorbers) > 0 {
		b := &element.WithAbsorbers{Beam: beam, Attachments: make([]element.Absorber, len(req.Absorbers))}
		for i, a := range req.Absorbers {
			b.Attachments[i] = element.Absorber{Node: a.Node, Mass: a.Mass, Stiffness: a.Stiffness}
		}
		return reduce(b)
	}
	if req.Piezoelectric == nil {
		return reduce(&beam)
	}
	rect, ok := p.(profile.Rectangular)
	if !ok {
		return assembled{}, dynamo.Invalid("piezoelectric beams need a rectangular profile")
	}
	return reduce(req.Piezoelectric.build(beam, rect))
}

func (pr *PiezoelectricRequest) build(beam element.Beam, rect profile.Rectangular) *element.Piezoelectric {
	n := beam.NumberOfElements
	count := pr.PerElement
	if count <= 0 {
		count = DefaultPiezoPerElement
	}
	h, w := pr.Height, pr.Width
	area := float64(count) * h * w
	inertia := float64(count) * (h*h*h*w/12 + h*w*math.Pow((rect.Height+h)/2, 2))

	p := &element.Piezoelectric{
		Beam:                      beam,
		PiezoelectricElements:     pr.Elements,
		PiezoelectricArea:         make([]float64, n),
		PiezoelectricInertia:      make([]float64, n),
		PiezoelectricSpecificMass: pr.SpecificMass,
		PiezoelectricHeight:       h,
		PiezoelectricWidth:        w,
		BeamHeight:                rect.Height,
		DielectricConstant:        pr.DielectricConstant,
		DielectricPermissiveness:  pr.DielectricPermissiveness,
		ElasticityConstant:        pr.ElasticityConstant,
		ElectricalCharge:          make(linalg.Vector, n+1),
	}
	for _, e := range pr.Elements {
		if e >= 1 && e <= n {
			p.PiezoelectricArea[e-1] = area
			p.PiezoelectricInertia[e-1] = inertia
		}
	}
	for _, c := range pr.ElectricalCharges {
		if c.Node >= 0 && c.Node <= n {
			p.ElectricalCharge[c.Node] += c.Value
		}
	}
	return p
}

// RunBeam computes the natural frequencies of req and sweeps its angular
// frequencies. Each frequency is one integration whose samples go to the
// recorder opened by open.
func RunBeam(ctx context.Context, req BeamRequest, open RecorderFactory) (BeamResult, error) {
	a, err := req.assemble()
	if err != nil {
		return BeamResult{}, err
	}

	natural, err := NaturalFrequencies(a.system)
	if err != nil {
		return BeamResult{}, err
	}
	res := BeamResult{DegreesOfFreedom: a.dof, FreeDegreesOfFreedom: a.system.Size(), NaturalFrequencies: natural}
	if req.Decimals != nil {
		for i, w := range res.NaturalFrequencies {
			res.NaturalFrequencies[i] = linalg.Round(w, *req.Decimals)
		}
	}
	for _, w := range req.Frequencies() {
		fr, err := runFrequency(ctx, a, req, w, open)
		if err != nil {
			return res, fmt.Errorf("angular frequency %v: %w", w, err)
		}
		if req.Decimals != nil {
			fr.Maximum = RoundResult(fr.Maximum, *req.Decimals)
		}
		res.Frequencies = append(res.Frequencies, fr)
	}
	return res, nil
}

func runFrequency(ctx context.Context, a assembled, req BeamRequest, w float64, open RecorderFactory) (fr FrequencyResult, err error) {
	dt, finalTime := req.TimeGrid(w)
	force := func(t float64) linalg.Vector { return a.force.Scale(math.Cos(w * t)) }

	seq, err := newmark.Integrate(ctx, a.system, force, dt, finalTime, newmark.DefaultOptions())
	if err != nil {
		return FrequencyResult{}, err
	}

	var rec RecordCloser
	if open != nil {
		if rec, err = open(w, a.system.Size()); err != nil {
			return FrequencyResult{}, err
		}
		defer func() {
			if cerr := rec.Close(); err == nil {
				err = cerr
			}
		}()
	}

	fr = FrequencyResult{AngularFrequency: w, TimeStep: dt, FinalTime: finalTime}
	var peak Maximum
	for r, err := range seq {
		if err != nil {
			return fr, err
		}
		if rec != nil {
			if err := rec.Record(r, newmark.Result{}); err != nil {
				return fr, err
			}
		}
		peak.Track(r)
		fr.Samples++
	}
	fr.Maximum = peak.Magnitude()
	return fr, nil
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
