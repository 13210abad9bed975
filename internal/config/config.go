// Package config reads and writes the YAML files that describe an analysis
// run, and keeps the named presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/profile"
	"github.com/san-kum/structdyn/internal/reaction"
	"github.com/san-kum/structdyn/internal/vehicle"
)

// Analysis names.
const (
	HalfCar    = "half-car"
	QuarterCar = "quarter-car"
	TwoMass    = "two-mass"
	Static     = "static"
	Knuckle    = "knuckle"
	Fatigue    = "fatigue"
	Beam       = "beam"
	Sweep      = "sweep"
)

const (
	DefaultTimeStep  = 0.001
	DefaultFinalTime = 2.0
	DefaultOutputDir = "runs"
)

type Config struct {
	Analysis  string                  `yaml:"analysis"`
	OutputDir string                  `yaml:"output_dir"`
	Workers   int                     `yaml:"workers,omitempty"`
	Dynamic   analysis.DynamicOptions `yaml:"dynamic"`

	HalfCar    *vehicle.HalfCar          `yaml:"half_car,omitempty"`
	QuarterCar *vehicle.QuarterCar       `yaml:"quarter_car,omitempty"`
	TwoMass    *vehicle.TwoMass          `yaml:"two_mass,omitempty"`
	Static     *analysis.StaticRequest   `yaml:"static,omitempty"`
	Knuckle    *analysis.KnuckleRequest  `yaml:"knuckle,omitempty"`
	Fatigue    *analysis.FatigueRequest  `yaml:"fatigue,omitempty"`
	Beam       *analysis.BeamRequest     `yaml:"beam,omitempty"`
	Sweep      []analysis.SweepParameter `yaml:"sweep,omitempty"`

	// SweepModel names the vehicle model a sweep varies.
	SweepModel string `yaml:"sweep_model,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Analysis:  HalfCar,
		OutputDir: DefaultOutputDir,
		Workers:   analysis.DefaultWorkers,
		Dynamic: analysis.DynamicOptions{
			TimeStep:  DefaultTimeStep,
			FinalTime: DefaultFinalTime,
		},
		HalfCar:    vehicle.NewHalfCar(),
		QuarterCar: vehicle.NewQuarterCar(),
		TwoMass:    vehicle.NewTwoMass(),
		SweepModel: QuarterCar,
		Static: &analysis.StaticRequest{
			Suspension:   DefaultSuspension(),
			AppliedForce: reaction.Vector3{X: 0, Y: 3000, Z: 500},
		},
		Knuckle: &analysis.KnuckleRequest{
			StaticRequest: analysis.StaticRequest{
				Suspension:   DefaultSuspension(),
				AppliedForce: reaction.Vector3{X: 0, Y: 3000, Z: 500},
			},
			Load: DefaultKnuckleLoad(),
		},
		Fatigue: &analysis.FatigueRequest{
			Suspension:    DefaultSuspension(),
			MaximumForce:  reaction.Vector3{X: 0, Y: 3000, Z: 500},
			Reliability:   "90",
			SurfaceFinish: "machined",
		},
		Beam: &analysis.BeamRequest{
			NumberOfElements:        10,
			Length:                  1,
			Material:                "steel4130",
			Profile:                 profile.Spec{Rectangular: &profile.Rectangular{Height: 3e-3, Width: 25e-3}},
			Fastenings:              []analysis.NodeFastening{{Node: 0, Type: "pinned"}, {Node: 10, Type: "pinned"}},
			Forces:                  []analysis.NodeValue{{Node: 5, Value: 100}},
			InitialAngularFrequency: 0,
			FinalAngularFrequency:   200,
			AngularFrequencyStep:    20,
		},
	}
}

// DefaultSuspension is the front corner of a small off-road prototype with
// steel tube wishbones and a solid tie rod.
func DefaultSuspension() analysis.Suspension {
	tube := profile.Spec{Circular: &profile.Circular{Diameter: 0.0254, Thickness: 0.0015}}
	return analysis.Suspension{
		Material: "steel1020",
		Geometry: reaction.Geometry{
			LowerWishbone: reaction.Wishbone{
				FrontPivot:     reaction.Vector3{X: 0.2, Y: 0.1, Z: 0.15},
				RearPivot:      reaction.Vector3{X: 0.24, Y: 0.1, Z: -0.15},
				OuterBallJoint: reaction.Vector3{X: 0.55, Y: 0.12, Z: 0},
			},
			UpperWishbone: reaction.Wishbone{
				FrontPivot:     reaction.Vector3{X: 0.25, Y: 0.3, Z: 0.12},
				RearPivot:      reaction.Vector3{X: 0.25, Y: 0.3, Z: -0.1},
				OuterBallJoint: reaction.Vector3{X: 0.52, Y: 0.35, Z: 0.01},
			},
			ShockAbsorber: reaction.Link{
				Inactive: reaction.Vector3{X: 0.3, Y: 0.45, Z: 0},
				Active:   reaction.Vector3{X: 0.45, Y: 0.15, Z: 0.02},
			},
			TieRod: reaction.Link{
				Inactive: reaction.Vector3{X: 0.2, Y: 0.2, Z: 0.1},
				Active:   reaction.Vector3{X: 0.53, Y: 0.22, Z: 0.12},
			},
		},
		LowerWishbone: tube,
		UpperWishbone: tube,
		TieRod:        profile.Spec{Circular: &profile.Circular{Diameter: 0.016}},
	}
}

// DefaultKnuckleLoad brakes the default front corner with a light steering
// input.
func DefaultKnuckleLoad() reaction.KnuckleLoad {
	return reaction.KnuckleLoad{
		Position:           reaction.Front,
		SteeringWheelForce: reaction.Vector3{Z: 150},
		Bearing:            reaction.DefaultBearing,
		BearingTorque:      40,
		InertialForce:      reaction.Vector3{X: 200, Z: -1200},
		InertialForcePoint: reaction.Vector3{X: 0.56, Y: 0.25, Z: -0.08},
		BrakeCaliper: reaction.BrakeCaliperSupport{
			Point1: reaction.Vector3{X: 0.55, Y: 0.28, Z: -0.05},
			Point2: reaction.Vector3{X: 0.55, Y: 0.18, Z: -0.07},
		},
	}
}

// Load reads path over the defaults, so a file only needs the values it
// changes.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path over cfg, typically a preset, and returns it.
func LoadOver(path string, cfg *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Model returns a copy of the vehicle model named by name, or by
// c.Analysis when name is empty.
func (c *Config) Model(name string) (vehicle.Model, error) {
	if name == "" {
		name = c.Analysis
	}
	switch name {
	case HalfCar:
		if c.HalfCar == nil {
			return vehicle.NewHalfCar(), nil
		}
		return c.HalfCar.Clone(), nil
	case QuarterCar:
		if c.QuarterCar == nil {
			return vehicle.NewQuarterCar(), nil
		}
		return c.QuarterCar.Clone(), nil
	case TwoMass:
		if c.TwoMass == nil {
			return vehicle.NewTwoMass(), nil
		}
		return c.TwoMass.Clone(), nil
	default:
		return nil, dynamo.Invalid("unknown vehicle model %q, want %s, %s or %s", name, HalfCar, QuarterCar, TwoMass)
	}
}

// SweepBase is the model the sweep starts from.
func (c *Config) SweepBase() (vehicle.Model, error) {
	return c.Model(c.SweepModel)
}

// SweepRequest builds the sweep described by the config.
func (c *Config) SweepRequest() analysis.SweepRequest {
	return analysis.SweepRequest{
		Parameters: c.Sweep,
		Options:    c.Dynamic,
		Workers:    c.Workers,
	}
}
