package config

import (
	"sort"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/excitation"
	"github.com/san-kum/structdyn/internal/profile"
	"github.com/san-kum/structdyn/internal/reaction"
	"github.com/san-kum/structdyn/internal/vehicle"
)

// Presets are keyed by analysis, then by preset name. Each call builds
// fresh values so callers may change what they get.
var Presets = map[string]map[string]func() *Config{
	HalfCar: {
		"bump": func() *Config {
			return halfCar(excitation.Bump(0.1, 0.3, 20), 2)
		},
		"pothole": func() *Config {
			return halfCar(excitation.Bump(-0.08, 0.5, 30), 2)
		},
		"washboard": func() *Config {
			c := excitation.Bump(0.03, 0.2, 40)
			c.LimitTimes = []float64{0, 0.018, 0.1, 0.118, 0.2, 0.218}
			c.Constants = []float64{0.03, 1, -1, 0.03, 1, -1, 0.03, 1, -1}
			return halfCar(c, 3)
		},
	},
	QuarterCar: {
		"resonance": func() *Config {
			q := vehicle.NewQuarterCar()
			q.Frequency = 10
			return quarterCar(q, 5)
		},
		"stiff": func() *Config {
			q := vehicle.NewQuarterCar()
			q.SpringStiffness = 1e5
			q.DampingCoefficient = 3000
			return quarterCar(q, 3)
		},
		"road-hz": func() *Config {
			q := vehicle.NewQuarterCar()
			q.Frequency = 1.5
			q.Hertz = true
			return quarterCar(q, 10)
		},
	},
	TwoMass: {
		"tuned": func() *Config {
			return twoMass(vehicle.NewTwoMass(), 5)
		},
		"detuned": func() *Config {
			m := vehicle.NewTwoMass()
			m.SecondaryStiffness = 5000
			return twoMass(m, 5)
		},
	},
	Static: {
		"cornering": func() *Config {
			return static(reaction.Vector3{X: 1500, Y: 3000, Z: 0})
		},
		"braking": func() *Config {
			return static(reaction.Vector3{X: 0, Y: 3000, Z: 2000})
		},
	},
	Fatigue: {
		"rough-road": func() *Config {
			cfg := DefaultConfig()
			cfg.Analysis = Fatigue
			cfg.Fatigue.MaximumForce = reaction.Vector3{X: 0, Y: 4500, Z: 600}
			cfg.Fatigue.MinimumForce = reaction.Vector3{X: 0, Y: 1500, Z: 200}
			cfg.Fatigue.SurfaceFinish = "hot_rolled"
			return cfg
		},
	},
	Beam: {
		"pinned": func() *Config {
			cfg := DefaultConfig()
			cfg.Analysis = Beam
			return cfg
		},
		"cantilever": func() *Config {
			cfg := DefaultConfig()
			cfg.Analysis = Beam
			cfg.Beam.Fastenings = []analysis.NodeFastening{{Node: 0, Type: "fixed"}}
			cfg.Beam.Forces = []analysis.NodeValue{{Node: 10, Value: 10}}
			return cfg
		},
		"absorber": func() *Config {
			cfg := DefaultConfig()
			cfg.Analysis = Beam
			cfg.Beam.Absorbers = []analysis.AbsorberRequest{{Node: 5, Mass: 0.03, Stiffness: 57}}
			return cfg
		},
		"piezo-harvester": func() *Config {
			cfg := DefaultConfig()
			cfg.Analysis = Beam
			cfg.Beam.NumberOfElements = 2
			cfg.Beam.Profile = profile.Spec{Rectangular: &profile.Rectangular{Height: 3e-3, Width: 25e-3}}
			cfg.Beam.Fastenings = []analysis.NodeFastening{{Node: 0, Type: "pinned"}, {Node: 2, Type: "pinned"}}
			cfg.Beam.Forces = []analysis.NodeValue{{Node: 1, Value: 100}}
			cfg.Beam.Piezoelectric = &analysis.PiezoelectricRequest{
				Elements:                 []int{1},
				Height:                   0.267e-3,
				Width:                    25e-3,
				SpecificMass:             7650,
				DielectricConstant:       7.33e-9,
				DielectricPermissiveness: 30.705,
				ElasticityConstant:       1.076e11,
			}
			return cfg
		},
	},
	Knuckle: {
		"front": func() *Config {
			cfg := DefaultConfig()
			cfg.Analysis = Knuckle
			return cfg
		},
		"rear": func() *Config {
			cfg := DefaultConfig()
			cfg.Analysis = Knuckle
			cfg.Knuckle.Load.Position = reaction.Rear
			cfg.Knuckle.Load.SteeringWheelForce = reaction.Vector3{}
			return cfg
		},
	},
	Sweep: {
		"absorber-tuning": func() *Config {
			cfg := twoMass(vehicle.NewTwoMass(), 5)
			cfg.Analysis = Sweep
			cfg.SweepModel = TwoMass
			cfg.Sweep = []analysis.SweepParameter{
				{Name: "secondary_stiffness", Values: []float64{1500, 2000, 2500, 3000, 3500}},
			}
			return cfg
		},
		"quarter-car": func() *Config {
			cfg := quarterCar(vehicle.NewQuarterCar(), 3)
			cfg.Analysis = Sweep
			cfg.Sweep = []analysis.SweepParameter{
				{Name: "mass", Values: []float64{200, 250, 300}},
				{Name: "stiffness", Values: []float64{2e4, 2.5e4, 3e4}},
			}
			return cfg
		},
		"half-car-speed": func() *Config {
			cfg := halfCar(excitation.Bump(0.1, 0.3, 20), 2)
			cfg.Analysis = Sweep
			cfg.SweepModel = HalfCar
			cfg.Sweep = []analysis.SweepParameter{
				{Name: "car_speed", Values: []float64{10, 20, 30, 40}},
				{Name: "obstacle_height", Values: []float64{0.05, 0.1}},
			}
			return cfg
		},
	},
}

func halfCar(c excitation.Curve, finalTime float64) *Config {
	cfg := DefaultConfig()
	cfg.Analysis = HalfCar
	cfg.HalfCar.Excitation = &c
	cfg.Dynamic.FinalTime = finalTime
	return cfg
}

func quarterCar(q *vehicle.QuarterCar, finalTime float64) *Config {
	cfg := DefaultConfig()
	cfg.Analysis = QuarterCar
	cfg.QuarterCar = q
	cfg.Dynamic.FinalTime = finalTime
	return cfg
}

func twoMass(m *vehicle.TwoMass, finalTime float64) *Config {
	cfg := DefaultConfig()
	cfg.Analysis = TwoMass
	cfg.TwoMass = m
	cfg.Dynamic.FinalTime = finalTime
	return cfg
}

func static(force reaction.Vector3) *Config {
	cfg := DefaultConfig()
	cfg.Analysis = Static
	cfg.Static.AppliedForce = force
	return cfg
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name, preset string) *Config {
	byName, ok := Presets[name]
	if !ok {
		return nil
	}
	build, ok := byName[preset]
	if !ok {
		return nil
	}
	return build()
}

// ListPresets returns the preset names of an analysis, sorted.
func ListPresets(name string) []string {
	byName, ok := Presets[name]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Analyses lists the analyses that have presets, sorted.
func Analyses() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
