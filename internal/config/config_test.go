package config

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/vehicle"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Analysis != HalfCar {
		t.Errorf("expected analysis %s, got %s", HalfCar, cfg.Analysis)
	}
	if err := analysis.ValidateDynamic(cfg.Dynamic); err != nil {
		t.Errorf("default time grid rejected: %v", err)
	}
	if err := cfg.HalfCar.Validate(); err != nil {
		t.Errorf("default half-car rejected: %v", err)
	}
	if err := cfg.Beam.Validate(); err != nil {
		t.Errorf("default beam rejected: %v", err)
	}
}

func TestDefaultSuspensionSolves(t *testing.T) {
	cfg := DefaultConfig()

	res, err := analysis.RunStatic(context.Background(), *cfg.Static)
	if err != nil {
		t.Fatalf("RunStatic() error = %v", err)
	}
	if !res.Balanced {
		t.Error("default suspension does not balance the applied force")
	}
	for _, f := range res.Reactions.Reactions {
		if math.IsNaN(f.Magnitude) || math.IsInf(f.Magnitude, 0) || f.Magnitude == 0 {
			t.Errorf("%s reaction = %v", f.Member, f.Magnitude)
		}
	}

	fat, err := analysis.RunFatigue(context.Background(), *cfg.Fatigue, nil)
	if err != nil {
		t.Fatalf("RunFatigue() error = %v", err)
	}
	if sf := fat.TieRod.Fatigue.SafetyFactor; !(sf > 0) {
		t.Errorf("tie rod fatigue safety factor = %v, want positive", sf)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset(Sweep, "quarter-car")
	cfg.QuarterCar.DampingCoefficient = 1234

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("analysis: quarter-car\nquarter_car:\n  mass: 300\ndynamic:\n  final_time: 5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.QuarterCar.BodyMass != 300 || cfg.QuarterCar.SpringStiffness != vehicle.NewQuarterCar().SpringStiffness {
		t.Errorf("quarter car = %+v", cfg.QuarterCar)
	}
	if cfg.Dynamic.FinalTime != 5 || cfg.Dynamic.TimeStep != DefaultTimeStep {
		t.Errorf("dynamic = %+v", cfg.Dynamic)
	}
}

func TestLoadSuspensionPoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "static.yaml")
	data := []byte("analysis: static\nstatic:\n  applied_force: 10,20,30\n  geometry:\n    tie_rod:\n      inactive_point: 0.1,0.2,0.3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := cfg.Static.AppliedForce; got.X != 10 || got.Y != 20 || got.Z != 30 {
		t.Errorf("applied force = %v", got)
	}
	if got := cfg.Static.Geometry.TieRod.Inactive; got.Z != 0.3 {
		t.Errorf("tie rod inactive point = %v", got)
	}
	if cfg.Static.Material != DefaultSuspension().Material {
		t.Errorf("material = %q, want default", cfg.Static.Material)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestModel(t *testing.T) {
	cfg := DefaultConfig()

	m, err := cfg.Model("")
	if err != nil || m.Name() != HalfCar {
		t.Fatalf("Model(\"\") = %v, %v", m, err)
	}
	if err := m.SetParam("car_mass", 1); err != nil {
		t.Fatal(err)
	}
	if cfg.HalfCar.CarMass == 1 {
		t.Error("Model() returned the config's own half-car")
	}

	cfg.TwoMass = nil
	if m, err := cfg.Model(TwoMass); err != nil || m.DegreesOfFreedom() != 2 {
		t.Errorf("Model(%q) = %v, %v", TwoMass, m, err)
	}

	if _, err := cfg.Model("unicycle"); !errors.Is(err, dynamo.ErrInvalidRequest) {
		t.Errorf("expected invalid request, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(QuarterCar, "stiff")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.QuarterCar.SpringStiffness != 1e5 {
		t.Errorf("expected stiffness 1e5, got %f", cfg.QuarterCar.SpringStiffness)
	}

	cfg.QuarterCar.SpringStiffness = 1
	if GetPreset(QuarterCar, "stiff").QuarterCar.SpringStiffness != 1e5 {
		t.Error("presets share state between calls")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset(QuarterCar, "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "stiff"); cfg != nil {
		t.Error("expected nil for nonexistent analysis")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range Analyses() {
		for _, preset := range ListPresets(name) {
			t.Run(name+"/"+preset, func(t *testing.T) {
				cfg := GetPreset(name, preset)
				if cfg.Analysis != name {
					t.Errorf("analysis = %q, want %q", cfg.Analysis, name)
				}
				if err := analysis.ValidateDynamic(cfg.Dynamic); err != nil {
					t.Error(err)
				}
				switch name {
				case HalfCar:
					if err := cfg.HalfCar.Validate(); err != nil {
						t.Error(err)
					}
				case QuarterCar:
					if err := cfg.QuarterCar.Validate(); err != nil {
						t.Error(err)
					}
				case TwoMass:
					if err := cfg.TwoMass.Validate(); err != nil {
						t.Error(err)
					}
				case Knuckle:
					if _, err := analysis.RunKnuckle(context.Background(), *cfg.Knuckle); err != nil {
						t.Error(err)
					}
				case Beam:
					if _, err := analysis.RunBeam(context.Background(), *cfg.Beam, nil); err != nil {
						t.Error(err)
					}
				case Static:
					if _, err := analysis.RunStatic(context.Background(), *cfg.Static); err != nil {
						t.Error(err)
					}
				case Fatigue:
					if _, err := analysis.RunFatigue(context.Background(), *cfg.Fatigue, nil); err != nil {
						t.Error(err)
					}
				case Sweep:
					base, err := cfg.SweepBase()
					if err != nil {
						t.Fatal(err)
					}
					for _, p := range cfg.Sweep {
						if _, ok := base.GetParams()[p.Name]; !ok {
							t.Errorf("%s has no parameter %q", base.Name(), p.Name)
						}
					}
				}
			})
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets(Beam)
	if diff := cmp.Diff([]string{"absorber", "cantilever", "piezo-harvester", "pinned"}, presets); diff != "" {
		t.Errorf("beam presets mismatch (-want +got):\n%s", diff)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent analysis")
	}
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("dynamic:\n  final_time: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadOver(path, GetPreset(QuarterCar, "stiff"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dynamic.FinalTime != 7 {
		t.Errorf("final time = %v, want 7", cfg.Dynamic.FinalTime)
	}
	if cfg.QuarterCar.SpringStiffness != 1e5 {
		t.Errorf("preset stiffness lost: %v", cfg.QuarterCar.SpringStiffness)
	}
}
