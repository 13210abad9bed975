package fatigue

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/structdyn/internal/dynamo"
)

func steelCycle(min, max float64) Input {
	return Input{
		MinimumStress:   min,
		MaximumStress:   max,
		TensileStrength: 860e6,
		SurfaceFinish:   Ground,
		Reliability:     Reliability50,
		LoadingType:     Bending,
	}
}

func TestBasquinAnchors(t *testing.T) {
	m := Marin{}
	in := steelCycle(0, 0)
	se, err := m.ModifiedFatigueLimit(in)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		stress float64
		cycles float64
	}{
		{"low cycle anchor", 0.9 * 860e6, 1e3},
		{"just above endurance", se * 1.0000001, 1e6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Calculate(steelCycle(-tt.stress, tt.stress))
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(math.Log10(res.NumberOfCycles)-math.Log10(tt.cycles)) > 1e-3 {
				t.Errorf("cycles = %v, want %v", res.NumberOfCycles, tt.cycles)
			}
		})
	}
}

func TestLifeDecreasesWithAmplitude(t *testing.T) {
	m := Marin{}
	prev := math.Inf(1)
	for _, amp := range []float64{400e6, 500e6, 600e6, 700e6} {
		res, err := m.Calculate(steelCycle(-amp, amp))
		if err != nil {
			t.Fatal(err)
		}
		if res.NumberOfCycles >= prev {
			t.Errorf("amplitude %v: cycles %v not below %v", amp, res.NumberOfCycles, prev)
		}
		prev = res.NumberOfCycles
	}
}

func TestInfiniteLife(t *testing.T) {
	res, err := Marin{}.Calculate(steelCycle(-10e6, 10e6))
	if err != nil {
		t.Fatal(err)
	}
	if res.NumberOfCycles != Infinite {
		t.Errorf("cycles = %v, want infinite", res.NumberOfCycles)
	}
	if res.SafetyFactor <= 1 {
		t.Errorf("safety factor = %v, want > 1", res.SafetyFactor)
	}

	res, err = Marin{}.Calculate(steelCycle(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if res.SafetyFactor != Infinite {
		t.Errorf("unloaded safety factor = %v, want infinite", res.SafetyFactor)
	}
}

func TestGoodmanMeanStress(t *testing.T) {
	m := Marin{}
	reversed, _ := m.Calculate(steelCycle(-200e6, 200e6))
	pulsating, _ := m.Calculate(steelCycle(100e6, 500e6))

	if pulsating.EquivalentStress <= reversed.EquivalentStress {
		t.Errorf("tensile mean should raise equivalent stress: %v <= %v",
			pulsating.EquivalentStress, reversed.EquivalentStress)
	}
}

func TestParse(t *testing.T) {
	if r, err := ParseReliability("99%"); err != nil || r != Reliability99 {
		t.Errorf("ParseReliability(99%%) = %v, %v", r, err)
	}
	if _, err := ParseReliability("42"); !errors.Is(err, dynamo.ErrInvalidRequest) {
		t.Errorf("ParseReliability(42) error = %v", err)
	}
	if f, err := ParseSurfaceFinish("Hot-Rolled"); err != nil || f != HotRolled {
		t.Errorf("ParseSurfaceFinish(Hot-Rolled) = %v, %v", f, err)
	}
}

func TestTemperatureFactorNearOneAtRoomTemperature(t *testing.T) {
	if kd := temperatureFactor(20); math.Abs(kd-1) > 0.01 {
		t.Errorf("temperatureFactor(20) = %v, want about 1", kd)
	}
}
