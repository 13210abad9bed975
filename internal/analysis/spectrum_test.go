package analysis

import (
	"math"
	"testing"
)

func TestDominantFrequency(t *testing.T) {
	const dt = 0.01
	tests := []struct {
		name string
		fn   func(t float64) float64
		want float64
	}{
		{"5 Hz sine", func(t float64) float64 { return math.Sin(2 * math.Pi * 5 * t) }, 5},
		{"offset 12 Hz cosine", func(t float64) float64 { return 3 + 0.5*math.Cos(2*math.Pi*12*t) }, 12},
		{"flat", func(float64) float64 { return 7 }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, 200)
			for i := range data {
				data[i] = tt.fn(float64(i) * dt)
			}
			if got := DominantFrequency(data, dt); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DominantFrequency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerSpectrumShortInput(t *testing.T) {
	if ps := PowerSpectrum([]float64{1}); ps != nil {
		t.Errorf("PowerSpectrum() = %v, want nil", ps)
	}
}
