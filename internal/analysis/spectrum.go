package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the discrete
// Fourier transform of data, mean removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	var mean float64
	for _, x := range data {
		mean += x
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, x := range data {
		centered[i] = x - mean
	}

	coef := fft.FFTReal(centered)
	ps := make([]float64, len(coef)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coef[i])
	}
	return ps
}

// DominantFrequency is the frequency in Hz of the largest non-zero bin of
// the spectrum of data sampled every dt. A flat signal gives 0.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if best == 0 || dt <= 0 {
		return 0
	}
	return float64(best) / (float64(len(data)) * dt)
}
