package analysis

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
)

// massless is the eigenvalue ratio under which a mode is taken as carrying
// no mass.
const massless = 1e-12

// NaturalFrequencies returns the undamped natural angular frequencies of
// sys in ascending order, in rad/s. They come from det(K - ω²M) = 0 through
// the eigenvalues λ = 1/ω² of K⁻¹M. Degrees of freedom without mass, such
// as piezoelectric potentials, give λ = 0 and no frequency.
func NaturalFrequencies(sys newmark.System) ([]float64, error) {
	flexibility, err := linalg.Inverse(sys.Stiffness)
	if err != nil {
		return nil, fmt.Errorf("natural frequencies: %w", err)
	}
	dynamical, err := linalg.Multiply(flexibility, sys.Mass)
	if err != nil {
		return nil, fmt.Errorf("natural frequencies: %w", err)
	}
	values, err := linalg.Eigenvalues(dynamical)
	if err != nil {
		return nil, fmt.Errorf("natural frequencies: %w", err)
	}

	largest := 0.0
	for _, v := range values {
		largest = max(largest, real(v))
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if real(v) <= massless*largest {
			continue
		}
		out = append(out, 1/math.Sqrt(real(v)))
	}
	slices.Sort(out)
	return out, nil
}
