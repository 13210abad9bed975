package material

import (
	"sort"
	"strings"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Material holds the mechanical properties used by the analyses, in SI units.
type Material struct {
	Name            string  `json:"name" yaml:"name"`
	YoungModulus    float64 `json:"young_modulus" yaml:"young_modulus"`       // Pa
	YieldStrength   float64 `json:"yield_strength" yaml:"yield_strength"`     // Pa
	TensileStrength float64 `json:"tensile_strength" yaml:"tensile_strength"` // Pa
	SpecificMass    float64 `json:"specific_mass" yaml:"specific_mass"`       // kg/m³
}

const mpa = 1e6

var table = map[string]Material{
	"steel1020": {
		Name: "steel1020", YoungModulus: 205e3 * mpa, YieldStrength: 350 * mpa,
		TensileStrength: 470 * mpa, SpecificMass: 7850,
	},
	"steel1045": {
		Name: "steel1045", YoungModulus: 200e3 * mpa, YieldStrength: 450 * mpa,
		TensileStrength: 738 * mpa, SpecificMass: 7850,
	},
	"steel4130": {
		Name: "steel4130", YoungModulus: 200e3 * mpa, YieldStrength: 552 * mpa,
		TensileStrength: 860 * mpa, SpecificMass: 7850,
	},
	"aluminum6061t6": {
		Name: "aluminum6061t6", YoungModulus: 70e3 * mpa, YieldStrength: 276 * mpa,
		TensileStrength: 310 * mpa, SpecificMass: 2710,
	},
}

// Get looks a material up by name, ignoring case, dashes and underscores.
func Get(name string) (Material, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	m, ok := table[key]
	if !ok {
		return Material{}, dynamo.Invalid("unknown material %q (available: %v)", name, List())
	}
	return m, nil
}

func List() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
