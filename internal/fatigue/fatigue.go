// Package fatigue estimates fatigue life from a stress cycle with a Marin
// corrected endurance limit, the Goodman mean stress correction and a
// Basquin S-N curve.
package fatigue

import (
	"math"
	"strings"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Infinite marks a cycle count or safety factor without a finite bound.
const Infinite = math.MaxFloat64

type Reliability string

const (
	Reliability50    Reliability = "50"
	Reliability90    Reliability = "90"
	Reliability95    Reliability = "95"
	Reliability99    Reliability = "99"
	Reliability99_9  Reliability = "99.9"
	Reliability99_99 Reliability = "99.99"
)

var reliabilityFactor = map[Reliability]float64{
	Reliability50:    1.000,
	Reliability90:    0.897,
	Reliability95:    0.868,
	Reliability99:    0.814,
	Reliability99_9:  0.753,
	Reliability99_99: 0.702,
}

type SurfaceFinish string

const (
	Ground    SurfaceFinish = "ground"
	Machined  SurfaceFinish = "machined"
	HotRolled SurfaceFinish = "hot_rolled"
	AsForged  SurfaceFinish = "as_forged"
	ColdDrawn SurfaceFinish = "cold_drawn"
)

// Surface factor ka = a * Sut^b with Sut in MPa.
var surfaceCoefficients = map[SurfaceFinish][2]float64{
	Ground:    {1.58, -0.085},
	Machined:  {4.51, -0.265},
	ColdDrawn: {4.51, -0.265},
	HotRolled: {57.7, -0.718},
	AsForged:  {272, -0.995},
}

type LoadingType string

const (
	Bending LoadingType = "bending"
	Axial   LoadingType = "axial"
	Torsion LoadingType = "torsion"
)

var loadingFactor = map[LoadingType]float64{
	Bending: 1,
	Axial:   0.85,
	Torsion: 0.59,
}

// Input describes one stress cycle in pascals.
type Input struct {
	MinimumStress        float64
	MaximumStress        float64
	TensileStrength      float64
	FatigueLimit         float64 // Se'; 0.5*Sut when zero
	FatigueLimitFraction float64 // f; 0.9 when zero
	EquivalentDiameter   float64 // metres, for the size factor
	IsRotativeSection    bool
	Reliability          Reliability
	SurfaceFinish        SurfaceFinish
	LoadingType          LoadingType
	Temperature          float64 // °C
}

// Result of a fatigue calculation.
type Result struct {
	EquivalentStress float64 `json:"equivalent_stress"`
	NumberOfCycles   float64 `json:"number_of_cycles"`
	SafetyFactor     float64 `json:"safety_factor"`
}

// Calculator turns a stress cycle into an equivalent stress, a life and a
// safety factor.
type Calculator interface {
	Calculate(in Input) (Result, error)
}

// Marin is the default Calculator.
type Marin struct{}

func ParseReliability(s string) (Reliability, error) {
	r := Reliability(strings.TrimSuffix(s, "%"))
	if r == "" {
		return Reliability50, nil
	}
	if _, ok := reliabilityFactor[r]; !ok {
		return "", dynamo.Invalid("unknown reliability %q", s)
	}
	return r, nil
}

func ParseSurfaceFinish(s string) (SurfaceFinish, error) {
	f := SurfaceFinish(strings.ReplaceAll(strings.ToLower(s), "-", "_"))
	if f == "" {
		return Machined, nil
	}
	if _, ok := surfaceCoefficients[f]; !ok {
		return "", dynamo.Invalid("unknown surface finish %q", s)
	}
	return f, nil
}

func (in *Input) defaults() {
	if in.FatigueLimit == 0 {
		in.FatigueLimit = 0.5 * in.TensileStrength
	}
	if in.FatigueLimitFraction == 0 {
		in.FatigueLimitFraction = 0.9
	}
	if in.Reliability == "" {
		in.Reliability = Reliability50
	}
	if in.SurfaceFinish == "" {
		in.SurfaceFinish = Machined
	}
	if in.LoadingType == "" {
		in.LoadingType = Axial
	}
	if in.Temperature == 0 {
		in.Temperature = 20
	}
}

// ModifiedFatigueLimit returns Se = ka*kb*kc*kd*ke*Se'.
func (Marin) ModifiedFatigueLimit(in Input) (float64, error) {
	in.defaults()
	if in.TensileStrength <= 0 {
		return 0, dynamo.Invalid("tensile strength must be positive")
	}
	surface, ok := surfaceCoefficients[in.SurfaceFinish]
	if !ok {
		return 0, dynamo.Invalid("unknown surface finish %q", in.SurfaceFinish)
	}
	ke, ok := reliabilityFactor[in.Reliability]
	if !ok {
		return 0, dynamo.Invalid("unknown reliability %q", in.Reliability)
	}
	kc, ok := loadingFactor[in.LoadingType]
	if !ok {
		return 0, dynamo.Invalid("unknown loading type %q", in.LoadingType)
	}

	sutMPa := in.TensileStrength / 1e6
	ka := surface[0] * math.Pow(sutMPa, surface[1])
	kb := sizeFactor(in)
	kd := temperatureFactor(in.Temperature)

	return ka * kb * kc * kd * ke * in.FatigueLimit, nil
}

func sizeFactor(in Input) float64 {
	if in.LoadingType == Axial || in.EquivalentDiameter <= 0 {
		return 1
	}
	d := in.EquivalentDiameter * 1e3
	if !in.IsRotativeSection {
		d *= 0.37
	}
	switch {
	case d < 2.79:
		return 1
	case d <= 51:
		return 1.24 * math.Pow(d, -0.107)
	case d <= 254:
		return 1.51 * math.Pow(d, -0.157)
	default:
		return 0.6
	}
}

// temperatureFactor takes °C; the polynomial fit is in °F.
func temperatureFactor(celsius float64) float64 {
	t := celsius*9/5 + 32
	return 0.975 + 0.432e-3*t - 0.115e-5*t*t + 0.104e-8*math.Pow(t, 3) - 0.595e-12*math.Pow(t, 4)
}

// Calculate applies the Goodman correction to the cycle and reads the life
// from the Basquin curve through (1e3, f*Sut) and (1e6, Se).
func (m Marin) Calculate(in Input) (Result, error) {
	in.defaults()
	se, err := m.ModifiedFatigueLimit(in)
	if err != nil {
		return Result{}, err
	}

	sut := in.TensileStrength
	amplitude := math.Abs(in.MaximumStress-in.MinimumStress) / 2
	mean := (in.MaximumStress + in.MinimumStress) / 2

	if amplitude == 0 && mean == 0 {
		return Result{NumberOfCycles: Infinite, SafetyFactor: Infinite}, nil
	}
	if mean >= sut {
		return Result{EquivalentStress: Infinite, NumberOfCycles: 0, SafetyFactor: 0}, nil
	}

	var equivalent, safety float64
	if mean > 0 {
		equivalent = amplitude / (1 - mean/sut)
		safety = 1 / (amplitude/se + mean/sut)
	} else {
		equivalent = amplitude
		safety = se / amplitude
	}

	res := Result{EquivalentStress: equivalent, SafetyFactor: safety, NumberOfCycles: Infinite}
	if equivalent > se {
		fs := in.FatigueLimitFraction * sut
		a := fs * fs / se
		b := -math.Log10(fs/se) / 3
		res.NumberOfCycles = math.Pow(equivalent/a, 1/b)
	}
	return res, nil
}
