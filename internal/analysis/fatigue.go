package analysis

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/structdyn/internal/fatigue"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/profile"
	"github.com/san-kum/structdyn/internal/reaction"
)

// FatigueRequest is a suspension corner loaded by a force cycling between
// MinimumForce and MaximumForce. StressConcentrationFactor defaults to 1.
type FatigueRequest struct {
	Suspension `yaml:",inline"`

	MaximumForce              reaction.Vector3 `json:"maximum_applied_force" yaml:"maximum_applied_force"`
	MinimumForce              reaction.Vector3 `json:"minimum_applied_force" yaml:"minimum_applied_force"`
	StressConcentrationFactor float64          `json:"stress_concentration_factor,omitempty" yaml:"stress_concentration_factor,omitempty"`
	FatigueLimit              float64          `json:"fatigue_limit,omitempty" yaml:"fatigue_limit,omitempty"`
	FatigueLimitFraction      float64          `json:"fatigue_limit_fraction,omitempty" yaml:"fatigue_limit_fraction,omitempty"`
	IsRotativeSection         bool             `json:"is_rotative_section,omitempty" yaml:"is_rotative_section,omitempty"`
	Reliability               string           `json:"reliability,omitempty" yaml:"reliability,omitempty"`
	SurfaceFinish             string           `json:"surface_finish,omitempty" yaml:"surface_finish,omitempty"`
	Temperature               float64          `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Decimals                  *int             `json:"decimals,omitempty" yaml:"decimals,omitempty"`
}

// ShockAbsorberFatigue is the force cycle of the shock absorber.
type ShockAbsorberFatigue struct {
	ForceAmplitude float64 `json:"force_amplitude"`
	MeanForce      float64 `json:"mean_force"`
}

// SegmentFatigue pairs the worst static check of a member over the cycle
// with its fatigue result.
type SegmentFatigue struct {
	SegmentResult
	Fatigue fatigue.Result `json:"fatigue"`
}

type WishboneFatigue struct {
	FrontSegment SegmentFatigue `json:"front_segment"`
	RearSegment  SegmentFatigue `json:"rear_segment"`
}

type FatigueResult struct {
	ShockAbsorber ShockAbsorberFatigue `json:"shock_absorber"`
	LowerWishbone WishboneFatigue      `json:"lower_wishbone"`
	UpperWishbone WishboneFatigue      `json:"upper_wishbone"`
	TieRod        SegmentFatigue       `json:"tie_rod"`
}

// RunFatigue runs the static analysis for both ends of the load cycle
// concurrently and feeds the stress pairs to calc. A nil calc uses
// fatigue.Marin.
func RunFatigue(ctx context.Context, req FatigueRequest, calc fatigue.Calculator) (FatigueResult, error) {
	if calc == nil {
		calc = fatigue.Marin{}
	}
	s, err := req.Suspension.resolve()
	if err != nil {
		return FatigueResult{}, err
	}
	base, err := req.fatigueInput(s)
	if err != nil {
		return FatigueResult{}, err
	}

	var maximum, minimum StaticResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		maximum, err = runStatic(gctx, s, req.MaximumForce)
		return err
	})
	g.Go(func() error {
		if req.MinimumForce.IsZero() {
			minimum = unloaded()
			return nil
		}
		var err error
		minimum, err = runStatic(gctx, s, req.MinimumForce)
		return err
	})
	if err := g.Wait(); err != nil {
		return FatigueResult{}, err
	}

	kt := req.StressConcentrationFactor
	if kt == 0 {
		kt = 1
	}
	segment := func(hi, lo SegmentResult, p profile.Profile) (SegmentFatigue, error) {
		in := base
		in.MaximumStress = kt * hi.EquivalentStress
		in.MinimumStress = kt * lo.EquivalentStress
		in.EquivalentDiameter = equivalentDiameter(p)
		fr, err := calc.Calculate(in)
		if err != nil {
			return SegmentFatigue{}, err
		}
		return SegmentFatigue{
			SegmentResult: SegmentResult{
				AppliedForce:          MaxAbs(hi.AppliedForce, lo.AppliedForce),
				EquivalentStress:      MaxAbs(hi.EquivalentStress, lo.EquivalentStress),
				StressSafetyFactor:    MinAbs(hi.StressSafetyFactor, lo.StressSafetyFactor),
				CriticalBucklingForce: hi.CriticalBucklingForce,
				BucklingSafetyFactor:  MinAbs(hi.BucklingSafetyFactor, lo.BucklingSafetyFactor),
			},
			Fatigue: fr,
		}, nil
	}

	var res FatigueResult
	maxShock, minShock := maximum.ShockAbsorber.Magnitude, minimum.ShockAbsorber.Magnitude
	res.ShockAbsorber = ShockAbsorberFatigue{
		ForceAmplitude: math.Abs(maxShock-minShock) / 2,
		MeanForce:      (maxShock + minShock) / 2,
	}

	for _, c := range []struct {
		dst     *SegmentFatigue
		hi, lo  SegmentResult
		profile profile.Profile
	}{
		{&res.LowerWishbone.FrontSegment, maximum.LowerWishbone.FrontSegment, minimum.LowerWishbone.FrontSegment, s.lowerWishbone},
		{&res.LowerWishbone.RearSegment, maximum.LowerWishbone.RearSegment, minimum.LowerWishbone.RearSegment, s.lowerWishbone},
		{&res.UpperWishbone.FrontSegment, maximum.UpperWishbone.FrontSegment, minimum.UpperWishbone.FrontSegment, s.upperWishbone},
		{&res.UpperWishbone.RearSegment, maximum.UpperWishbone.RearSegment, minimum.UpperWishbone.RearSegment, s.upperWishbone},
		{&res.TieRod, maximum.TieRod, minimum.TieRod, s.tieRod},
	} {
		sf, err := segment(c.hi, c.lo, c.profile)
		if err != nil {
			return FatigueResult{}, err
		}
		*c.dst = sf
	}

	if req.Decimals != nil {
		res = res.Round(*req.Decimals)
	}
	return res, nil
}

func (req FatigueRequest) fatigueInput(s resolved) (fatigue.Input, error) {
	rel, err := fatigue.ParseReliability(req.Reliability)
	if err != nil {
		return fatigue.Input{}, err
	}
	finish, err := fatigue.ParseSurfaceFinish(req.SurfaceFinish)
	if err != nil {
		return fatigue.Input{}, err
	}
	return fatigue.Input{
		TensileStrength:      s.material.TensileStrength,
		FatigueLimit:         req.FatigueLimit,
		FatigueLimitFraction: req.FatigueLimitFraction,
		IsRotativeSection:    req.IsRotativeSection,
		Reliability:          rel,
		SurfaceFinish:        finish,
		LoadingType:          fatigue.Axial,
		Temperature:          req.Temperature,
	}, nil
}

// unloaded is the static result of a zero force: no stress and unbounded
// safety factors.
func unloaded() StaticResult {
	free := SegmentResult{StressSafetyFactor: math.MaxFloat64, BucklingSafetyFactor: math.MaxFloat64}
	arm := WishboneResult{FrontSegment: free, RearSegment: free}
	return StaticResult{
		ShockAbsorber: reaction.Force{Member: reaction.MemberName(reaction.ShockAbsorber)},
		LowerWishbone: arm,
		UpperWishbone: arm,
		TieRod:        free,
		Balanced:      true,
	}
}

// equivalentDiameter is the diameter used by the size factor: the outer
// diameter of a circular section, 0.808·√(hb) for a rectangular one.
func equivalentDiameter(p profile.Profile) float64 {
	switch p := p.(type) {
	case profile.Circular:
		return p.Diameter
	case profile.Rectangular:
		return 0.808 * math.Sqrt(p.Height*p.Width)
	}
	return 0
}

func (s SegmentFatigue) Round(decimals int) SegmentFatigue {
	return SegmentFatigue{
		SegmentResult: s.SegmentResult.Round(decimals),
		Fatigue: fatigue.Result{
			EquivalentStress: linalg.Round(s.Fatigue.EquivalentStress, decimals),
			NumberOfCycles:   linalg.Round(s.Fatigue.NumberOfCycles, decimals),
			SafetyFactor:     linalg.Round(s.Fatigue.SafetyFactor, decimals),
		},
	}
}

func (r FatigueResult) Round(decimals int) FatigueResult {
	return FatigueResult{
		ShockAbsorber: ShockAbsorberFatigue{
			ForceAmplitude: linalg.Round(r.ShockAbsorber.ForceAmplitude, decimals),
			MeanForce:      linalg.Round(r.ShockAbsorber.MeanForce, decimals),
		},
		LowerWishbone: WishboneFatigue{r.LowerWishbone.FrontSegment.Round(decimals), r.LowerWishbone.RearSegment.Round(decimals)},
		UpperWishbone: WishboneFatigue{r.UpperWishbone.FrontSegment.Round(decimals), r.UpperWishbone.RearSegment.Round(decimals)},
		TieRod:        r.TieRod.Round(decimals),
	}
}
