package analysis

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/material"
	"github.com/san-kum/structdyn/internal/profile"
	"github.com/san-kum/structdyn/internal/reaction"
)

// Suspension describes a double-wishbone corner: attachment points, the
// material of its members and the cross-section of each load-carrying
// member. The shock absorber is reported as a force only.
type Suspension struct {
	Material      string            `json:"material" yaml:"material"`
	Geometry      reaction.Geometry `json:"geometry" yaml:"geometry"`
	LowerWishbone profile.Spec      `json:"lower_wishbone_profile" yaml:"lower_wishbone_profile"`
	UpperWishbone profile.Spec      `json:"upper_wishbone_profile" yaml:"upper_wishbone_profile"`
	TieRod        profile.Spec      `json:"tie_rod_profile" yaml:"tie_rod_profile"`
}

type StaticRequest struct {
	Suspension   `yaml:",inline"`
	AppliedForce reaction.Vector3 `json:"applied_force" yaml:"applied_force"`
	Decimals     *int             `json:"decimals,omitempty" yaml:"decimals,omitempty"`
}

// SegmentResult is the check of one two-force member.
type SegmentResult struct {
	AppliedForce          float64 `json:"applied_force"`
	EquivalentStress      float64 `json:"equivalent_stress"`
	StressSafetyFactor    float64 `json:"stress_safety_factor"`
	CriticalBucklingForce float64 `json:"critical_buckling_force"`
	BucklingSafetyFactor  float64 `json:"buckling_safety_factor"`
}

// WishboneResult holds the front and rear segments of an A-arm.
type WishboneResult struct {
	FrontSegment SegmentResult `json:"front_segment"`
	RearSegment  SegmentResult `json:"rear_segment"`
}

type StaticResult struct {
	ShockAbsorber reaction.Force  `json:"shock_absorber"`
	LowerWishbone WishboneResult  `json:"lower_wishbone"`
	UpperWishbone WishboneResult  `json:"upper_wishbone"`
	TieRod        SegmentResult   `json:"tie_rod"`
	Reactions     reaction.Result `json:"reactions"`

	// Balanced is the equilibrium residual check. It is reported, never
	// enforced.
	Balanced bool `json:"balanced"`
}

// resolved is a Suspension with its lookups done.
type resolved struct {
	material      material.Material
	geometry      reaction.Geometry
	lowerWishbone profile.Profile
	upperWishbone profile.Profile
	tieRod        profile.Profile
}

func (s Suspension) resolve() (resolved, error) {
	m, err := material.Get(s.Material)
	if err != nil {
		return resolved{}, err
	}
	out := resolved{material: m, geometry: s.Geometry}
	for _, p := range []struct {
		name string
		spec profile.Spec
		dst  *profile.Profile
	}{
		{"lower wishbone", s.LowerWishbone, &out.lowerWishbone},
		{"upper wishbone", s.UpperWishbone, &out.upperWishbone},
		{"tie rod", s.TieRod, &out.tieRod},
	} {
		prof, err := p.spec.Resolve()
		if err != nil {
			return resolved{}, dynamo.Invalid("%s profile: %v", p.name, err)
		}
		*p.dst = prof
	}
	return out, nil
}

// RunStatic solves the corner for the applied force and checks every member
// for yielding and buckling.
func RunStatic(ctx context.Context, req StaticRequest) (StaticResult, error) {
	s, err := req.Suspension.resolve()
	if err != nil {
		return StaticResult{}, err
	}
	res, err := runStatic(ctx, s, req.AppliedForce)
	if err != nil {
		return StaticResult{}, err
	}
	if req.Decimals != nil {
		res = res.Round(*req.Decimals)
	}
	return res, nil
}

func runStatic(ctx context.Context, s resolved, applied reaction.Vector3) (StaticResult, error) {
	reactions, err := reaction.Solve(applied, s.geometry)
	if err != nil {
		return StaticResult{}, err
	}
	forces := reactions.Magnitudes()
	lengths := s.geometry.Lengths()

	res := StaticResult{Reactions: reactions}
	res.Balanced = reaction.Balanced(reaction.Residual(reactions, applied, s.geometry))

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.ShockAbsorber = reactions.Reactions[reaction.ShockAbsorber]
		return nil
	})
	g.Go(func() error {
		res.LowerWishbone = WishboneResult{
			FrontSegment: checkSegment(forces[reaction.LowerWishboneFront], lengths[reaction.LowerWishboneFront], s.lowerWishbone, s.material),
			RearSegment:  checkSegment(forces[reaction.LowerWishboneRear], lengths[reaction.LowerWishboneRear], s.lowerWishbone, s.material),
		}
		return nil
	})
	g.Go(func() error {
		res.UpperWishbone = WishboneResult{
			FrontSegment: checkSegment(forces[reaction.UpperWishboneFront], lengths[reaction.UpperWishboneFront], s.upperWishbone, s.material),
			RearSegment:  checkSegment(forces[reaction.UpperWishboneRear], lengths[reaction.UpperWishboneRear], s.upperWishbone, s.material),
		}
		return nil
	})
	g.Go(func() error {
		res.TieRod = checkSegment(forces[reaction.TieRod], lengths[reaction.TieRod], s.tieRod, s.material)
		return nil
	})
	if err := g.Wait(); err != nil {
		return StaticResult{}, err
	}
	return res, ctx.Err()
}

// checkSegment computes the normal stress and Euler buckling load of an
// axially loaded member. An unloaded member has infinite safety factors.
func checkSegment(force, length float64, p profile.Profile, m material.Material) SegmentResult {
	stress := force / p.Area()
	pcr := math.Pi * math.Pi * m.YoungModulus * p.MomentOfInertia() / (length * length)

	r := SegmentResult{
		AppliedForce:          force,
		EquivalentStress:      stress,
		CriticalBucklingForce: pcr,
		StressSafetyFactor:    math.MaxFloat64,
		BucklingSafetyFactor:  math.MaxFloat64,
	}
	if force != 0 {
		r.StressSafetyFactor = math.Abs(m.YieldStrength / stress)
		r.BucklingSafetyFactor = math.Abs(pcr / force)
	}
	return r
}

func (r SegmentResult) Round(decimals int) SegmentResult {
	return SegmentResult{
		AppliedForce:          linalg.Round(r.AppliedForce, decimals),
		EquivalentStress:      linalg.Round(r.EquivalentStress, decimals),
		StressSafetyFactor:    linalg.Round(r.StressSafetyFactor, decimals),
		CriticalBucklingForce: linalg.Round(r.CriticalBucklingForce, decimals),
		BucklingSafetyFactor:  linalg.Round(r.BucklingSafetyFactor, decimals),
	}
}

func (r WishboneResult) Round(decimals int) WishboneResult {
	return WishboneResult{FrontSegment: r.FrontSegment.Round(decimals), RearSegment: r.RearSegment.Round(decimals)}
}

func (r StaticResult) Round(decimals int) StaticResult {
	shock := r.ShockAbsorber
	shock.Magnitude = linalg.Round(shock.Magnitude, decimals)
	rounded := r.Reactions.Round(decimals)
	shock.Vector = rounded.Reactions[reaction.ShockAbsorber].Vector

	return StaticResult{
		ShockAbsorber: shock,
		LowerWishbone: r.LowerWishbone.Round(decimals),
		UpperWishbone: r.UpperWishbone.Round(decimals),
		TieRod:        r.TieRod.Round(decimals),
		Reactions:     rounded,
		Balanced:      r.Balanced,
	}
}
