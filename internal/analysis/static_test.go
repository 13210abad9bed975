package analysis

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/fatigue"
	"github.com/san-kum/structdyn/internal/profile"
	"github.com/san-kum/structdyn/internal/reaction"
)

// axisGeometry puts the lower front wishbone segment on the x axis and the
// lower rear one on the y axis, both one metre long.
func axisGeometry() reaction.Geometry {
	return reaction.Geometry{
		LowerWishbone: reaction.Wishbone{
			FrontPivot:     reaction.Vector3{X: -1},
			RearPivot:      reaction.Vector3{Y: -1},
			OuterBallJoint: reaction.Vector3{},
		},
		UpperWishbone: reaction.Wishbone{
			FrontPivot:     reaction.Vector3{Z: -1},
			RearPivot:      reaction.Vector3{Y: 1, Z: 1},
			OuterBallJoint: reaction.Vector3{Z: 1},
		},
		ShockAbsorber: reaction.Link{Inactive: reaction.Vector3{Z: 1}, Active: reaction.Vector3{X: 1, Z: 1}},
		TieRod:        reaction.Link{Inactive: reaction.Vector3{X: 1}, Active: reaction.Vector3{X: 1, Y: 1}},
	}
}

func rod() profile.Spec {
	return profile.Spec{Circular: &profile.Circular{Diameter: 0.02}}
}

func axisSuspension() Suspension {
	return Suspension{
		Material:      "steel4130",
		Geometry:      axisGeometry(),
		LowerWishbone: rod(),
		UpperWishbone: rod(),
		TieRod:        rod(),
	}
}

type recordingCalculator struct {
	inputs []fatigue.Input
}

func (c *recordingCalculator) Calculate(in fatigue.Input) (fatigue.Result, error) {
	c.inputs = append(c.inputs, in)
	return fatigue.Result{EquivalentStress: in.MaximumStress, NumberOfCycles: 1e6, SafetyFactor: 2}, nil
}

var _ = Describe("Static analysis", func() {
	var (
		area    float64
		inertia float64
	)

	BeforeEach(func() {
		area = math.Pi / 4 * 0.02 * 0.02
		inertia = math.Pi / 64 * math.Pow(0.02, 4)
	})

	It("loads only the member aligned with the force", func() {
		res, err := RunStatic(context.Background(), StaticRequest{
			Suspension:   axisSuspension(),
			AppliedForce: reaction.Vector3{X: 100},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Balanced).To(BeTrue())

		front := res.LowerWishbone.FrontSegment
		Expect(front.AppliedForce).To(BeNumerically("~", -100, 1e-9))
		Expect(front.EquivalentStress).To(BeNumerically("~", -100/area, 1e-3))
		Expect(front.StressSafetyFactor).To(BeNumerically("~", 552e6*area/100, 1e-6))

		pcr := math.Pi * math.Pi * 200e9 * inertia
		Expect(front.CriticalBucklingForce).To(BeNumerically("~", pcr, 1e-6))
		Expect(front.BucklingSafetyFactor).To(BeNumerically("~", pcr/100, 1e-6))

		Expect(res.LowerWishbone.RearSegment.AppliedForce).To(BeNumerically("~", 0, 1e-9))
		Expect(res.ShockAbsorber.Magnitude).To(BeNumerically("~", 0, 1e-9))
		Expect(res.ShockAbsorber.Member).To(Equal(reaction.MemberName(reaction.ShockAbsorber)))
	})

	It("reports unbounded safety factors for unloaded members", func() {
		res, err := RunStatic(context.Background(), StaticRequest{
			Suspension:   axisSuspension(),
			AppliedForce: reaction.Vector3{X: 100},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.TieRod.StressSafetyFactor).To(Equal(math.MaxFloat64))
		Expect(res.TieRod.BucklingSafetyFactor).To(Equal(math.MaxFloat64))
	})

	It("rounds when decimals are given", func() {
		decimals := 2
		res, err := RunStatic(context.Background(), StaticRequest{
			Suspension:   axisSuspension(),
			AppliedForce: reaction.Vector3{X: 100.123456},
			Decimals:     &decimals,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.LowerWishbone.FrontSegment.AppliedForce).To(Equal(-100.12))
		Expect(res.TieRod.StressSafetyFactor).To(Equal(math.MaxFloat64))
	})

	DescribeTable("rejects bad suspensions",
		func(mutate func(*Suspension)) {
			s := axisSuspension()
			mutate(&s)
			_, err := RunStatic(context.Background(), StaticRequest{Suspension: s, AppliedForce: reaction.Vector3{X: 1}})
			Expect(errors.Is(err, dynamo.ErrInvalidRequest)).To(BeTrue(), "got %v", err)
		},
		Entry("unknown material", func(s *Suspension) { s.Material = "unobtainium" }),
		Entry("missing profile", func(s *Suspension) { s.TieRod = profile.Spec{} }),
		Entry("hollow profile too thick", func(s *Suspension) {
			s.LowerWishbone = profile.Spec{Circular: &profile.Circular{Diameter: 0.02, Thickness: 0.01}}
		}),
	)
})

var _ = Describe("Fatigue analysis", func() {
	It("cycles between zero and the maximum force when no minimum is given", func() {
		calc := &recordingCalculator{}
		res, err := RunFatigue(context.Background(), FatigueRequest{
			Suspension:                axisSuspension(),
			MaximumForce:              reaction.Vector3{X: 100},
			StressConcentrationFactor: 2,
		}, calc)
		Expect(err).NotTo(HaveOccurred())
		Expect(calc.inputs).To(HaveLen(5))

		area := math.Pi / 4 * 0.02 * 0.02
		front := calc.inputs[0]
		Expect(front.MaximumStress).To(BeNumerically("~", -200/area, 1e-3))
		Expect(front.MinimumStress).To(BeZero())
		Expect(front.EquivalentDiameter).To(Equal(0.02))
		Expect(front.LoadingType).To(Equal(fatigue.Axial))
		Expect(front.SurfaceFinish).To(Equal(fatigue.Machined))

		Expect(res.LowerWishbone.FrontSegment.AppliedForce).To(BeNumerically("~", -100, 1e-9))
		Expect(res.LowerWishbone.FrontSegment.Fatigue.SafetyFactor).To(Equal(2.0))
		Expect(res.ShockAbsorber.ForceAmplitude).To(BeNumerically("~", 0, 1e-9))
	})

	It("uses the Marin calculator by default", func() {
		req := FatigueRequest{
			Suspension:   axisSuspension(),
			MaximumForce: reaction.Vector3{X: 100},
			MinimumForce: reaction.Vector3{X: -100},
			Reliability:  "90%",
		}
		res, err := RunFatigue(context.Background(), req, nil)
		Expect(err).NotTo(HaveOccurred())

		area := math.Pi / 4 * 0.02 * 0.02
		want, err := fatigue.Marin{}.Calculate(fatigue.Input{
			MaximumStress:      -100 / area,
			MinimumStress:      100 / area,
			TensileStrength:    860e6,
			EquivalentDiameter: 0.02,
			Reliability:        fatigue.Reliability90,
			SurfaceFinish:      fatigue.Machined,
			LoadingType:        fatigue.Axial,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.LowerWishbone.FrontSegment.Fatigue.SafetyFactor).To(BeNumerically("~", want.SafetyFactor, 1e-9))
		Expect(res.LowerWishbone.FrontSegment.EquivalentStress).To(BeNumerically("~", 100/area, 1e-3))
	})

	It("rejects an unknown surface finish", func() {
		_, err := RunFatigue(context.Background(), FatigueRequest{
			Suspension:    axisSuspension(),
			MaximumForce:  reaction.Vector3{X: 100},
			SurfaceFinish: "polished-by-hand",
		}, nil)
		Expect(errors.Is(err, dynamo.ErrInvalidRequest)).To(BeTrue())
	})
})
