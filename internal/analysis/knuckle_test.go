package analysis

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/reaction"
)

var _ = Describe("Knuckle analysis", func() {
	var req KnuckleRequest

	BeforeEach(func() {
		req = KnuckleRequest{
			StaticRequest: StaticRequest{
				Suspension:   axisSuspension(),
				AppliedForce: reaction.Vector3{X: 100},
			},
			Load: reaction.KnuckleLoad{
				Position:           reaction.Rear,
				Bearing:            reaction.DefaultBearing,
				InertialForce:      reaction.Vector3{Z: -10},
				InertialForcePoint: reaction.Vector3{Y: 0.5},
				BrakeCaliper: reaction.BrakeCaliperSupport{
					Point2: reaction.Vector3{Y: 1},
				},
			},
		}
	})

	It("passes the lower wishbone reaction to the knuckle", func() {
		res, err := RunKnuckle(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Balanced).To(BeTrue())
		Expect(res.Knuckle.LowerWishbone.X).To(BeNumerically("~", -100, 1e-9))
		Expect(res.Knuckle.UpperWishbone.Norm()).To(BeNumerically("<", 1e-9))
		Expect(res.Knuckle.TieRod.Norm()).To(BeNumerically("<", 1e-9))
	})

	It("splits a force midway between the caliper supports evenly", func() {
		res, err := RunKnuckle(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())
		for _, r := range res.Knuckle.BrakeCaliperSupport {
			Expect(r.Z).To(BeNumerically("~", -5, 1e-12))
		}
		Expect(res.Knuckle.UnsupportedTorque).To(BeZero())
	})

	It("adds the steering wheel force on the front tie rod", func() {
		req.Load.Position = reaction.Front
		req.Load.SteeringWheelForce = reaction.Vector3{Y: 40}
		res, err := RunKnuckle(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Knuckle.TieRod.Y).To(BeNumerically("~", 40, 1e-9))
	})

	It("rejects an unknown bearing before solving", func() {
		req.Load.Bearing = "none"
		req.AppliedForce = reaction.Vector3{}
		_, err := RunKnuckle(context.Background(), req)
		Expect(errors.Is(err, dynamo.ErrInvalidRequest)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("bearing"))
	})

	It("rounds the knuckle forces", func() {
		d := 1
		req.Decimals = &d
		req.Load.BearingTorque = 1
		res, err := RunKnuckle(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Knuckle.Bearing).To(Equal(35.3))
	})
})
