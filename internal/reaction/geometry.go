package reaction

// Wishbone is an A-arm with two chassis pivots and an outer ball joint.
type Wishbone struct {
	FrontPivot     Vector3 `json:"front_pivot" yaml:"front_pivot"`
	RearPivot      Vector3 `json:"rear_pivot" yaml:"rear_pivot"`
	OuterBallJoint Vector3 `json:"outer_ball_joint" yaml:"outer_ball_joint"`
}

// Link is a two-force member such as the shock absorber or the tie rod.
// Inactive is the chassis side, Active the wheel side.
type Link struct {
	Inactive Vector3 `json:"inactive_point" yaml:"inactive_point"`
	Active   Vector3 `json:"active_point" yaml:"active_point"`
}

func (l Link) Length() float64 { return l.Active.Sub(l.Inactive).Norm() }

// Geometry holds the six attachment points of a double-wishbone corner.
type Geometry struct {
	Origin        Vector3  `json:"origin" yaml:"origin"`
	LowerWishbone Wishbone `json:"lower_wishbone" yaml:"lower_wishbone"`
	UpperWishbone Wishbone `json:"upper_wishbone" yaml:"upper_wishbone"`
	ShockAbsorber Link     `json:"shock_absorber" yaml:"shock_absorber"`
	TieRod        Link     `json:"tie_rod" yaml:"tie_rod"`
}

// Member names, in solve order.
const (
	LowerWishboneFront = iota
	LowerWishboneRear
	UpperWishboneFront
	UpperWishboneRear
	ShockAbsorber
	TieRod
	Members
)

var memberNames = [Members]string{
	"lower_wishbone_front", "lower_wishbone_rear",
	"upper_wishbone_front", "upper_wishbone_rear",
	"shock_absorber", "tie_rod",
}

func MemberName(i int) string { return memberNames[i] }

// anchors returns, for each member, the chassis-side point and the unit
// direction of the force it carries.
func (g Geometry) anchors() (points, directions [Members]Vector3) {
	arms := []struct {
		from Vector3
		to   Vector3
	}{
		{g.LowerWishbone.FrontPivot, g.LowerWishbone.OuterBallJoint},
		{g.LowerWishbone.RearPivot, g.LowerWishbone.OuterBallJoint},
		{g.UpperWishbone.FrontPivot, g.UpperWishbone.OuterBallJoint},
		{g.UpperWishbone.RearPivot, g.UpperWishbone.OuterBallJoint},
		{g.ShockAbsorber.Inactive, g.ShockAbsorber.Active},
		{g.TieRod.Inactive, g.TieRod.Active},
	}
	for i, a := range arms {
		points[i] = a.from
		directions[i] = a.to.Sub(a.from).Unit()
	}
	return points, directions
}

// Lengths returns the length of each member, in solve order.
func (g Geometry) Lengths() [Members]float64 {
	return [Members]float64{
		g.LowerWishbone.OuterBallJoint.Sub(g.LowerWishbone.FrontPivot).Norm(),
		g.LowerWishbone.OuterBallJoint.Sub(g.LowerWishbone.RearPivot).Norm(),
		g.UpperWishbone.OuterBallJoint.Sub(g.UpperWishbone.FrontPivot).Norm(),
		g.UpperWishbone.OuterBallJoint.Sub(g.UpperWishbone.RearPivot).Norm(),
		g.ShockAbsorber.Length(),
		g.TieRod.Length(),
	}
}
