package analysis

import (
	"context"

	"github.com/san-kum/structdyn/internal/reaction"
)

// KnuckleRequest solves the corner for AppliedForce and carries the member
// reactions to the steering knuckle.
type KnuckleRequest struct {
	StaticRequest `yaml:",inline"`
	Load          reaction.KnuckleLoad `json:"load" yaml:"load"`
}

type KnuckleResult struct {
	Knuckle   reaction.KnuckleResult `json:"knuckle"`
	Reactions reaction.Result        `json:"reactions"`
	Balanced  bool                   `json:"balanced"`
}

func RunKnuckle(ctx context.Context, req KnuckleRequest) (KnuckleResult, error) {
	if err := req.Load.Validate(); err != nil {
		return KnuckleResult{}, err
	}
	reactions, err := reaction.Solve(req.AppliedForce, req.Geometry)
	if err != nil {
		return KnuckleResult{}, err
	}
	k, err := reaction.Knuckle(reactions, req.Load)
	if err != nil {
		return KnuckleResult{}, err
	}
	res := KnuckleResult{
		Knuckle:   k,
		Reactions: reactions,
		Balanced:  reaction.Balanced(reaction.Residual(reactions, req.AppliedForce, req.Geometry)),
	}
	if req.Decimals != nil {
		res.Knuckle = res.Knuckle.Round(*req.Decimals)
		res.Reactions = res.Reactions.Round(*req.Decimals)
	}
	return res, ctx.Err()
}
