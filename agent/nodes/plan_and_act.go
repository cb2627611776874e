package dispatchnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

type Planner interface {
	Plan(ctx context.Context, message string) contractx.Plan
}

// Actor returns nil iff the plan has no tool.
type Actor interface {
	Act(ctx context.Context, plan contractx.Plan) *contractx.ToolResult
}

func PlanMessage(ctx context.Context, in *GraphState, planner Planner) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Plan = planner.Plan(ctx, in.Text)
	log.Debug().
		Str("intent", string(in.Plan.Intent)).
		Str("tool", string(in.Plan.Tool)).
		Interface("args", in.Plan.Args).
		Msg("message planned")
	return in, nil
}

func Act(ctx context.Context, in *GraphState, actor Actor) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Observation = actor.Act(ctx, in.Plan)
	if in.Observation != nil && !in.Observation.OK() {
		log.Debug().Str("tool", string(in.Observation.Tool)).Str("error", in.Observation.Error).Msg("tool failed")
	}
	return in, nil
}
