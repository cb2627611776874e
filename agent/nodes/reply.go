package dispatchnode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

const (
	NodeChitchat  = "reply_chitchat"
	NodeToolError = "reply_tool_error"
	NodeRender    = "reply_render"
)

type Replier interface {
	Render(ctx context.Context, intent contractx.Intent, message string, payload map[string]any) (string, bool)
	Chitchat(ctx context.Context, message string) string
}

// RouteObservation picks the reply node after the act step.
func RouteObservation(in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	switch {
	case in.Observation == nil:
		return NodeChitchat, nil
	case !in.Observation.OK():
		return NodeToolError, nil
	default:
		return NodeRender, nil
	}
}

func ReplyChitchat(ctx context.Context, in *GraphState, replier Replier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Reply = replier.Chitchat(ctx, in.Text)
	return in, nil
}

func ReplyToolError(in *GraphState, format func(string) string) (*GraphState, error) {
	if in == nil || in.Observation == nil {
		return nil, fmt.Errorf("%w: observation is missing", contractx.ErrValidation)
	}
	in.Reply = format(in.Observation.Error)
	return in, nil
}

// ReplyRender asks the replier first and uses fallback when it declines.
func ReplyRender(
	ctx context.Context,
	in *GraphState,
	replier Replier,
	fallback func(contractx.Intent, map[string]any) string,
) (*GraphState, error) {
	if in == nil || in.Observation == nil {
		return nil, fmt.Errorf("%w: observation is missing", contractx.ErrValidation)
	}

	if reply, ok := replier.Render(ctx, in.Plan.Intent, in.Text, in.Observation.Payload); ok {
		in.Reply = reply
		return in, nil
	}
	in.Reply = fallback(in.Plan.Intent, in.Observation.Payload)
	return in, nil
}

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: reply is empty", contractx.ErrValidation)
	}
	return GraphOutput{Reply: reply, Plan: in.Plan}, nil
}
