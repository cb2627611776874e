package dispatcher

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/nodes"
	renderx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/render"
)

func (d *Dispatcher) compileRespondGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("plan",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PlanMessage(ctx, in, d)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan: %w", err)
	}

	if err := graph.AddLambdaNode("act",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Act(ctx, in, d)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node act: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeChitchat,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReplyChitchat(ctx, in, d.replier)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeChitchat, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeToolError,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReplyToolError(in, renderx.ToolError)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeToolError, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeRender,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReplyRender(ctx, in, d.replier, renderx.Fallback)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeRender, err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.RouteObservation(in)
		},
		map[string]bool{
			nodex.NodeChitchat:  true,
			nodex.NodeToolError: true,
			nodex.NodeRender:    true,
		},
	)
	if err := graph.AddBranch("act", branch); err != nil {
		return nil, fmt.Errorf("add branch act: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "plan"},
		{"plan", "act"},
		{nodex.NodeChitchat, "finalize_reply"},
		{nodex.NodeToolError, "finalize_reply"},
		{nodex.NodeRender, "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("dispatcher.respond"))
	if err != nil {
		return nil, fmt.Errorf("compile dispatcher graph: %w", err)
	}
	return runner, nil
}
