package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

// ChatModelGenerator runs a prompt -> model -> text graph over an eino chat model.
type ChatModelGenerator struct {
	runner compose.Runnable[map[string]any, string]
}

var _ contractx.TextGenerator = (*ChatModelGenerator)(nil)

func NewChatModelGenerator(ctx context.Context, chatModel einomodel.BaseChatModel, graphName string) (*ChatModelGenerator, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is nil", contractx.ErrValidation)
	}
	runner, err := compileTextGraph(ctx, chatModel, graphName)
	if err != nil {
		return nil, fmt.Errorf("%w: compile text graph: %v", contractx.ErrModelInvoke, err)
	}
	return &ChatModelGenerator{runner: runner}, nil
}

func (g *ChatModelGenerator) Generate(ctx context.Context, p contractx.Prompt) (string, error) {
	out, err := g.runner.Invoke(ctx, map[string]any{
		"system": p.System,
		"input":  p.User,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return out, nil
}

func compileTextGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	graphName string,
) (compose.Runnable[map[string]any, string], error) {
	// Prompt text travels as variable values, so braces inside it are not
	// interpreted as placeholders.
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, string]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add text prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add text model node: %w", err)
	}
	if err := graph.AddLambdaNode("extract_text",
		compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (string, error) {
			if msg == nil {
				return "", fmt.Errorf("%w: empty model response", contractx.ErrModelInvoke)
			}
			return strings.TrimSpace(msg.Content), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add text extract node: %w", err)
	}

	edges := [][2]string{
		{compose.START, "prompt"},
		{"prompt", "model"},
		{"model", "extract_text"},
		{"extract_text", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add text edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	if strings.TrimSpace(graphName) == "" {
		graphName = "llm.text_graph"
	}
	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile text graph: %w", err)
	}
	return runner, nil
}
