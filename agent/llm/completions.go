package llm

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

// CompletionsGenerator calls the chat completions endpoint directly through
// the openai-go SDK.
type CompletionsGenerator struct {
	client      *openaisdk.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ contractx.TextGenerator = (*CompletionsGenerator)(nil)

// NewCompletionsGenerator treats a negative temperature or non-positive
// maxTokens as "use the provider default".
func NewCompletionsGenerator(client *openaisdk.Client, model string, temperature float32, maxTokens int) *CompletionsGenerator {
	return &CompletionsGenerator{
		client:      client,
		model:       strings.TrimSpace(model),
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (g *CompletionsGenerator) Generate(ctx context.Context, p contractx.Prompt) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: client is nil", contractx.ErrModelInvoke)
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if system := strings.TrimSpace(p.System); system != "" {
		messages = append(messages, openaisdk.SystemMessage(system))
	}
	messages = append(messages, openaisdk.UserMessage(p.User))

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(g.model),
		Messages: messages,
	}
	if g.temperature >= 0 {
		params.Temperature = openaisdk.Float(float64(g.temperature))
	}
	if g.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(g.maxTokens))
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", contractx.ErrModelInvoke)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
