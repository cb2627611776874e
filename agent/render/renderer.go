package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	llmx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/llm"
	promptx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/prompt"
)

const (
	CapabilityMessage = "I can only help with order status, the return policy and price calculations. Ask me about one of those."
	NoReplyMessage    = "Sorry, I could not produce a reply."
)

// instructions adds intent-specific emphasis to the renderer request.
var instructions = map[contractx.Intent]string{
	contractx.IntentOrderStatus:  "Combine the order status and the estimated delivery date into one sentence.",
	contractx.IntentReturnPolicy: "Summarise the return policy in a single short paragraph.",
	contractx.IntentPricing:      "State the total amount and the currency clearly.",
}

type Option func(*Renderer)

// WithLanguage sets the reply language used by both model prompts.
func WithLanguage(language string) Option {
	return func(r *Renderer) {
		if v := strings.TrimSpace(language); v != "" {
			r.language = v
		}
	}
}

// WithCapabilities appends a tool summary to the chitchat prompt.
func WithCapabilities(summary string) Option {
	return func(r *Renderer) {
		r.capabilities = strings.TrimSpace(summary)
	}
}

type Renderer struct {
	renderer llmx.Service
	chitchat llmx.Service
	prompts  promptx.PromptSet

	language     string
	capabilities string
}

func New(services llmx.Services, prompts promptx.PromptSet, opts ...Option) *Renderer {
	r := &Renderer{
		renderer: services.Renderer,
		chitchat: services.Chitchat,
		prompts:  prompts,
		language: "English",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

type renderRequest struct {
	UserMessage string         `json:"user_message"`
	Intent      string         `json:"intent"`
	ToolPayload map[string]any `json:"tool_payload"`
	Instruction string         `json:"instruction,omitempty"`
}

// Render polishes a tool payload with the model. ok is false when the
// caller should use Fallback instead.
func (r *Renderer) Render(ctx context.Context, intent contractx.Intent, message string, payload map[string]any) (string, bool) {
	gen, ok := r.renderer.Generator()
	if !ok || strings.TrimSpace(r.prompts.Renderer) == "" {
		return "", false
	}

	body, err := json.Marshal(renderRequest{
		UserMessage: message,
		Intent:      string(intent),
		ToolPayload: payload,
		Instruction: instructions[intent],
	})
	if err != nil {
		log.Warn().Err(err).Msg("encode render request")
		return "", false
	}

	reply, err := gen.Generate(ctx, contractx.Prompt{
		System: promptx.WithLanguage(r.prompts.Renderer, r.language),
		User:   string(body),
	})
	if err != nil {
		log.Warn().Err(err).Str("intent", string(intent)).Msg("render model failed, using template")
		return "", false
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		log.Debug().Str("intent", string(intent)).Msg("render model returned empty text, using template")
		return "", false
	}
	return reply, true
}

// Fallback is the deterministic template reply for a successful payload.
func Fallback(intent contractx.Intent, payload map[string]any) string {
	switch intent {
	case contractx.IntentOrderStatus:
		return fmt.Sprintf("Order status: %s. Estimated delivery: %s.",
			textOr(payload, "status", "unknown"),
			textOr(payload, "eta", "unknown"),
		)
	case contractx.IntentReturnPolicy:
		return textOr(payload, "answer", "Return policy not found.")
	case contractx.IntentPricing:
		reply := fmt.Sprintf("Total: %s %s.",
			textOr(payload, "total", "?"),
			textOr(payload, "currency", "TRY"),
		)
		if breakdown := textOr(payload, "breakdown", ""); breakdown != "" {
			reply += " " + breakdown
		}
		return reply
	default:
		return NoReplyMessage
	}
}

// Chitchat answers messages that need no tool. Without a usable model it
// returns CapabilityMessage.
func (r *Renderer) Chitchat(ctx context.Context, message string) string {
	gen, ok := r.chitchat.Generator()
	if !ok || strings.TrimSpace(r.prompts.Chitchat) == "" {
		return CapabilityMessage
	}

	system := promptx.WithLanguage(r.prompts.Chitchat, r.language)
	if r.capabilities != "" {
		system += "\n" + r.capabilities
	}

	reply, err := gen.Generate(ctx, contractx.Prompt{System: system, User: message})
	if err != nil {
		log.Warn().Err(err).Msg("chitchat model failed")
		return CapabilityMessage
	}
	if reply = strings.TrimSpace(reply); reply == "" {
		return CapabilityMessage
	}
	return reply
}

// ToolError exposes a tool failure to the user verbatim.
func ToolError(message string) string {
	return "Tool error: " + message
}

func textOr(payload map[string]any, key string, def string) string {
	switch v := payload[key].(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	case float64:
		return fmt.Sprintf("%.2f", v)
	case float32:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprint(v)
	}
}
