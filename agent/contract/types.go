package contract

import "strings"

type Intent string

const (
	IntentOrderStatus  Intent = "order_status"
	IntentReturnPolicy Intent = "return_policy"
	IntentPricing      Intent = "pricing"
	IntentChitchat     Intent = "chitchat"
)

// Intents lists the closed label set in keyword-matching priority order.
var Intents = []Intent{
	IntentOrderStatus,
	IntentReturnPolicy,
	IntentPricing,
	IntentChitchat,
}

// ParseIntent reports whether raw names a member of the closed label set.
func ParseIntent(raw string) (Intent, bool) {
	candidate := Intent(strings.ToLower(strings.TrimSpace(raw)))
	for _, in := range Intents {
		if in == candidate {
			return in, true
		}
	}
	return "", false
}

type ToolName string

const (
	ToolCheckOrderStatus     ToolName = "check_order_status"
	ToolRetrieveReturnPolicy ToolName = "retrieve_return_policy"
	ToolCalcPrice            ToolName = "calc_price"
)

// ToolFor maps an intent to its backend tool; chitchat has none.
func ToolFor(intent Intent) (ToolName, bool) {
	switch intent {
	case IntentOrderStatus:
		return ToolCheckOrderStatus, true
	case IntentReturnPolicy:
		return ToolRetrieveReturnPolicy, true
	case IntentPricing:
		return ToolCalcPrice, true
	default:
		return "", false
	}
}

// Plan is the resolved intent, tool and arguments for a single message.
// Tool is empty iff Intent is chitchat.
type Plan struct {
	Intent Intent         `json:"intent"`
	Tool   ToolName       `json:"tool,omitempty"`
	Args   map[string]any `json:"args"`
}

func (p Plan) HasTool() bool {
	return p.Tool != ""
}

// ToolResult carries either a payload or an error, never both.
// Build it with Succeed or Fail.
type ToolResult struct {
	Tool    ToolName       `json:"tool"`
	Payload map[string]any `json:"payload,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func Succeed(tool ToolName, payload map[string]any) ToolResult {
	if payload == nil {
		payload = map[string]any{}
	}
	return ToolResult{Tool: tool, Payload: payload}
}

func Fail(tool ToolName, message string) ToolResult {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "tool failed"
	}
	return ToolResult{Tool: tool, Error: message}
}

func (r ToolResult) OK() bool {
	return r.Error == "" && r.Payload != nil
}

type Order struct {
	OrderID string  `json:"order_id"`
	Status  string  `json:"status"`
	ETA     *string `json:"eta,omitempty"`
}

// Prompt is a single-turn request to a TextGenerator.
type Prompt struct {
	System string `json:"system,omitempty"`
	User   string `json:"user"`
}
