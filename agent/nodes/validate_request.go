package dispatchnode

import (
	"errors"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

var ErrInvalidMessage = errors.New("message is empty")

type GraphInput struct {
	Text string
}

type GraphOutput struct {
	Reply string
	Plan  contractx.Plan
}

type GraphState struct {
	Text string

	Plan        contractx.Plan
	Observation *contractx.ToolResult

	Reply string
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}
	return &GraphState{Text: text}, nil
}
