package contract

import "context"

// TextGenerator is a hosted language model that turns a prompt into text.
type TextGenerator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

type ToolProvider interface {
	Invoke(ctx context.Context, name ToolName, args map[string]any) ToolResult
}

type IntentClassifier interface {
	Classify(ctx context.Context, message string) Intent
}
