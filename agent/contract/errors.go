package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrResourceMissing = errors.New("resource not found")
	ErrUnknownTool     = errors.New("unknown tool")
)
