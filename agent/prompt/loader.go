package prompt

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/renderer.txt
	rendererRaw string

	//go:embed template/chitchat.txt
	chitchatRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Classifier string
	Renderer   string
	Chitchat   string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Classifier: strings.TrimSpace(classifierRaw),
		Renderer:   strings.TrimSpace(rendererRaw),
		Chitchat:   strings.TrimSpace(chitchatRaw),
	}
}

// WithLanguage fills the reply language into a renderer or chitchat prompt.
func WithLanguage(prompt string, language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		language = "English"
	}
	return fmt.Sprintf(prompt, language)
}
