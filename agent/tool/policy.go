package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func (r *Registry) retrieveReturnPolicy(ctx context.Context, _ map[string]any) (map[string]any, error) {
	if r.policy == nil {
		return nil, fmt.Errorf("%w: return policy is not configured", contractx.ErrResourceMissing)
	}
	doc, err := r.policy.LoadPolicy(ctx)
	if err != nil {
		return nil, err
	}
	answer, err := SummarizePolicy(doc)
	if err != nil {
		return nil, err
	}
	return map[string]any{"answer": answer}, nil
}

// SummarizePolicy flattens a markdown document into one line of plain text:
// heading markers, list bullets, emphasis, escapes and line breaks are
// dropped and whitespace is collapsed.
func SummarizePolicy(markdown string) (string, error) {
	source := []byte(markdown)
	document := goldmark.DefaultParser().Parse(text.NewReader(source))

	var b strings.Builder
	err := ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch v := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(v.Segment.Value(source))
				if v.SoftLineBreak() || v.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				b.Write(v.Value)
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			if !entering {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("summarize policy: %w", err)
	}

	plain := strings.ReplaceAll(b.String(), `\`, "")
	return strings.Join(strings.Fields(plain), " "), nil
}
