package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

// PolicyFile reads the policy document from disk on every call.
type PolicyFile struct {
	path string
}

var _ PolicySource = (*PolicyFile)(nil)

func NewPolicyFile(path string) *PolicyFile {
	return &PolicyFile{path: strings.TrimSpace(path)}
}

func (p *PolicyFile) Path() string {
	return p.path
}

func (p *PolicyFile) LoadPolicy(ctx context.Context) (string, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", contractx.ErrResourceMissing, p.path)
		}
		return "", fmt.Errorf("read policy %s: %w", p.path, err)
	}
	return string(raw), nil
}
