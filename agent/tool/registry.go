package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	sourcex "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/source"
)

// Handler is a tool body. A returned error becomes the ToolResult error text.
type Handler func(ctx context.Context, args map[string]any) (map[string]any, error)

type Option func(*Registry)

func WithDefaultCurrency(currency string) Option {
	return func(r *Registry) {
		if v := strings.ToUpper(strings.TrimSpace(currency)); v != "" {
			r.defaultCurrency = v
		}
	}
}

// Registry is the tool provider. Invoke never panics and never returns a
// Go error; every failure is folded into the ToolResult.
type Registry struct {
	orders          sourcex.OrderSource
	policy          sourcex.PolicySource
	defaultCurrency string
	tools           map[contractx.ToolName]Handler
}

var _ contractx.ToolProvider = (*Registry)(nil)

func NewRegistry(orders sourcex.OrderSource, policy sourcex.PolicySource, opts ...Option) *Registry {
	r := &Registry{
		orders:          orders,
		policy:          policy,
		defaultCurrency: "TRY",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	r.tools = map[contractx.ToolName]Handler{
		contractx.ToolCheckOrderStatus:     r.checkOrderStatus,
		contractx.ToolRetrieveReturnPolicy: r.retrieveReturnPolicy,
		contractx.ToolCalcPrice:            r.calcPrice,
	}
	return r
}

func (r *Registry) Invoke(ctx context.Context, name contractx.ToolName, args map[string]any) (result contractx.ToolResult) {
	handler, ok := r.tools[name]
	if !ok {
		return contractx.Fail(name, fmt.Sprintf("%s: %s", contractx.ErrUnknownTool, name))
	}
	if args == nil {
		args = map[string]any{}
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("tool", string(name)).Interface("panic", p).Msg("tool panicked")
			result = contractx.Fail(name, fmt.Sprintf("tool %s failed: %v", name, p))
		}
	}()

	payload, err := handler(ctx, args)
	if err != nil {
		log.Debug().Str("tool", string(name)).Err(err).Msg("tool returned error")
		return contractx.Fail(name, err.Error())
	}
	return contractx.Succeed(name, payload)
}
