package render

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	llmx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/llm"
	promptx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/prompt"
)

type fakeGenerator struct {
	reply string
	err   error
	calls int
	last  contractx.Prompt
}

func (f *fakeGenerator) Generate(ctx context.Context, p contractx.Prompt) (string, error) {
	f.calls++
	f.last = p
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func servicesWith(renderer, chitchat contractx.TextGenerator) llmx.Services {
	s := llmx.UnavailableServices()
	if renderer != nil {
		s.Renderer = llmx.Available(renderer)
	}
	if chitchat != nil {
		s.Chitchat = llmx.Available(chitchat)
	}
	return s
}

func TestRenderUnavailable(t *testing.T) {
	t.Parallel()

	r := New(llmx.UnavailableServices(), promptx.LoadPromptSet())
	if reply, ok := r.Render(context.Background(), contractx.IntentPricing, "3 pcs 10", map[string]any{"total": 33.0}); ok || reply != "" {
		t.Fatalf("Render() = (%q, %v), want fallback signal", reply, ok)
	}
}

func TestRenderBuildsRequest(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "  Your order has shipped and arrives tomorrow.\n"}
	r := New(servicesWith(gen, nil), promptx.LoadPromptSet(), WithLanguage("Turkish"))

	payload := map[string]any{"status": "shipped", "eta": "2026-10-15"}
	reply, ok := r.Render(context.Background(), contractx.IntentOrderStatus, "where is 1234567", payload)
	if !ok {
		t.Fatal("Render() reported fallback")
	}
	if reply != "Your order has shipped and arrives tomorrow." {
		t.Fatalf("Render() = %q", reply)
	}
	if !strings.Contains(gen.last.System, "Turkish") {
		t.Fatalf("system prompt missing language: %q", gen.last.System)
	}

	var req renderRequest
	if err := json.Unmarshal([]byte(gen.last.User), &req); err != nil {
		t.Fatalf("user content is not JSON: %v", err)
	}
	if req.UserMessage != "where is 1234567" || req.Intent != "order_status" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.ToolPayload["status"] != "shipped" || req.Instruction == "" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestRenderFailureSignalsFallback(t *testing.T) {
	t.Parallel()

	for _, gen := range []*fakeGenerator{
		{err: errors.New("timeout")},
		{reply: "   "},
	} {
		r := New(servicesWith(gen, nil), promptx.LoadPromptSet())
		if reply, ok := r.Render(context.Background(), contractx.IntentReturnPolicy, "refund?", map[string]any{"answer": "x"}); ok || reply != "" {
			t.Fatalf("Render() = (%q, %v), want fallback signal", reply, ok)
		}
	}
}

func TestFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		intent  contractx.Intent
		payload map[string]any
		want    string
	}{
		{
			name:    "order",
			intent:  contractx.IntentOrderStatus,
			payload: map[string]any{"status": "shipped", "eta": "2026-10-16"},
			want:    "Order status: shipped. Estimated delivery: 2026-10-16.",
		},
		{
			name:    "order without eta",
			intent:  contractx.IntentOrderStatus,
			payload: map[string]any{"status": "preparing"},
			want:    "Order status: preparing. Estimated delivery: unknown.",
		},
		{
			name:    "policy",
			intent:  contractx.IntentReturnPolicy,
			payload: map[string]any{"answer": "Return within 14 days."},
			want:    "Return within 14 days.",
		},
		{
			name:    "policy missing",
			intent:  contractx.IntentReturnPolicy,
			payload: map[string]any{},
			want:    "Return policy not found.",
		},
		{
			name:   "pricing",
			intent: contractx.IntentPricing,
			payload: map[string]any{
				"total":     428.67,
				"currency":  "TRY",
				"breakdown": "(quantity: 3 × 129.90 = 389.70 + tax 10% → 38.97)",
			},
			want: "Total: 428.67 TRY. (quantity: 3 × 129.90 = 389.70 + tax 10% → 38.97)",
		},
		{
			name:    "chitchat",
			intent:  contractx.IntentChitchat,
			payload: nil,
			want:    NoReplyMessage,
		},
	}

	for _, tt := range tests {
		if got := Fallback(tt.intent, tt.payload); got != tt.want {
			t.Errorf("%s: Fallback() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestChitchat(t *testing.T) {
	t.Parallel()

	r := New(llmx.UnavailableServices(), promptx.LoadPromptSet())
	if got := r.Chitchat(context.Background(), "hi"); got != CapabilityMessage {
		t.Fatalf("Chitchat() = %q, want capability message", got)
	}

	gen := &fakeGenerator{reply: "Hello! I can check orders for you."}
	r = New(servicesWith(nil, gen), promptx.LoadPromptSet(), WithCapabilities("- calc_price: totals"))
	if got := r.Chitchat(context.Background(), "hi"); got != "Hello! I can check orders for you." {
		t.Fatalf("Chitchat() = %q", got)
	}
	if gen.last.User != "hi" || !strings.HasSuffix(gen.last.System, "- calc_price: totals") {
		t.Fatalf("unexpected prompt: %+v", gen.last)
	}

	gen.err = errors.New("rate limited")
	if got := r.Chitchat(context.Background(), "hi"); got != CapabilityMessage {
		t.Fatalf("Chitchat() on error = %q", got)
	}
}

func TestToolError(t *testing.T) {
	t.Parallel()

	if got := ToolError("no record found for 999999"); got != "Tool error: no record found for 999999" {
		t.Fatalf("ToolError() = %q", got)
	}
}
