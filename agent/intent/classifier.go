package intent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	llmx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/llm"
)

// keywordRules are checked in order; the first set with a substring hit wins.
var keywordRules = []struct {
	intent   contractx.Intent
	keywords []string
}{
	{
		intent:   contractx.IntentOrderStatus,
		keywords: []string{"sipariş", "kargo", "teslimat", "order", "tracking", "track", "shipping", "shipment", "delivery"},
	},
	{
		intent:   contractx.IntentReturnPolicy,
		keywords: []string{"iade", "geri ödeme", "refund", "return", "exchange", "değişim"},
	},
	{
		intent:   contractx.IntentPricing,
		keywords: []string{"fiyat", "hesapla", "toplam", "price", "calculate", "total", "cost"},
	},
}

type Classifier struct {
	service llmx.Service
	prompt  string
}

var _ contractx.IntentClassifier = (*Classifier)(nil)

// New returns a classifier that asks the model first when service is
// available and falls back to keyword rules otherwise.
func New(service llmx.Service, prompt string) *Classifier {
	return &Classifier{
		service: service,
		prompt:  strings.TrimSpace(prompt),
	}
}

// Classify never fails; the result is always a member of the closed set.
func (c *Classifier) Classify(ctx context.Context, message string) contractx.Intent {
	if in, ok := c.classifyWithModel(ctx, message); ok {
		return in
	}
	return MatchKeywords(message)
}

func (c *Classifier) classifyWithModel(ctx context.Context, message string) (contractx.Intent, bool) {
	gen, ok := c.service.Generator()
	if !ok || c.prompt == "" {
		return "", false
	}

	raw, err := gen.Generate(ctx, contractx.Prompt{
		System: c.prompt,
		User:   message,
	})
	if err != nil {
		log.Debug().Err(err).Msg("intent model failed, using keyword rules")
		return "", false
	}

	in, ok := contractx.ParseIntent(raw)
	if !ok {
		log.Debug().Str("label", raw).Msg("intent model returned unknown label, using keyword rules")
		return "", false
	}
	return in, true
}

// MatchKeywords is the deterministic rule path: order status, return policy
// and pricing keywords in that priority, else chitchat.
func MatchKeywords(message string) contractx.Intent {
	msg := strings.ToLower(message)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.intent
			}
		}
	}
	return contractx.IntentChitchat
}
