package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Support-Mini-Agent/pkg/openrouter"
)

// Service is the optional text generation capability. Call sites must
// check Generator before use; the zero value is Unavailable.
type Service struct {
	gen contractx.TextGenerator
}

func Available(gen contractx.TextGenerator) Service {
	if gen == nil {
		return Unavailable()
	}
	return Service{gen: gen}
}

func Unavailable() Service {
	return Service{}
}

func (s Service) Generator() (contractx.TextGenerator, bool) {
	return s.gen, s.gen != nil
}

func (s Service) IsAvailable() bool {
	return s.gen != nil
}

// Services holds one capability per pipeline role.
type Services struct {
	Classifier Service
	Renderer   Service
	Chitchat   Service
}

func UnavailableServices() Services {
	return Services{
		Classifier: Unavailable(),
		Renderer:   Unavailable(),
		Chitchat:   Unavailable(),
	}
}

// NewServices builds the role generators once at startup. A disabled config
// yields UnavailableServices and no error.
func NewServices(ctx context.Context, cfg Config) (Services, error) {
	if !cfg.Enabled() {
		log.Info().Msg("llm api key not set, text generation unavailable")
		return UnavailableServices(), nil
	}
	if err := cfg.Validate(); err != nil {
		return Services{}, err
	}

	var out Services
	for _, role := range []Role{RoleClassifier, RoleRenderer, RoleChitchat} {
		gen, err := newGenerator(ctx, cfg, role)
		if err != nil {
			return Services{}, err
		}
		switch role {
		case RoleClassifier:
			out.Classifier = Available(gen)
		case RoleRenderer:
			out.Renderer = Available(gen)
		case RoleChitchat:
			out.Chitchat = Available(gen)
		}
	}

	log.Info().
		Str("backend", cfg.backend()).
		Str("model", cfg.Model).
		Msg("text generation available")
	return out, nil
}

func newGenerator(ctx context.Context, cfg Config, role Role) (contractx.TextGenerator, error) {
	orCfg := cfg.OpenRouterFor(role)

	switch cfg.backend() {
	case BackendOpenAI:
		client := openrouterx.NewClient(orCfg)
		if client == nil {
			return nil, fmt.Errorf("%w: create %s client: empty api key", contractx.ErrModelInvoke, role)
		}
		return NewCompletionsGenerator(client, orCfg.Model, orCfg.Temperature, *orCfg.MaxCompletionToken), nil
	default:
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, role, err)
		}
		return NewChatModelGenerator(ctx, chatModel, "llm."+string(role))
	}
}
