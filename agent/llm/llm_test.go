package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Support-Mini-Agent/pkg/openrouter"
)

type fakeChatModel struct {
	reply *schema.Message
	err   error
	input []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestServiceVariants(t *testing.T) {
	t.Parallel()

	if _, ok := Unavailable().Generator(); ok {
		t.Fatal("Unavailable() must not expose a generator")
	}
	if Available(nil).IsAvailable() {
		t.Fatal("Available(nil) must degrade to Unavailable")
	}
	var zero Service
	if zero.IsAvailable() {
		t.Fatal("zero Service must be Unavailable")
	}

	gen := &ChatModelGenerator{}
	got, ok := Available(gen).Generator()
	if !ok || got != gen {
		t.Fatalf("Available(gen).Generator() = %v, %v", got, ok)
	}
}

func TestNewServicesDisabled(t *testing.T) {
	t.Parallel()

	svcs, err := NewServices(context.Background(), Config{})
	if err != nil {
		t.Fatalf("NewServices() error = %v", err)
	}
	if svcs.Classifier.IsAvailable() || svcs.Renderer.IsAvailable() || svcs.Chitchat.IsAvailable() {
		t.Fatalf("expected all services unavailable, got %#v", svcs)
	}
}

func TestNewServicesRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := NewServices(context.Background(), Config{APIKey: "key", Model: "m", Backend: "carrier-pigeon"})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNewServicesOpenAIBackend(t *testing.T) {
	t.Parallel()

	svcs, err := NewServices(context.Background(), Config{
		APIKey:  "key",
		Model:   "m",
		Backend: BackendOpenAI,
		BaseURL: "http://localhost:1/v1",
	})
	if err != nil {
		t.Fatalf("NewServices() error = %v", err)
	}
	for name, svc := range map[string]Service{
		"classifier": svcs.Classifier,
		"renderer":   svcs.Renderer,
		"chitchat":   svcs.Chitchat,
	} {
		gen, ok := svc.Generator()
		if !ok {
			t.Fatalf("%s: expected available service", name)
		}
		if _, ok := gen.(*CompletionsGenerator); !ok {
			t.Fatalf("%s: unexpected generator type %T", name, gen)
		}
	}
}

func TestConfigOpenRouterForRoleOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:                " key ",
		Model:                 "base-model",
		Temperature:           0.7,
		MaxCompletionToken:    256,
		ClassifierModel:       "small-model",
		ClassifierTemperature: 0,
		RendererTemperature:   -1,
		ChitchatModel:         "  ",
		ChitchatTemperature:   0.9,
	}

	classifier := cfg.OpenRouterFor(RoleClassifier)
	if classifier.Model != "small-model" || classifier.Temperature != 0 {
		t.Fatalf("unexpected classifier config: %+v", classifier)
	}
	if classifier.APIKey != "key" {
		t.Fatalf("api key must be trimmed, got %q", classifier.APIKey)
	}
	if classifier.MaxCompletionToken == nil || *classifier.MaxCompletionToken != 256 {
		t.Fatalf("unexpected max tokens: %v", classifier.MaxCompletionToken)
	}

	renderer := cfg.OpenRouterFor(RoleRenderer)
	if renderer.Model != "base-model" || renderer.Temperature != 0.7 {
		t.Fatalf("unexpected renderer config: %+v", renderer)
	}

	chitchat := cfg.OpenRouterFor(RoleChitchat)
	if chitchat.Model != "base-model" || chitchat.Temperature != 0.9 {
		t.Fatalf("unexpected chitchat config: %+v", chitchat)
	}
}

func TestChatModelGeneratorGenerate(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "  pricing \n"}}
	gen, err := NewChatModelGenerator(context.Background(), fake, "test.text_graph")
	if err != nil {
		t.Fatalf("NewChatModelGenerator() error = %v", err)
	}

	out, err := gen.Generate(context.Background(), contractx.Prompt{
		System: `answer with {one} label`,
		User:   `{"message":"how much"}`,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "pricing" {
		t.Fatalf("Generate() = %q, want %q", out, "pricing")
	}
	if len(fake.input) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(fake.input))
	}
	if fake.input[0].Content != `answer with {one} label` {
		t.Fatalf("unexpected system message: %q", fake.input[0].Content)
	}
	if fake.input[1].Content != `{"message":"how much"}` {
		t.Fatalf("unexpected user message: %q", fake.input[1].Content)
	}
}

func TestChatModelGeneratorModelError(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{err: errors.New("upstream down")}
	gen, err := NewChatModelGenerator(context.Background(), fake, "")
	if err != nil {
		t.Fatalf("NewChatModelGenerator() error = %v", err)
	}

	_, err = gen.Generate(context.Background(), contractx.Prompt{System: "s", User: "u"})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestNewChatModelGeneratorNilModel(t *testing.T) {
	t.Parallel()

	if _, err := NewChatModelGenerator(context.Background(), nil, ""); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCompletionsGeneratorGenerate(t *testing.T) {
	t.Parallel()

	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-1","object":"chat.completion","created":1,"model":"test-model","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":" Your order is on the way. "}}]}`)
	}))
	t.Cleanup(server.Close)

	client := openrouterx.NewClient(openrouterx.Config{APIKey: "key", BaseURL: server.URL})
	gen := NewCompletionsGenerator(client, "test-model", 0.2, 64)

	out, err := gen.Generate(context.Background(), contractx.Prompt{System: "be brief", User: "where is my order"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "Your order is on the way." {
		t.Fatalf("Generate() = %q", out)
	}
	if !strings.Contains(gotBody, `"test-model"`) || !strings.Contains(gotBody, "where is my order") {
		t.Fatalf("unexpected request body: %s", gotBody)
	}
}

func TestCompletionsGeneratorHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad model","type":"invalid_request_error"}}`)
	}))
	t.Cleanup(server.Close)

	client := openrouterx.NewClient(openrouterx.Config{APIKey: "key", BaseURL: server.URL})
	gen := NewCompletionsGenerator(client, "test-model", -1, 0)

	_, err := gen.Generate(context.Background(), contractx.Prompt{User: "hi"})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestCompletionsGeneratorNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-2","object":"chat.completion","created":1,"model":"test-model","choices":[]}`)
	}))
	t.Cleanup(server.Close)

	client := openrouterx.NewClient(openrouterx.Config{APIKey: "key", BaseURL: server.URL})
	gen := NewCompletionsGenerator(client, "test-model", -1, 0)

	if _, err := gen.Generate(context.Background(), contractx.Prompt{User: "hi"}); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}
