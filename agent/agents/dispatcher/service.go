package dispatcher

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
	nodex "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/nodes"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

type ArgumentExtractor interface {
	Extract(intent contractx.Intent, message string) map[string]any
}

// Dispatcher runs one message through plan, act and respond. It keeps no
// state between messages.
type Dispatcher struct {
	classifier contractx.IntentClassifier
	extractor  ArgumentExtractor
	tools      contractx.ToolProvider
	replier    nodex.Replier

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

var (
	_ nodex.Planner = (*Dispatcher)(nil)
	_ nodex.Actor   = (*Dispatcher)(nil)
)

func New(
	classifier contractx.IntentClassifier,
	extractor ArgumentExtractor,
	tools contractx.ToolProvider,
	replier nodex.Replier,
) (*Dispatcher, error) {
	if classifier == nil {
		return nil, errors.New("intent classifier is required")
	}
	if extractor == nil {
		return nil, errors.New("argument extractor is required")
	}
	if tools == nil {
		return nil, errors.New("tool provider is required")
	}
	if replier == nil {
		return nil, errors.New("replier is required")
	}

	d := &Dispatcher{
		classifier: classifier,
		extractor:  extractor,
		tools:      tools,
		replier:    replier,
	}

	graphRunner, err := d.compileRespondGraph(context.Background())
	if err != nil {
		return nil, err
	}
	d.graphRunner = graphRunner

	return d, nil
}

func (d *Dispatcher) Plan(ctx context.Context, message string) contractx.Plan {
	in := d.classifier.Classify(ctx, message)
	tool, _ := contractx.ToolFor(in)
	return contractx.Plan{
		Intent: in,
		Tool:   tool,
		Args:   d.extractor.Extract(in, message),
	}
}

func (d *Dispatcher) Act(ctx context.Context, plan contractx.Plan) *contractx.ToolResult {
	if !plan.HasTool() {
		return nil
	}
	res := d.tools.Invoke(ctx, plan.Tool, plan.Args)
	return &res
}

// Respond returns ErrInvalidMessage for blank input; every other message
// gets a reply.
func (d *Dispatcher) Respond(ctx context.Context, message string) (string, error) {
	out, err := d.graphRunner.Invoke(ctx, nodex.GraphInput{Text: message})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
