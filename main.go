package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	dispatcherx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/agents/dispatcher"
	extractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/extract"
	intentx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/intent"
	llmx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/llm"
	promptx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/prompt"
	renderx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/render"
	sourcex "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/source"
	toolx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/tool"
	configx "github.com/tanpawarit/Chative-Support-Mini-Agent/pkg/config"
	logx "github.com/tanpawarit/Chative-Support-Mini-Agent/pkg/logger"
)

const (
	ordersBackendFile     = "file"
	ordersBackendPostgres = "postgres"
)

type AppConfig struct {
	DataDir       string `envconfig:"DATA_DIR" default:"."`
	OrdersPath    string `envconfig:"ORDERS_PATH" default:"data/orders.json"`
	PolicyPath    string `envconfig:"POLICY_PATH" default:"kb/return_policy.md"`
	OrdersBackend string `envconfig:"ORDERS_BACKEND" default:"file"`
	PolicyWatch   bool   `envconfig:"POLICY_WATCH" default:"false"`
	ReplyLanguage string `envconfig:"REPLY_LANGUAGE" default:"English"`
	HomeCurrency  string `envconfig:"HOME_CURRENCY" default:"TRY"`
}

func (c AppConfig) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

type responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("support agent stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("LLM")

	orders, closeOrders, err := newOrderSource(*appCfg)
	if err != nil {
		return err
	}
	defer closeOrders()

	policy, closePolicy, err := newPolicySource(*appCfg)
	if err != nil {
		return err
	}
	defer closePolicy()

	services, err := llmx.NewServices(ctx, *llmCfg)
	if err != nil {
		return fmt.Errorf("init text generation: %w", err)
	}

	prompts := promptx.LoadPromptSet()
	dispatcher, err := dispatcherx.New(
		intentx.New(services.Classifier, prompts.Classifier),
		extractx.New(appCfg.HomeCurrency),
		toolx.NewRegistry(orders, policy, toolx.WithDefaultCurrency(appCfg.HomeCurrency)),
		renderx.New(services, prompts,
			renderx.WithLanguage(appCfg.ReplyLanguage),
			renderx.WithCapabilities(toolx.Summary()),
		),
	)
	if err != nil {
		return fmt.Errorf("init dispatcher: %w", err)
	}

	return serve(ctx, dispatcher, os.Stdin, os.Stdout)
}

func newOrderSource(cfg AppConfig) (sourcex.OrderSource, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.OrdersBackend)) {
	case "", ordersBackendFile:
		path := cfg.resolve(cfg.OrdersPath)
		log.Info().Str("path", path).Msg("orders from file")
		return sourcex.NewOrderFile(path), func() {}, nil
	case ordersBackendPostgres:
		dbCfg := configx.MustNew[sourcex.OrderTableConfig]("ORDERS_DB")
		table, err := sourcex.NewOrderTable(*dbCfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("orders from postgres")
		return table, func() {
			if err := table.Close(); err != nil {
				log.Warn().Err(err).Msg("close orders database")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported orders backend %q", cfg.OrdersBackend)
	}
}

func newPolicySource(cfg AppConfig) (sourcex.PolicySource, func(), error) {
	file := sourcex.NewPolicyFile(cfg.resolve(cfg.PolicyPath))
	if !cfg.PolicyWatch {
		return file, func() {}, nil
	}

	watched, err := sourcex.NewWatchedPolicy(file)
	if err != nil {
		return nil, nil, fmt.Errorf("watch policy: %w", err)
	}
	log.Info().Str("path", file.Path()).Msg("watching return policy")
	return watched, func() {
		if err := watched.Close(); err != nil {
			log.Warn().Err(err).Msg("close policy watcher")
		}
	}, nil
}

// serve reads one message per line until EOF or cancellation. Blank lines
// are skipped.
func serve(ctx context.Context, agent responder, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprintln(out, "Support Mini-Agent (Ctrl+C to quit)")
	for {
		fmt.Fprint(out, "\nYou: ")

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out, "\nGoodbye!")
			select {
			case err := <-scanErr:
				return err
			default:
				return nil
			}
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		reply, err := agent.Respond(ctx, line)
		if errors.Is(err, dispatcherx.ErrInvalidMessage) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Msg("respond failed")
			fmt.Fprintln(out, "Agent: Sorry, something went wrong.")
			continue
		}
		fmt.Fprintf(out, "Agent: %s\n", reply)
	}
}
