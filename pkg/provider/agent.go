package provider

import (
	"context"
	"fmt"

	"github.com/killallgit/loom/pkg/chat"
	"github.com/killallgit/loom/pkg/logger"
	"github.com/killallgit/loom/pkg/tools"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// ToolLoopAgent is the agent-mode backend: it drives a model/tool loop and
// publishes every produced AI and tool entry as a structured step event.
type ToolLoopAgent struct {
	llm           llms.Model
	model         string
	registry      *tools.Registry
	maxIterations int
}

// NewToolLoopAgent wraps an existing model. Useful for tests and non-Ollama
// models.
func NewToolLoopAgent(llm llms.Model, model string, registry *tools.Registry, maxIterations int) *ToolLoopAgent {
	if maxIterations <= 0 {
		maxIterations = 8
	}
	return &ToolLoopAgent{
		llm:           llm,
		model:         model,
		registry:      registry,
		maxIterations: maxIterations,
	}
}

// NewOllamaAgent creates an agent backend against the given Ollama server.
func NewOllamaAgent(baseURL, model string, registry *tools.Registry, maxIterations int) (*ToolLoopAgent, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama LLM: %w", err)
	}
	return NewToolLoopAgent(llm, model, registry, maxIterations), nil
}

func (a *ToolLoopAgent) Name() string  { return "ollama-agent" }
func (a *ToolLoopAgent) Model() string { return a.model }

// StreamSteps runs the agent loop until the model stops requesting tools, the
// iteration cap is reached, or ctx is cancelled. The returned channel is
// closed once the run settles.
func (a *ToolLoopAgent) StreamSteps(ctx context.Context, msgs []llms.MessageContent) (<-chan StepEvent, error) {
	log := logger.WithComponent("agent")
	events := make(chan StepEvent, 16)

	go func() {
		defer close(events)

		working := make([]llms.MessageContent, len(msgs))
		copy(working, msgs)

		var opts []llms.CallOption
		if a.registry != nil && a.registry.HasTools() {
			opts = append(opts, llms.WithTools(a.registry.Definitions()))
		}

		for i := 0; i < a.maxIterations; i++ {
			resp, err := a.llm.GenerateContent(ctx, working, opts...)
			if err != nil {
				a.emit(ctx, events, StepEvent{Err: err})
				return
			}
			if len(resp.Choices) == 0 {
				a.emit(ctx, events, StepEvent{Err: fmt.Errorf("no response choices available")})
				return
			}

			choice := resp.Choices[0]
			aiEntry := chat.NewAIEntry(choice.Content, choice.ToolCalls)
			if !a.emit(ctx, events, StepEvent{Kind: StepAgent, Entries: []llms.MessageContent{aiEntry}}) {
				return
			}
			working = append(working, aiEntry)

			if len(choice.ToolCalls) == 0 {
				return
			}

			for _, call := range choice.ToolCalls {
				if call.FunctionCall == nil {
					continue
				}
				name := call.FunctionCall.Name
				log.Debug("agent tool call", "tool", name, "iteration", i)

				content := a.registry.Execute(ctx, name, call.FunctionCall.Arguments)
				toolEntry := chat.NewToolEntry(call.ID, name, content)
				if !a.emit(ctx, events, StepEvent{Kind: StepTool, Entries: []llms.MessageContent{toolEntry}}) {
					return
				}
				working = append(working, toolEntry)
			}
		}

		a.emit(ctx, events, StepEvent{Err: fmt.Errorf("agent loop exceeded %d iterations", a.maxIterations)})
	}()

	return events, nil
}

func (a *ToolLoopAgent) emit(ctx context.Context, events chan<- StepEvent, ev StepEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
