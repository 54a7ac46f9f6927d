package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Backend is a resolved model capability a turn can be dispatched to. Every
// backend implements exactly one of ChatStreamer or AgentStreamer; the
// orchestrator selects chat-mode or agent-mode from the concrete type.
type Backend interface {
	// Name returns the backend identifier, e.g. "ollama"
	Name() string

	// Model returns the configured model name
	Model() string
}

// Delta is one increment of a chat-mode stream. A Delta with a non-nil Err
// terminates the stream; Done marks natural completion.
type Delta struct {
	Content string
	Done    bool
	Err     error
}

// ChatStreamer is the single-shot streaming text capability.
type ChatStreamer interface {
	Backend

	// StreamChat submits the normalized request and returns a channel of
	// deltas. The channel is closed when the stream ends for any reason;
	// cancellation is observed through ctx.
	StreamChat(ctx context.Context, msgs []llms.MessageContent) (<-chan Delta, error)
}

// StepKind discriminates the structured events an agent-mode stream produces.
type StepKind int

const (
	// StepAgent carries newly produced AI history entries
	StepAgent StepKind = iota
	// StepTool carries newly produced tool-result history entries
	StepTool
)

func (k StepKind) String() string {
	switch k {
	case StepAgent:
		return "agent"
	case StepTool:
		return "tool"
	default:
		return "unknown"
	}
}

// StepEvent is one structured event of an agent-mode stream. The event shape
// is decided once, at normalization time: Entries always match Kind (AI
// entries for StepAgent, tool entries for StepTool). A non-nil Err terminates
// the stream.
type StepEvent struct {
	Kind    StepKind
	Entries []llms.MessageContent
	Err     error
}

// AgentStreamer is the multi-step structured-event streaming capability.
type AgentStreamer interface {
	Backend

	// StreamSteps submits the normalized request and returns a channel of
	// step events. The channel is closed when the run ends for any reason;
	// cancellation is observed through ctx.
	StreamSteps(ctx context.Context, msgs []llms.MessageContent) (<-chan StepEvent, error)
}

// FormatStreamError renders a backend stream failure for display.
func FormatStreamError(b Backend, err error) string {
	if b == nil {
		return fmt.Sprintf("stream failed: %v", err)
	}
	return fmt.Sprintf("%s (%s) stream failed: %v", b.Name(), b.Model(), err)
}
