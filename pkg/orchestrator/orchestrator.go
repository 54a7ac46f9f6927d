package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/killallgit/loom/pkg/chat"
	"github.com/killallgit/loom/pkg/commands"
	"github.com/killallgit/loom/pkg/logger"
	"github.com/killallgit/loom/pkg/provider"
	"github.com/killallgit/loom/pkg/transcript"
	"github.com/tmc/langchaingo/llms"
)

var (
	// ErrEmptyMessage is returned for blank submissions.
	ErrEmptyMessage = errors.New("message content cannot be empty")

	// ErrTurnActive is returned when SendMessage is called while a previous
	// turn has not settled. One conversation, one live turn: overlapping
	// sends are rejected rather than queued.
	ErrTurnActive = errors.New("a turn is already in progress")
)

// Display is the rendering collaborator. MessageAdded may be called many
// times with the same message identifier while a turn is open and once more
// when it settles; implementations should upsert by ID.
type Display interface {
	MessageAdded(msg chat.Message)
	MessagesDeleted(startIndex, count int)
	WritersChanged(active []string)
}

// Config carries the construction-time settings of an Orchestrator.
type Config struct {
	SystemPrompt string
	// Assistant is the display identity for assistant messages and the
	// writers indicator
	Assistant string
	// User is the display identity for user messages
	User string
}

// Orchestrator drives one conversation: it turns submitted messages into
// backend requests, folds the streamed response into a single display
// message, and keeps the append-only history consistent with what was shown.
//
// All state belongs to the orchestrator; a turn runs to completion (success,
// failure, or cancellation) before the next SendMessage is accepted.
type Orchestrator struct {
	registry    *provider.Registry
	history     *chat.History
	display     Display
	completions *commands.Registry
	cfg         Config

	mu     sync.Mutex
	active *streamHandle
	shown  int
}

// streamHandle represents one in-flight turn.
type streamHandle struct {
	cancel context.CancelFunc
}

func New(registry *provider.Registry, display Display, cfg Config) *Orchestrator {
	if cfg.Assistant == "" {
		cfg.Assistant = "assistant"
	}
	if cfg.User == "" {
		cfg.User = "you"
	}
	return &Orchestrator{
		registry:    registry,
		history:     chat.NewHistory(),
		display:     display,
		completions: commands.NewRegistry(),
		cfg:         cfg,
	}
}

// History exposes the backend-facing log for inspection.
func (o *Orchestrator) History() *chat.History {
	return o.history
}

// Completions returns the command registry queried by a command-input UI.
func (o *Orchestrator) Completions() *commands.Registry {
	return o.completions
}

// SendMessage runs one full turn for body and returns nil on success. The
// clear command short-circuits without contacting any backend. Cancellation
// surfaces as context.Canceled.
func (o *Orchestrator) SendMessage(ctx context.Context, body string) error {
	log := logger.WithComponent("orchestrator")

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ErrEmptyMessage
	}

	if commands.Clear.Match(trimmed) {
		log.Debug("clear command received")
		o.ClearHistory()
		return nil
	}

	turnCtx, handle, err := o.beginTurn(ctx)
	if err != nil {
		return err
	}
	defer o.settleTurn(handle)

	// The user's own message is always recorded and displayed before backend
	// resolution is attempted.
	o.publishNew(chat.NewUserMessage(trimmed, o.cfg.User))
	o.display.WritersChanged([]string{o.cfg.Assistant})

	backend, err := o.registry.Active()
	if err != nil {
		diagnostic := o.registry.Diagnostic()
		if diagnostic == "" {
			diagnostic = "no backend configured"
		}
		log.Warn("turn failed before dispatch", "diagnostic", diagnostic)
		o.publishNew(chat.NewErrorMessage(diagnostic))
		return fmt.Errorf("backend resolution failed: %w", err)
	}

	request := o.buildRequest(trimmed)
	// Optimistic append: the user's turn is recorded regardless of how the
	// stream ends. Assistant and tool entries only land on success or as
	// they actually arrive.
	o.history.Append(chat.NewHumanEntry(trimmed))

	msg := chat.NewAssistantMessage(o.cfg.Assistant)

	switch b := backend.(type) {
	case provider.AgentStreamer:
		err = o.streamAgent(turnCtx, b, request, msg)
	case provider.ChatStreamer:
		err = o.streamChat(turnCtx, b, request, msg)
	default:
		err = fmt.Errorf("backend %s advertises no streaming capability", backend.Name())
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Partial content stands as-is; a cancel is not an error to show.
			log.Debug("turn cancelled")
			return err
		}
		log.Error("turn failed", "backend", backend.Name(), "error", err)
		o.publishNew(chat.NewErrorMessage(provider.FormatStreamError(backend, err)))
		return err
	}
	return nil
}

// StopStreaming signals the active turn to stop. The consuming loop observes
// the cancellation and releases the turn; a backend that ignores the signal
// can delay that.
func (o *Orchestrator) StopStreaming() {
	o.mu.Lock()
	handle := o.active
	o.mu.Unlock()

	if handle != nil {
		logger.WithComponent("orchestrator").Debug("stop requested")
		handle.cancel()
	}
}

// ClearHistory truncates the backend-facing history and the displayed
// transcript. Equivalent to submitting the clear command.
func (o *Orchestrator) ClearHistory() {
	o.mu.Lock()
	count := o.shown
	o.shown = 0
	o.mu.Unlock()

	o.history.Clear()
	o.display.MessagesDeleted(0, count)
}

func (o *Orchestrator) beginTurn(ctx context.Context) (context.Context, *streamHandle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != nil {
		return nil, nil, ErrTurnActive
	}

	turnCtx, cancel := context.WithCancel(ctx)
	handle := &streamHandle{cancel: cancel}
	o.active = handle
	return turnCtx, handle, nil
}

func (o *Orchestrator) settleTurn(handle *streamHandle) {
	handle.cancel()

	o.mu.Lock()
	o.active = nil
	o.mu.Unlock()

	o.display.WritersChanged(nil)
}

// buildRequest assembles [system] + history + new human entry, coalescing
// adjacent same-role entries for backends that require strict alternation.
func (o *Orchestrator) buildRequest(body string) []llms.MessageContent {
	var request []llms.MessageContent
	if o.cfg.SystemPrompt != "" {
		request = append(request, chat.NewSystemEntry(o.cfg.SystemPrompt))
	}
	request = append(request, o.history.Entries()...)
	request = append(request, chat.NewHumanEntry(body))
	return chat.Coalesce(request)
}

// streamChat consumes a chat-mode delta stream into one growing message.
func (o *Orchestrator) streamChat(ctx context.Context, b provider.ChatStreamer, request []llms.MessageContent, msg chat.Message) error {
	deltas, err := b.StreamChat(ctx, request)
	if err != nil {
		return err
	}

	o.publishNew(msg)

	var body strings.Builder
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delta, ok := <-deltas:
			if !ok {
				return o.commitChat(msg, body.String())
			}
			if delta.Err != nil {
				return delta.Err
			}
			if delta.Done {
				return o.commitChat(msg, body.String())
			}
			body.WriteString(delta.Content)
			msg = msg.WithContent(body.String())
			o.republish(msg)
		}
	}
}

func (o *Orchestrator) commitChat(msg chat.Message, body string) error {
	o.history.Append(chat.NewAIEntry(body, nil))
	o.republish(msg.WithContent(body).Complete())
	return nil
}

// streamAgent consumes a structured step stream through the chronological
// aggregator, pushing every entry to history as it arrives and re-rendering
// the whole transcript after each one.
func (o *Orchestrator) streamAgent(ctx context.Context, b provider.AgentStreamer, request []llms.MessageContent, msg chat.Message) error {
	events, err := b.StreamSteps(ctx, request)
	if err != nil {
		return err
	}

	agg := transcript.NewAggregator()
	msg = msg.WithContent(agg.Render(true))
	o.publishNew(msg)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				// One last render so the terminal body reflects every
				// consumed event.
				o.republish(msg.WithContent(agg.Render(false)).Complete())
				return nil
			}
			if ev.Err != nil {
				return ev.Err
			}
			for _, entry := range ev.Entries {
				o.history.Append(entry)
				agg.Observe(entry)
				msg = msg.WithContent(agg.Render(true))
				o.republish(msg)
			}
		}
	}
}

// publishNew announces a message seen for the first time; it participates in
// the displayed-message count used by ClearHistory.
func (o *Orchestrator) publishNew(msg chat.Message) {
	o.mu.Lock()
	o.shown++
	o.mu.Unlock()

	o.display.MessageAdded(msg)
}

// republish re-announces an open message under its existing identifier.
func (o *Orchestrator) republish(msg chat.Message) {
	o.display.MessageAdded(msg)
}
