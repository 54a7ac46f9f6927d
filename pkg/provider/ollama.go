package provider

import (
	"context"
	"fmt"

	"github.com/killallgit/loom/pkg/logger"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaChat is the chat-mode backend: one request in, a stream of text
// deltas out, via the langchaingo Ollama binding.
type OllamaChat struct {
	llm   llms.Model
	model string
}

// NewOllamaChat creates a chat backend against the given Ollama server.
func NewOllamaChat(baseURL, model string) (*OllamaChat, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama LLM: %w", err)
	}

	return &OllamaChat{llm: llm, model: model}, nil
}

func (o *OllamaChat) Name() string  { return "ollama" }
func (o *OllamaChat) Model() string { return o.model }

// StreamChat generates a completion for msgs, emitting each text delta as it
// arrives. The returned channel is closed once the stream settles.
func (o *OllamaChat) StreamChat(ctx context.Context, msgs []llms.MessageContent) (<-chan Delta, error) {
	log := logger.WithComponent("ollama")
	deltas := make(chan Delta, 64)

	go func() {
		defer close(deltas)

		_, err := o.llm.GenerateContent(ctx, msgs,
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				select {
				case deltas <- Delta{Content: string(chunk)}:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		)
		if err != nil {
			log.Error("ollama stream failed", "model", o.model, "error", err)
			deltas <- Delta{Err: err}
			return
		}

		deltas <- Delta{Done: true}
	}()

	return deltas, nil
}
