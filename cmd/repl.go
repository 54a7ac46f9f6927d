package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/killallgit/loom/pkg/config"
	"github.com/killallgit/loom/pkg/display"
	"github.com/killallgit/loom/pkg/logger"
	"github.com/killallgit/loom/pkg/orchestrator"
	"github.com/killallgit/loom/pkg/provider"
	"github.com/killallgit/loom/pkg/tools"
)

// buildRegistry resolves the configured backend into a provider registry. A
// construction failure is recorded as the registry diagnostic instead of
// aborting startup, so the REPL can come up and report it on first send.
func buildRegistry(cfg *config.Config) *provider.Registry {
	log := logger.WithComponent("cmd")
	registry := provider.NewRegistry()

	toolRegistry := tools.NewRegistry()
	if cfg.Tools.Enabled {
		if err := toolRegistry.Register(tools.NewClockTool()); err != nil {
			log.Warn("failed to register clock tool", "error", err)
		}
	}

	if cfg.Agent.Enabled {
		backend, err := provider.NewOllamaAgent(cfg.Ollama.URL, cfg.Ollama.Model, toolRegistry, cfg.Agent.MaxIterations)
		if err != nil {
			registry.SetError(fmt.Sprintf("agent backend unavailable: %v", err))
			return registry
		}
		registry.SetBackend(backend)
		return registry
	}

	backend, err := provider.NewOllamaChat(cfg.Ollama.URL, cfg.Ollama.Model)
	if err != nil {
		registry.SetError(fmt.Sprintf("ollama backend unavailable: %v", err))
		return registry
	}
	registry.SetBackend(backend)
	return registry
}

func newOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, *provider.Registry) {
	registry := buildRegistry(cfg)
	console := display.NewConsole(os.Stdout)
	orch := orchestrator.New(registry, console, orchestrator.Config{
		SystemPrompt: cfg.SystemPrompt,
		Assistant:    cfg.Assistant,
	})

	registry.Subscribe(func(b provider.Backend) {
		log := logger.WithComponent("cmd")
		if b == nil {
			log.Warn("backend cleared")
			return
		}
		log.Info("backend active", "name", b.Name(), "model", b.Model())
	})

	return orch, registry
}

// runOnce sends a single prompt and exits, the non-interactive counterpart of
// the REPL.
func runOnce(ctx context.Context, cfg *config.Config, prompt string) error {
	orch, _ := newOrchestrator(cfg)
	return orch.SendMessage(ctx, prompt)
}

func runREPL(ctx context.Context, cfg *config.Config) error {
	log := logger.WithComponent("cmd")
	orch, _ := newOrchestrator(cfg)

	// Ctrl-C stops the live turn rather than killing the process; quitting
	// is EOF (Ctrl-D) or the exit command.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			orch.StopStreaming()
		}
	}()

	fmt.Println("loom — /clear resets the conversation, exit or Ctrl-D quits")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("❯ ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}

		err := orch.SendMessage(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, orchestrator.ErrEmptyMessage):
			// Blank line, nothing to do.
		case errors.Is(err, context.Canceled):
			log.Debug("turn interrupted")
		default:
			// Already surfaced on the display; keep a structured record.
			log.Error("turn failed", "error", err)
		}
	}
	return scanner.Err()
}
