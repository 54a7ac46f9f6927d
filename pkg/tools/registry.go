package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/killallgit/loom/pkg/logger"
	"github.com/tmc/langchaingo/llms"
)

// Registry manages available tools and their execution
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = tool
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List returns all registered tool names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTools returns true if the registry has any tools registered
func (r *Registry) HasTools() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools) > 0
}

// Definitions returns the registered tools as langchaingo tool definitions,
// in name order.
func (r *Registry) Definitions() []llms.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]llms.Tool, 0, len(names))
	for _, name := range names {
		tool := r.tools[name]
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.JSONSchema(),
			},
		})
	}
	return defs
}

// Execute runs the named tool against a JSON-encoded argument string and
// returns the textual payload for the tool history entry. Failures come back
// as the payload, never as a Go error: the agent loop is expected to see them
// and decide how to react.
func (r *Registry) Execute(ctx context.Context, name, arguments string) string {
	log := logger.WithComponent("tools")

	tool, exists := r.Get(name)
	if !exists {
		return fmt.Sprintf("tool error: unknown tool %q", name)
	}

	params := map[string]any{}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &params); err != nil {
			return fmt.Sprintf("tool error: invalid arguments for %s: %v", name, err)
		}
	}

	log.Debug("executing tool", "tool", name, "params", params)

	result, err := tool.Execute(ctx, params)
	if err != nil {
		log.Error("tool execution failed", "tool", name, "error", err)
		return fmt.Sprintf("tool error: %v", err)
	}
	if !result.Success {
		return fmt.Sprintf("tool error: %s", result.Error)
	}
	return result.Content
}
