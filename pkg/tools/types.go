package tools

import "context"

// Tool represents a named operation the agent may invoke.
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description returns an LLM-readable description of what this tool does
	Description() string

	// JSONSchema returns the JSON Schema for the tool's parameters
	JSONSchema() map[string]any

	// Execute runs the tool with the given parameters
	Execute(ctx context.Context, params map[string]any) (ToolResult, error)
}

// ToolResult represents the result of a tool execution. Tools report their
// own failures through Success/Error instead of returning a Go error across
// the invocation boundary; a non-nil error from Execute means the tool could
// not run at all.
type ToolResult struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}
