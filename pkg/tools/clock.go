package tools

import (
	"context"
	"fmt"
	"time"
)

// ClockTool reports the current time, optionally in a named IANA time zone.
type ClockTool struct {
	now func() time.Time
}

func NewClockTool() *ClockTool {
	return &ClockTool{now: time.Now}
}

func (t *ClockTool) Name() string {
	return "clock"
}

func (t *ClockTool) Description() string {
	return "Returns the current date and time. Accepts an optional IANA time zone name."
}

func (t *ClockTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timezone": map[string]any{
				"type":        "string",
				"description": "IANA time zone name, e.g. Europe/Berlin. Defaults to UTC.",
			},
		},
	}
}

func (t *ClockTool) Execute(_ context.Context, params map[string]any) (ToolResult, error) {
	loc := time.UTC
	if tz, ok := params["timezone"].(string); ok && tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return ToolResult{
				Success: false,
				Error:   fmt.Sprintf("unknown time zone %q", tz),
			}, nil
		}
		loc = parsed
	}

	return ToolResult{
		Success: true,
		Content: t.now().In(loc).Format(time.RFC1123),
	}, nil
}
