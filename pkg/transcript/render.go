package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WorkingPlaceholder is shown while a live turn has produced nothing visible.
const WorkingPlaceholder = "Working…"

// Render produces the transcript body for the current item set: every
// non-final item in arrival order followed by the final-answer text. The
// output depends only on the accumulated state, so re-rendering with no new
// events returns an identical string.
func (a *Aggregator) Render(active bool) string {
	items := a.Items()

	var blocks []string
	for i, item := range items {
		switch item.Kind {
		case ItemToolCall:
			blocks = append(blocks, renderToolCall(item))
		case ItemToolResult:
			blocks = append(blocks, renderToolResult(item))
		case ItemThinking:
			blocks = append(blocks, renderThinking(item, len(items) == 1, i == len(items)-1))
		}
	}

	body := strings.Join(blocks, "\n")
	if final := a.final.String(); final != "" {
		if body != "" {
			body += "\n"
		}
		body += final
	}

	if body == "" && active {
		return WorkingPlaceholder
	}
	return body
}

func renderToolCall(item Item) string {
	header := fmt.Sprintf("⏺ call: %s", item.Tool)
	args := prettyArgs(item.Args)
	if args == "" {
		return header
	}
	return header + "\n" + indent(args)
}

func renderToolResult(item Item) string {
	header := fmt.Sprintf("⎿ %s", resultTitle(item))
	if item.Content == "" {
		return header
	}
	return header + "\n" + indent(item.Content)
}

// renderThinking renders interstitial narration: bare text when it is the only
// chronological item, otherwise a block whose body is shown only while the
// thinking is still the most recent activity.
func renderThinking(item Item, sole, mostRecent bool) string {
	if sole {
		return item.Content
	}
	if mostRecent {
		return "✳ thinking\n" + indent(item.Content)
	}
	return "✳ thinking"
}

// resultTitle derives a block label from the result payload itself: its own
// declared command or name field when the payload parses as a JSON object,
// falling back to the tool name, then to a generic label.
func resultTitle(item Item) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(item.Content), &payload); err == nil {
		if cmd, ok := payload["command"].(string); ok && cmd != "" {
			return cmd
		}
		if name, ok := payload["name"].(string); ok && name != "" {
			return name
		}
	}
	if item.Tool != "" {
		return item.Tool
	}
	return "result"
}

// prettyArgs re-indents a JSON argument string; unparseable input is shown raw.
func prettyArgs(args string) string {
	trimmed := strings.TrimSpace(args)
	if trimmed == "" || trimmed == "{}" {
		return ""
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return trimmed
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return trimmed
	}
	return string(pretty)
}

func indent(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
