package transcript

import "time"

// ItemKind discriminates the chronological units of one agent-mode turn.
type ItemKind int

const (
	ItemToolCall ItemKind = iota
	ItemToolResult
	ItemThinking
)

func (k ItemKind) String() string {
	switch k {
	case ItemToolCall:
		return "tool_call"
	case ItemToolResult:
		return "tool_result"
	case ItemThinking:
		return "thinking"
	default:
		return "unknown"
	}
}

// Item is a single timestamped unit of agent activity awaiting rendering.
// Items live only for the duration of one turn.
type Item struct {
	Kind ItemKind

	// Tool is the tool name for tool_call and tool_result items
	Tool string

	// Args holds the raw argument string of a tool_call
	Args string

	// Content holds tool_result payloads and thinking text
	Content string

	// At is the wall-clock observation time; Seq breaks ties between items
	// stamped within the same instant
	At  time.Time
	Seq int
}
