package chat

import (
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// History is the backend-facing conversation log: an append-only sequence of
// normalized llms.MessageContent entries. The only destructive operation is
// Clear, which truncates the whole buffer atomically.
type History struct {
	mu      sync.RWMutex
	entries []llms.MessageContent
}

func NewHistory() *History {
	return &History{
		entries: make([]llms.MessageContent, 0),
	}
}

// Append adds an entry to the end of the log.
func (h *History) Append(entry llms.MessageContent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry)
}

// Entries returns a copy of the log in append order.
func (h *History) Entries() []llms.MessageContent {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]llms.MessageContent, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Clear removes every entry. No partial state is visible to concurrent readers.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = make([]llms.MessageContent, 0)
}

// NewSystemEntry builds a system-role history entry.
func NewSystemEntry(text string) llms.MessageContent {
	return llms.TextParts(llms.ChatMessageTypeSystem, text)
}

// NewHumanEntry builds a human-role history entry.
func NewHumanEntry(text string) llms.MessageContent {
	return llms.TextParts(llms.ChatMessageTypeHuman, text)
}

// NewAIEntry builds an assistant-role history entry carrying optional text and
// tool-call requests.
func NewAIEntry(text string, toolCalls []llms.ToolCall) llms.MessageContent {
	entry := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if text != "" {
		entry.Parts = append(entry.Parts, llms.TextPart(text))
	}
	for _, tc := range toolCalls {
		entry.Parts = append(entry.Parts, tc)
	}
	return entry
}

// NewToolEntry builds a tool-role history entry carrying one tool result.
func NewToolEntry(callID, name, content string) llms.MessageContent {
	return llms.MessageContent{
		Role: llms.ChatMessageTypeTool,
		Parts: []llms.ContentPart{
			llms.ToolCallResponse{ToolCallID: callID, Name: name, Content: content},
		},
	}
}

// EntryText concatenates the text parts of an entry.
func EntryText(entry llms.MessageContent) string {
	var text string
	for _, part := range entry.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			text += tc.Text
		}
	}
	return text
}

// EntryToolCalls returns the tool-call parts of an entry.
func EntryToolCalls(entry llms.MessageContent) []llms.ToolCall {
	var calls []llms.ToolCall
	for _, part := range entry.Parts {
		if tc, ok := part.(llms.ToolCall); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// EntryToolResponses returns the tool-result parts of an entry.
func EntryToolResponses(entry llms.MessageContent) []llms.ToolCallResponse {
	var responses []llms.ToolCallResponse
	for _, part := range entry.Parts {
		if tr, ok := part.(llms.ToolCallResponse); ok {
			responses = append(responses, tr)
		}
	}
	return responses
}

// Coalesce merges runs of consecutive same-role entries into one entry each,
// concatenating text parts with a blank line and keeping every non-text part
// in arrival order. Backends that require strict role alternation depend on
// this before transmission.
func Coalesce(entries []llms.MessageContent) []llms.MessageContent {
	if len(entries) == 0 {
		return nil
	}

	out := make([]llms.MessageContent, 0, len(entries))
	for _, entry := range entries {
		if len(out) == 0 || out[len(out)-1].Role != entry.Role {
			merged := llms.MessageContent{Role: entry.Role}
			merged.Parts = append(merged.Parts, entry.Parts...)
			out = append(out, merged)
			continue
		}

		last := &out[len(out)-1]
		for _, part := range entry.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				if idx := lastTextIndex(last.Parts); idx >= 0 {
					prev := last.Parts[idx].(llms.TextContent)
					last.Parts[idx] = llms.TextContent{Text: prev.Text + "\n\n" + tc.Text}
					continue
				}
			}
			last.Parts = append(last.Parts, part)
		}
	}
	return out
}

func lastTextIndex(parts []llms.ContentPart) int {
	for i := len(parts) - 1; i >= 0; i-- {
		if _, ok := parts[i].(llms.TextContent); ok {
			return i
		}
	}
	return -1
}
