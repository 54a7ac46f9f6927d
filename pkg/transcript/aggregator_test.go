package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/killallgit/loom/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func fixedClock() func() time.Time {
	instant := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return instant }
}

func toolCallEntry(name, args string) llms.MessageContent {
	return chat.NewAIEntry("", []llms.ToolCall{{
		ID:           "call-" + name,
		Type:         "function",
		FunctionCall: &llms.FunctionCall{Name: name, Arguments: args},
	}})
}

func TestRenderOrdersCallBeforeResultBeforeAnswer(t *testing.T) {
	// Every item is stamped with an identical timestamp on purpose: arrival
	// sequence must break the tie.
	agg := NewAggregatorWithClock(fixedClock())

	agg.Observe(toolCallEntry("websearch", `{"query":"weather"}`))
	agg.Observe(chat.NewToolEntry("call-websearch", "websearch", "sunny"))
	agg.Observe(chat.NewAIEntry("done", nil))

	body := agg.Render(false)

	callIdx := strings.Index(body, "⏺ call: websearch")
	resultIdx := strings.Index(body, "⎿ websearch")
	doneIdx := strings.Index(body, "done")
	require.GreaterOrEqual(t, callIdx, 0)
	require.Greater(t, resultIdx, callIdx)
	require.Greater(t, doneIdx, resultIdx)
}

func TestRenderIsIdempotent(t *testing.T) {
	agg := NewAggregator()
	agg.Observe(toolCallEntry("clock", `{"timezone":"UTC"}`))
	agg.Observe(chat.NewAIEntry("narration", nil))
	agg.Observe(chat.NewToolEntry("c", "clock", "12:00"))

	first := agg.Render(true)
	second := agg.Render(true)
	third := agg.Render(true)

	assert.Equal(t, first, second)
	assert.Equal(t, second, third)
}

func TestTextBeforeToolActivityIsFinalAnswer(t *testing.T) {
	agg := NewAggregator()
	agg.Observe(chat.NewAIEntry("Hello", nil))
	agg.Observe(chat.NewAIEntry(" world", nil))

	assert.Equal(t, "Hello world", agg.FinalAnswer())
	assert.Equal(t, "Hello world", agg.Render(false))
	assert.Empty(t, agg.Items())
}

func TestTextAfterToolActivityIsThinking(t *testing.T) {
	agg := NewAggregator()
	agg.Observe(toolCallEntry("clock", "{}"))
	agg.Observe(chat.NewAIEntry("let me check", nil))

	items := agg.Items()
	require.Len(t, items, 2)
	assert.Equal(t, ItemThinking, items[1].Kind)
	assert.Empty(t, agg.FinalAnswer())
}

func TestThinkingAutoExpandsOnlyWhileMostRecent(t *testing.T) {
	agg := NewAggregator()
	agg.Observe(toolCallEntry("clock", "{}"))
	agg.Observe(chat.NewAIEntry("inspecting the result", nil))

	expanded := agg.Render(true)
	assert.Contains(t, expanded, "✳ thinking\n  inspecting the result")

	agg.Observe(chat.NewToolEntry("c", "clock", "12:00"))

	collapsed := agg.Render(true)
	assert.Contains(t, collapsed, "✳ thinking")
	assert.NotContains(t, collapsed, "inspecting the result")
}

func TestSoleThinkingItemRendersBare(t *testing.T) {
	// A lone narration item with no tool activity cannot happen through
	// Observe (pre-activity text is final answer), so build the state the
	// render rule is defined over directly.
	agg := NewAggregator()
	agg.push(Item{Kind: ItemThinking, Content: "just narration"})

	assert.Equal(t, "just narration", agg.Render(false))
}

func TestWorkingPlaceholder(t *testing.T) {
	agg := NewAggregator()

	assert.Equal(t, WorkingPlaceholder, agg.Render(true))
	assert.Empty(t, agg.Render(false))
}

func TestResultTitleDerivation(t *testing.T) {
	cases := []struct {
		name     string
		item     Item
		expected string
	}{
		{"command field wins", Item{Kind: ItemToolResult, Tool: "bash", Content: `{"command":"ls -la","output":""}`}, "ls -la"},
		{"name field second", Item{Kind: ItemToolResult, Tool: "bash", Content: `{"name":"listing"}`}, "listing"},
		{"tool name fallback", Item{Kind: ItemToolResult, Tool: "bash", Content: "plain text"}, "bash"},
		{"generic label last", Item{Kind: ItemToolResult, Content: "plain text"}, "result"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, resultTitle(tc.item))
		})
	}
}

func TestToolCallArgsArePrettyPrinted(t *testing.T) {
	agg := NewAggregator()
	agg.Observe(toolCallEntry("websearch", `{"query":"weather"}`))

	body := agg.Render(false)
	assert.Contains(t, body, "⏺ call: websearch")
	assert.Contains(t, body, `  "query": "weather"`)
}

func TestUnparseableArgsShownRaw(t *testing.T) {
	assert.Equal(t, "not json", prettyArgs("not json"))
	assert.Empty(t, prettyArgs("{}"))
	assert.Empty(t, prettyArgs(""))
}
