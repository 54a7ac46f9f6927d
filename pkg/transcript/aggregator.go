package transcript

import (
	"sort"
	"strings"
	"time"

	"github.com/killallgit/loom/pkg/chat"
	"github.com/tmc/langchaingo/llms"
)

// Aggregator converts the interleaved entries of one agent-mode turn into a
// single deterministically ordered transcript body. It re-renders the full
// item set after every observed entry; ordering correctness depends on
// recomputing the sort from scratch each time, so no incremental patching.
//
// Not safe for concurrent use; one turn owns one Aggregator.
type Aggregator struct {
	items []Item
	final strings.Builder
	seq   int
	now   func() time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// NewAggregatorWithClock fixes the arrival clock, for tests.
func NewAggregatorWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{now: now}
}

// Observe folds one normalized history entry into the aggregation. AI entries
// contribute tool_call items and text (classified as thinking once any tool
// activity exists, final-answer text otherwise); tool entries contribute
// tool_result items.
func (a *Aggregator) Observe(entry llms.MessageContent) {
	switch entry.Role {
	case llms.ChatMessageTypeAI:
		a.observeAI(entry)
	case llms.ChatMessageTypeTool:
		a.observeTool(entry)
	}
}

func (a *Aggregator) observeAI(entry llms.MessageContent) {
	for _, call := range chat.EntryToolCalls(entry) {
		if call.FunctionCall == nil {
			continue
		}
		a.push(Item{
			Kind: ItemToolCall,
			Tool: call.FunctionCall.Name,
			Args: call.FunctionCall.Arguments,
		})
	}

	text := chat.EntryText(entry)
	if text == "" {
		return
	}
	if len(a.items) > 0 {
		a.push(Item{Kind: ItemThinking, Content: text})
		return
	}
	a.final.WriteString(text)
}

func (a *Aggregator) observeTool(entry llms.MessageContent) {
	for _, resp := range chat.EntryToolResponses(entry) {
		a.push(Item{
			Kind:    ItemToolResult,
			Tool:    resp.Name,
			Content: resp.Content,
		})
	}
}

func (a *Aggregator) push(item Item) {
	item.At = a.now()
	item.Seq = a.seq
	a.seq++
	a.items = append(a.items, item)
}

// Items returns the chronological items in stable render order.
func (a *Aggregator) Items() []Item {
	sorted := make([]Item, len(a.items))
	copy(sorted, a.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].At.Equal(sorted[j].At) {
			return sorted[i].Seq < sorted[j].Seq
		}
		return sorted[i].At.Before(sorted[j].At)
	})
	return sorted
}

// FinalAnswer returns the accumulated final-response text.
func (a *Aggregator) FinalAnswer() string {
	return a.final.String()
}
