package chat_test

import (
	"github.com/killallgit/loom/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tmc/langchaingo/llms"
)

var _ = Describe("History", func() {
	var history *chat.History

	BeforeEach(func() {
		history = chat.NewHistory()
	})

	Describe("Append and Entries", func() {
		It("should preserve append order", func() {
			history.Append(chat.NewHumanEntry("first"))
			history.Append(chat.NewAIEntry("second", nil))

			entries := history.Entries()
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Role).To(Equal(llms.ChatMessageTypeHuman))
			Expect(entries[1].Role).To(Equal(llms.ChatMessageTypeAI))
			Expect(chat.EntryText(entries[1])).To(Equal("second"))
		})

		It("should return a copy that does not alias internal state", func() {
			history.Append(chat.NewHumanEntry("hello"))

			entries := history.Entries()
			entries[0] = chat.NewHumanEntry("mutated")

			Expect(chat.EntryText(history.Entries()[0])).To(Equal("hello"))
		})
	})

	Describe("Clear", func() {
		It("should truncate the whole buffer", func() {
			history.Append(chat.NewHumanEntry("one"))
			history.Append(chat.NewAIEntry("two", nil))

			history.Clear()

			Expect(history.Len()).To(BeZero())
			Expect(history.Entries()).To(BeEmpty())
		})
	})

	Describe("entry constructors", func() {
		It("should carry tool calls inside AI entries", func() {
			call := llms.ToolCall{
				ID:   "call-1",
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      "clock",
					Arguments: `{"tz":"UTC"}`,
				},
			}
			entry := chat.NewAIEntry("checking", []llms.ToolCall{call})

			Expect(entry.Role).To(Equal(llms.ChatMessageTypeAI))
			Expect(chat.EntryText(entry)).To(Equal("checking"))
			Expect(chat.EntryToolCalls(entry)).To(HaveLen(1))
			Expect(chat.EntryToolCalls(entry)[0].FunctionCall.Name).To(Equal("clock"))
		})

		It("should carry results inside tool entries", func() {
			entry := chat.NewToolEntry("call-1", "clock", "12:00")

			Expect(entry.Role).To(Equal(llms.ChatMessageTypeTool))
			responses := chat.EntryToolResponses(entry)
			Expect(responses).To(HaveLen(1))
			Expect(responses[0].Name).To(Equal("clock"))
			Expect(responses[0].Content).To(Equal("12:00"))
		})
	})

	Describe("Coalesce", func() {
		It("should merge adjacent same-role entries into one", func() {
			entries := []llms.MessageContent{
				chat.NewHumanEntry("part one"),
				chat.NewHumanEntry("part two"),
				chat.NewAIEntry("reply", nil),
			}

			merged := chat.Coalesce(entries)

			Expect(merged).To(HaveLen(2))
			Expect(chat.EntryText(merged[0])).To(Equal("part one\n\npart two"))
			Expect(chat.EntryText(merged[1])).To(Equal("reply"))
		})

		It("should keep tool-call parts while merging text", func() {
			call := llms.ToolCall{ID: "c1", Type: "function", FunctionCall: &llms.FunctionCall{Name: "clock", Arguments: "{}"}}
			entries := []llms.MessageContent{
				chat.NewAIEntry("thinking", nil),
				chat.NewAIEntry("", []llms.ToolCall{call}),
			}

			merged := chat.Coalesce(entries)

			Expect(merged).To(HaveLen(1))
			Expect(chat.EntryText(merged[0])).To(Equal("thinking"))
			Expect(chat.EntryToolCalls(merged[0])).To(HaveLen(1))
		})

		It("should not merge entries separated by a different role", func() {
			entries := []llms.MessageContent{
				chat.NewHumanEntry("a"),
				chat.NewAIEntry("b", nil),
				chat.NewHumanEntry("c"),
			}

			Expect(chat.Coalesce(entries)).To(HaveLen(3))
		})

		It("should handle empty input", func() {
			Expect(chat.Coalesce(nil)).To(BeEmpty())
		})
	})
})
