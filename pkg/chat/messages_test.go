package chat_test

import (
	"time"

	"github.com/killallgit/loom/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Messages", func() {
	Describe("NewUserMessage", func() {
		It("should create a completed user message with trimmed content", func() {
			msg := chat.NewUserMessage("  Hello World  ", "alice")

			Expect(msg.Role).To(Equal(chat.RoleUser))
			Expect(msg.Content).To(Equal("Hello World"))
			Expect(msg.Sender).To(Equal("alice"))
			Expect(msg.Completed).To(BeTrue())
			Expect(msg.ID).ToNot(BeEmpty())
			Expect(msg.Type).To(Equal(chat.TypeMessage))
			Expect(msg.Timestamp).To(BeTemporally("~", time.Now(), time.Second))
		})

		It("should treat whitespace-only content as empty", func() {
			msg := chat.NewUserMessage("   ", "alice")

			Expect(msg.IsEmpty()).To(BeTrue())
		})
	})

	Describe("NewAssistantMessage", func() {
		It("should create an open message with a stable identifier", func() {
			msg := chat.NewAssistantMessage("assistant")

			Expect(msg.Role).To(Equal(chat.RoleAssistant))
			Expect(msg.Completed).To(BeFalse())
			Expect(msg.Content).To(BeEmpty())
			Expect(msg.ID).ToNot(BeEmpty())
		})
	})

	Describe("WithContent", func() {
		It("should keep the identity while mutating the body", func() {
			msg := chat.NewAssistantMessage("assistant")
			updated := msg.WithContent("Hi")

			Expect(updated.ID).To(Equal(msg.ID))
			Expect(updated.Content).To(Equal("Hi"))
			// Original value unchanged
			Expect(msg.Content).To(BeEmpty())
		})

		It("should refuse mutation after completion", func() {
			msg := chat.NewAssistantMessage("assistant").WithContent("final").Complete()
			updated := msg.WithContent("overwritten")

			Expect(updated.Content).To(Equal("final"))
			Expect(updated.Completed).To(BeTrue())
		})
	})

	Describe("role helpers", func() {
		It("should identify roles", func() {
			Expect(chat.NewUserMessage("hi", "u").IsUser()).To(BeTrue())
			Expect(chat.NewAssistantMessage("a").IsAssistant()).To(BeTrue())
			Expect(chat.NewSystemMessage("s").IsSystem()).To(BeTrue())
			Expect(chat.NewErrorMessage("boom").IsError()).To(BeTrue())
		})
	})
})
