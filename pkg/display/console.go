package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/loom/pkg/chat"
)

// Console renders the conversation to a line-oriented terminal writer. Open
// messages are updated in place: the lines printed for the previous state of
// a message are erased with ANSI cursor movement and the new state reprinted,
// which keeps a streaming reply growing inside a single visual block.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styles styleSet

	// lastID and lastLines track the message currently occupying the bottom
	// of the terminal so a republish of the same ID can overwrite it.
	lastID    string
	lastLines int
}

type styleSet struct {
	user      lipgloss.Style
	assistant lipgloss.Style
	system    lipgloss.Style
	errorMsg  lipgloss.Style
	tool      lipgloss.Style
	sender    lipgloss.Style
	writers   lipgloss.Style
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out: out,
		styles: styleSet{
			user:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
			assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
			system:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
			errorMsg:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
			tool:      lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")),
			sender:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
			writers:   lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Italic(true),
		},
	}
}

// MessageAdded prints a message, overwriting the previous print when the same
// identifier is republished back to back.
func (c *Console) MessageAdded(msg chat.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if msg.ID == c.lastID && c.lastLines > 0 {
		fmt.Fprintf(c.out, "\x1b[%dA\x1b[J", c.lastLines)
	}

	block := c.render(msg)
	fmt.Fprintln(c.out, block)

	c.lastID = msg.ID
	c.lastLines = strings.Count(block, "\n") + 1
}

// MessagesDeleted clears the terminal when the transcript is truncated from
// the start. Partial deletions are not distinguishable in a scrollback
// writer, so any truncation resets the screen.
func (c *Console) MessagesDeleted(startIndex, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if count == 0 {
		return
	}
	fmt.Fprint(c.out, "\x1b[2J\x1b[H")
	c.lastID = ""
	c.lastLines = 0
}

// WritersChanged shows a transient indicator line while a turn is live. The
// indicator is erased by the next MessageAdded overwrite or the settle call.
func (c *Console) WritersChanged(active []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(active) == 0 {
		return
	}
	line := c.styles.writers.Render(strings.Join(active, ", ") + " is responding")
	fmt.Fprintln(c.out, line)
	// The indicator occupies the bottom slot; a republish of the open
	// message must overwrite it too.
	if c.lastID != "" {
		c.lastLines++
	}
}

func (c *Console) render(msg chat.Message) string {
	style := c.styleFor(msg.Role)

	var b strings.Builder
	if msg.Sender != "" {
		b.WriteString(c.styles.sender.Render(msg.Sender))
		b.WriteString("\n")
	}

	content := msg.Content
	if content == "" {
		content = "…"
	}
	b.WriteString(style.Render(content))
	return b.String()
}

func (c *Console) styleFor(role string) lipgloss.Style {
	switch role {
	case chat.RoleUser:
		return c.styles.user
	case chat.RoleAssistant:
		return c.styles.assistant
	case chat.RoleError:
		return c.styles.errorMsg
	case chat.RoleTool:
		return c.styles.tool
	default:
		return c.styles.system
	}
}
