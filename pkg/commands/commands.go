package commands

import "strings"

// Command is an out-of-band conversation command. Match reports whether a
// submitted body invokes the command; Replacement is what a completion UI
// substitutes for the partial input on selection.
type Command struct {
	Name        string
	Description string
}

// Replacement returns the text that replaces the input when the command is
// chosen from a completion list.
func (c Command) Replacement() string {
	return c.Name
}

// Match reports whether body invokes this command: its first
// whitespace-delimited token must equal the command name exactly
// (case-sensitive).
func (c Command) Match(body string) bool {
	fields := strings.Fields(body)
	return len(fields) > 0 && fields[0] == c.Name
}

// Clear truncates the conversation. Submitting its replacement re-enters the
// normal send path, where the orchestrator short-circuits on the match.
var Clear = Command{
	Name:        "/clear",
	Description: "Clear the conversation history",
}

// Registry is the set of known commands a command-input UI queries.
type Registry struct {
	commands []Command
}

// NewRegistry returns a registry with the built-in commands.
func NewRegistry() *Registry {
	return &Registry{commands: []Command{Clear}}
}

// Complete returns the commands whose name starts with the partial token, in
// registration order.
func (r *Registry) Complete(partial string) []Command {
	var matches []Command
	for _, cmd := range r.commands {
		if strings.HasPrefix(cmd.Name, partial) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// All returns every registered command.
func (r *Registry) All() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}
