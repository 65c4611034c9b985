// Package status renders the one-line bar under the chat and search views.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/styles"
)

// State is what the bar is currently reporting.
type State string

const (
	StateReady     State = "ready"
	StateThinking  State = "thinking"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
)

// Mode picks the key hints on the right-hand side.
type Mode int

const (
	ModeChat Mode = iota
	ModeSearch
)

const defaultWidth = 80

// Bar shows the view's state on the left and key hints on the right.
type Bar struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	mode   Mode

	state State
	note  string
	count int
	width int
}

// NewBar builds a bar in the ready state. Nil styles or keys use the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap, mode Mode) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keys: km, mode: mode, state: StateReady, width: defaultWidth}
}

// Busy marks a request in flight: StateThinking or StateSearching.
func (b *Bar) Busy(state State) {
	b.state, b.note = state, ""
}

// Fail reports err until the next state change.
func (b *Bar) Fail(err error) {
	b.state, b.note = StateError, ""
	if err != nil {
		b.note = err.Error()
	}
}

// Done returns to ready with an optional note, such as the reply kind.
func (b *Bar) Done(note string) {
	b.state, b.note = StateReady, note
}

// Results shows how many matches a search returned.
func (b *Bar) Results(n int) {
	b.state, b.note, b.count = StateResults, "", n
}

// Clear goes back to a bare ready state.
func (b *Bar) Clear() {
	b.state, b.note, b.count = StateReady, "", 0
}

func (b *Bar) State() State       { return b.state }
func (b *Bar) Message() string    { return b.note }
func (b *Bar) ResultCount() int   { return b.count }
func (b *Bar) Width() int         { return b.width }
func (b *Bar) SetWidth(width int) { b.width = width }

func (b *Bar) View() string {
	left, right := b.status(), b.hints()
	gap := max(b.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) status() string {
	switch b.state {
	case StateThinking:
		return b.styles.Muted.Render("Thinking...")
	case StateSearching:
		return b.styles.Muted.Render("Searching...")
	case StateError:
		if b.note == "" {
			return b.styles.Error.Render("Error")
		}
		return b.styles.Error.Render("Error: " + b.note)
	case StateResults:
		return b.styles.Normal.Render(fmt.Sprintf("%d matches", b.count))
	}
	if b.note != "" {
		return b.styles.Muted.Render(b.note)
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) hints() string {
	var bindings []key.Binding
	switch {
	case b.mode == ModeChat:
		bindings = b.keys.ChatHelp()
	case b.state == StateResults:
		bindings = b.keys.ResultsHelp()
	default:
		bindings = []key.Binding{b.keys.Back, b.keys.Quit}
	}

	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		parts[i] = kb.Help().Key + ": " + kb.Help().Desc
	}
	return b.styles.Muted.Render(strings.Join(parts, " | "))
}
