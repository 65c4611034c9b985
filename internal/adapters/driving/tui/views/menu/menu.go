// Package menu is the landing screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

// Item is one menu entry. Selecting an entry with Quit set exits the app.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("j/k", "navigate"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keySelect = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	keyQuit   = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
)

// View lists the entries and shows how much knowledge is loaded.
type View struct {
	styles *styles.Styles
	items  []Item
	cursor int

	width, height int
	ready         bool

	stats    *driving.KnowledgeStats
	statsErr error
}

func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		items: []Item{
			{Label: "Chat", Hint: "ask about events, trials and schedules", View: messages.ViewChat},
			{Label: "Search knowledge", Hint: "see which chunks match a query", View: messages.ViewSearch},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

func (v *View) Init() tea.Cmd { return nil }

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.StatsLoaded:
		v.stats, v.statsErr = nil, msg.Err
		if msg.Err == nil {
			stats := msg.Stats
			v.stats = &stats
		}

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keyUp):
		v.cursor = max(v.cursor-1, 0)
	case key.Matches(msg, keyDown):
		v.cursor = min(v.cursor+1, len(v.items)-1)
	case key.Matches(msg, keyQuit):
		return tea.Quit
	case key.Matches(msg, keySelect):
		item := v.items[v.cursor]
		if item.Quit {
			return tea.Quit
		}
		return func() tea.Msg { return messages.ViewChanged{View: item.View} }
	}
	return nil
}

func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("SportsCom") + "\n\n")
	b.WriteString(v.styles.Muted.Render(v.subtitle()) + "\n\n")

	for i, item := range v.items {
		line := "  " + v.styles.Normal.Render(item.Label)
		if i == v.cursor {
			line = "> " + v.styles.Selected.Render(item.Label)
		}
		if item.Hint != "" {
			line += "  " + v.styles.Muted.Render(item.Hint)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + v.styles.Help.Render(helpLine(keyUp, keySelect, keyQuit)))
	return b.String()
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		parts[i] = fmt.Sprintf("[%s] %s", kb.Help().Key, kb.Help().Desc)
	}
	return strings.Join(parts, "  ")
}

func (v *View) subtitle() string {
	switch {
	case v.statsErr != nil:
		return "Knowledge base unavailable: " + v.statsErr.Error()
	case v.stats != nil:
		return fmt.Sprintf("Sports committee assistant · %d chunks from %s", v.stats.Chunks, v.stats.Source)
	}
	return "Sports committee assistant"
}

func (v *View) SetDimensions(width, height int) {
	v.width, v.height, v.ready = width, height, true
}

// Selected is the index under the cursor.
func (v *View) Selected() int { return v.cursor }
