// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sportscom/internal/core/domain"
)

// MatchList displays retrieval matches in a navigable list.
type MatchList struct {
	matches  []domain.Match
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewMatchList creates a new match list component.
func NewMatchList(s *styles.Styles) *MatchList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &MatchList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *MatchList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *MatchList) Update(msg tea.Msg) (*MatchList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *MatchList) View() string {
	if len(r.matches) == 0 {
		return r.styles.Muted.Render("No matching chunks")
	}

	lines := make([]string, 0, len(r.matches)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Matches (%d)", len(r.matches))), "")

	// Each match renders as two lines.
	visible := max((r.height-4)/2, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.matches))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderMatch(i, r.matches[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *MatchList) renderMatch(index int, m domain.Match) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("#%d", m.Chunk.Position)
	if len(m.Chunk.Events) > 0 {
		labels := make([]string, len(m.Chunk.Events))
		for i, e := range m.Chunk.Events {
			labels[i] = e.String()
		}
		head += " [" + strings.Join(labels, ", ") + "]"
	}
	score := fmt.Sprintf("%.3f", m.Score)

	var headLine string
	if index == r.selected {
		headLine = r.styles.Selected.Render(indicator + head + "  " + score)
	} else {
		headLine = r.styles.Normal.Render(indicator+head+"  ") + r.styles.Muted.Render(score)
	}

	return headLine + "\n" + r.styles.Muted.Render("    "+Truncate(oneLine(m.Chunk.Content), r.width-6))
}

// SelectedContent returns the full text of the selected match.
func (r *MatchList) SelectedContent() string {
	if r.selected < 0 || r.selected >= len(r.matches) {
		return ""
	}
	return r.matches[r.selected].Chunk.Content
}

// SetMatches replaces the list contents and resets the selection.
func (r *MatchList) SetMatches(matches []domain.Match) {
	r.matches = matches
	r.selected = 0
}

// Matches returns the current matches.
func (r *MatchList) Matches() []domain.Match {
	return r.matches
}

// Selected returns the index of the selected match.
func (r *MatchList) Selected() int {
	return r.selected
}

// MoveUp moves selection up.
func (r *MatchList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *MatchList) MoveDown() {
	if r.selected < len(r.matches)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *MatchList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of matches.
func (r *MatchList) Count() int {
	return len(r.matches)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	n = max(n, 20)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
