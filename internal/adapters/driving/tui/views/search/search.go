// Package search provides the retrieval inspection view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

// View shows the chunks a query would retrieve, with their scores.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Prompt
	list      *list.MatchList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	ctx       context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing, false = navigating matches
	showDetail bool
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, retrieval driving.RetrievalService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewPrompt(s, "Search", "e.g. agility cup team size"),
		list:       list.NewMatchList(s),
		statusbar:  status.NewBar(s, km, status.ModeSearch),
		retrieval:  retrieval,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Back) {
		if v.showDetail {
			v.showDetail = false
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.statusbar.Busy(status.StateSearching)
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case msg.Type == tea.KeyEnter:
		v.showDetail = !v.showDetail && v.list.Count() > 0
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.Reset()
	default:
		v.list.Update(msg)
	}
	return v, nil
}

func (v *View) performSearch(query string) tea.Cmd {
	retrieval := v.retrieval
	ctx := v.ctx
	return func() tea.Msg {
		if retrieval == nil {
			return messages.SearchCompleted{Query: query, Err: ErrNoRetrievalService}
		}
		matches, err := retrieval.Search(ctx, query, 0)
		return messages.SearchCompleted{Query: query, Matches: matches, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.Fail(msg.Err)
		return
	}

	v.err = nil
	v.list.SetMatches(msg.Matches)
	v.statusbar.Results(len(msg.Matches))
	v.focusInput = false
	v.input.Blur()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("SportsCom · knowledge search"), "",
		v.input.View(), "",
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.showDetail {
		detail := v.styles.Border.Padding(0, 1).Width(max(v.width-4, 20)).
			Render(v.list.SelectedContent())
		sections = append(sections, detail)
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// Matches returns the current matches.
func (v *View) Matches() []domain.Match {
	return v.list.Matches()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to input mode with no results.
func (v *View) Reset() {
	v.focusInput = true
	v.showDetail = false
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetMatches(nil)
	v.err = nil
	v.statusbar.Clear()
}
