package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/views/search"
)

const windowTitle = "SportsCom"

var _ tea.Model = (*App)(nil)

// App routes Bubble Tea messages between the menu, chat and search views.
// Only the active view receives key presses; service results always go to
// the view that asked for them.
type App struct {
	ports *Ports
	ctx   context.Context

	menu   *menu.View
	chat   *chat.View
	search *search.View
	active messages.ViewType

	width, height int
	ready         bool
}

// NewApp fails when the chat or retrieval port is missing.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	theme, keys := styles.DefaultStyles(), keymap.DefaultKeyMap()
	return &App{
		ports:  ports,
		ctx:    context.Background(),
		menu:   menu.NewView(theme),
		chat:   chat.NewView(theme, keys, ports.Chat),
		search: search.NewView(theme, keys, ports.Retrieval),
		active: messages.ViewMenu,
	}, nil
}

// WithContext sets the context passed to service calls. Cancelling it also
// stops the program started by Run.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chat.WithContext(ctx)
	a.search.WithContext(ctx)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(windowTitle), a.loadStats())
}

// loadStats is nil when no knowledge service is wired.
func (a *App) loadStats() tea.Cmd {
	knowledge := a.ports.Knowledge
	if knowledge == nil {
		return nil
	}
	return func() tea.Msg {
		stats, err := knowledge.Stats()
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	case messages.ViewChanged:
		return a, a.switchTo(msg.View)
	case messages.StatsLoaded:
		return a, a.forward(messages.ViewMenu, msg)
	case messages.ReplyReceived:
		return a, a.forward(messages.ViewChat, msg)
	case messages.SearchCompleted:
		return a, a.forward(messages.ViewSearch, msg)
	}
	return a, a.forward(a.active, msg)
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.active = view
	switch view {
	case messages.ViewChat:
		return a.chat.Init()
	case messages.ViewSearch:
		a.search.Reset()
		return a.search.Init()
	case messages.ViewMenu:
		return a.loadStats()
	}
	return nil
}

func (a *App) forward(view messages.ViewType, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch view {
	case messages.ViewMenu:
		a.menu, cmd = a.menu.Update(msg)
	case messages.ViewChat:
		a.chat, cmd = a.chat.Update(msg)
	case messages.ViewSearch:
		a.search, cmd = a.search.Update(msg)
	}
	return cmd
}

func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	switch a.active {
	case messages.ViewChat:
		return a.chat.View()
	case messages.ViewSearch:
		return a.search.View()
	}
	return a.menu.View()
}

// Run blocks until the user quits or the context is cancelled.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	return err
}

func (a *App) CurrentView() messages.ViewType { return a.active }

// Ready reports whether a window size has arrived.
func (a *App) Ready() bool { return a.ready }

func (a *App) SetDimensions(width, height int) {
	a.width, a.height, a.ready = width, height, true
	a.menu.SetDimensions(width, height)
	a.chat.SetDimensions(width, height)
	a.search.SetDimensions(width, height)
}
