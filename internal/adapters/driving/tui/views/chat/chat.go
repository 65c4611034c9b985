// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

const (
	userName = "You"
	botName  = "SportsCom"
	greeting = "Hey! Ask me anything about Agility Cup, Spoorthi or other sports committee events."
)

// chromeHeight is the space taken by the title, input and status bar.
const chromeHeight = 8

type turn struct {
	speaker string
	text    string
	kind    domain.ReplyKind
	reason  string
}

// View is a scrolling transcript with an input line.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Prompt
	viewport  viewport.Model
	statusbar *status.Bar

	chat driving.ChatService
	ctx  context.Context

	turns       []turn
	lastReply   *domain.Reply
	showContext bool
	pending     bool

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chat driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewPrompt(s, userName, "Type a message..."),
		viewport:  viewport.New(80, 24-chromeHeight),
		statusbar: status.NewBar(s, km, status.ModeChat),
		chat:      chat,
		ctx:       context.Background(),
		turns:     []turn{{speaker: botName, text: greeting}},
		width:     80,
		height:    24,
	}
	v.refresh()
	return v
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

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ReplyReceived:
		v.handleReply(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(key, v.keymap.Send):
		if v.pending {
			return v, nil
		}
		text := v.input.Value()
		v.input.Reset()
		v.turns = append(v.turns, turn{speaker: userName, text: text})
		v.pending = true
		v.statusbar.Busy(status.StateThinking)
		v.refresh()
		return v, v.ask(text)

	case keymap.Matches(key, v.keymap.Context):
		v.showContext = !v.showContext
		v.refresh()
		return v, nil

	case keymap.Matches(key, v.keymap.Up), keymap.Matches(key, v.keymap.Down):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) ask(message string) tea.Cmd {
	chat := v.chat
	ctx := v.ctx
	return func() tea.Msg {
		if chat == nil {
			return messages.ReplyReceived{Message: message, Err: ErrNoChatService}
		}
		reply, err := chat.Ask(ctx, message)
		return messages.ReplyReceived{Message: message, Reply: reply, Err: err}
	}
}

func (v *View) handleReply(msg messages.ReplyReceived) {
	v.pending = false

	text := msg.Reply.Text
	if text == "" && msg.Err != nil {
		text = msg.Err.Error()
	}
	v.turns = append(v.turns, turn{
		speaker: botName,
		text:    text,
		kind:    msg.Reply.Kind,
		reason:  msg.Reply.Reason,
	})

	reply := msg.Reply
	v.lastReply = &reply

	if msg.Err != nil {
		v.statusbar.Fail(msg.Err)
	} else {
		v.statusbar.Done(string(msg.Reply.Kind))
	}
	v.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(v.width-2, 20))

	blocks := make([]string, 0, len(v.turns)+1)
	for _, t := range v.turns {
		speaker := v.styles.BotSpeaker
		if t.speaker == userName {
			speaker = v.styles.UserSpeaker
		}
		block := speaker.Render(t.speaker+": ") + v.styles.Normal.Render(t.text)
		if t.kind == domain.ReplyFallback {
			note := "fallback"
			if t.reason != "" {
				note += ": " + t.reason
			}
			block += "\n" + v.styles.Fallback.Render("("+note+")")
		}
		blocks = append(blocks, wrap.Render(block))
	}

	if v.pending {
		blocks = append(blocks, v.styles.Muted.Render(botName+" is typing..."))
	}

	if v.showContext && v.lastReply != nil {
		ctxText := v.lastReply.Context
		if ctxText == "" {
			ctxText = "(no knowledge context was used)"
		}
		blocks = append(blocks, v.styles.Border.Padding(0, 1).Width(max(v.width-4, 20)).
			Render(v.styles.Subtitle.Render("Context")+"\n"+ctxText))
	}

	return strings.Join(blocks, "\n\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("SportsCom"),
		"",
		v.viewport.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = width
	v.viewport.Height = max(height-chromeHeight, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Pending reports whether a reply is outstanding.
func (v *View) Pending() bool {
	return v.pending
}

// Transcript returns the conversation as "speaker: text" lines.
func (v *View) Transcript() []string {
	out := make([]string, len(v.turns))
	for i, t := range v.turns {
		out[i] = t.speaker + ": " + t.text
	}
	return out
}
