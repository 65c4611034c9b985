// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette. The defaults follow the committee's
// orange and navy jerseys.
type Theme struct {
	// Accent marks the bot, titles and the selected row.
	Accent lipgloss.Color

	// Player marks the person chatting.
	Player lipgloss.Color

	// Text is the default foreground.
	Text lipgloss.Color

	// Faint is for hints, previews and help.
	Faint lipgloss.Color

	// Caution marks fallback replies.
	Caution lipgloss.Color

	// Alert marks errors.
	Alert lipgloss.Color

	// Line is used for borders.
	Line lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#F97316"),
		Player:  lipgloss.Color("#38BDF8"),
		Text:    lipgloss.Color("#E2E8F0"),
		Faint:   lipgloss.Color("#64748B"),
		Caution: lipgloss.Color("#FACC15"),
		Alert:   lipgloss.Color("#F87171"),
		Line:    lipgloss.Color("#334155"),
		Bar:     lipgloss.Color("#0F172A"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style

	// InputField frames the prompt line.
	InputField lipgloss.Style

	// StatusBar is the bottom line of every view.
	StatusBar lipgloss.Style

	// Border frames the context panel and result details.
	Border lipgloss.Style

	// UserSpeaker and BotSpeaker label transcript turns.
	UserSpeaker lipgloss.Style
	BotSpeaker  lipgloss.Style

	// Fallback annotates replies that did not come from the model.
	Fallback lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	framed := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Line)

	return &Styles{
		theme:       theme,
		Title:       fg(theme.Accent).Bold(true),
		Subtitle:    fg(theme.Player).Bold(true),
		Normal:      fg(theme.Text),
		Muted:       fg(theme.Faint),
		Selected:    fg(theme.Text).Background(theme.Accent).Bold(true),
		Error:       fg(theme.Alert),
		Help:        fg(theme.Faint),
		InputField:  framed.Padding(0, 1),
		StatusBar:   fg(theme.Faint).Background(theme.Bar).Padding(0, 1),
		Border:      framed,
		UserSpeaker: fg(theme.Player).Bold(true),
		BotSpeaker:  fg(theme.Accent).Bold(true),
		Fallback:    fg(theme.Caution).Italic(true),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
