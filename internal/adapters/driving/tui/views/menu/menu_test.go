package menu

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	require.NotNil(t, view)
	assert.Len(t, view.items, 3)
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Update_Navigate(t *testing.T) {
	view := NewView(nil)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.Selected())

	j := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	view.Update(j)
	view.Update(j)
	assert.Equal(t, 2, view.Selected(), "stops at the last item")

	k := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	view.Update(k)
	view.Update(k)
	assert.Equal(t, 0, view.Selected(), "stops at the first item")
}

func TestView_Update_Enter(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		want     messages.ViewType
	}{
		{"chat", 0, messages.ViewChat},
		{"search", 1, messages.ViewSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewView(nil)
			view.cursor = tt.selected

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.NotNil(t, cmd)
			changed, ok := cmd().(messages.ViewChanged)
			require.True(t, ok)
			assert.Equal(t, tt.want, changed.View)
		})
	}
}

func TestView_Update_Quit(t *testing.T) {
	view := NewView(nil)
	view.cursor = 2

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_View(t *testing.T) {
	view := NewView(nil)
	assert.Contains(t, view.View(), "Initialising")

	view.SetDimensions(80, 24)
	output := view.View()

	assert.Contains(t, output, "SportsCom")
	assert.Contains(t, output, "Sports committee assistant")
	assert.Contains(t, output, "Chat")
	assert.Contains(t, output, "Search knowledge")
	assert.Contains(t, output, "> ")
	assert.Contains(t, output, "ask about events")
	assert.Contains(t, output, "[enter] select")
}

func TestView_StatsLoaded(t *testing.T) {
	view := NewView(nil)
	view.SetDimensions(120, 24)

	view.Update(messages.StatsLoaded{Stats: driving.KnowledgeStats{Source: "processed_chunks.txt", Chunks: 42}})
	assert.Contains(t, view.View(), "42 chunks from processed_chunks.txt")

	view.Update(messages.StatsLoaded{Err: errors.New("knowledge base not loaded")})
	assert.Contains(t, view.View(), "Knowledge base unavailable")
}
