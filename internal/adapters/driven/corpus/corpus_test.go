package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

func writeFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	knowledge := filepath.Join(dir, "processed_chunks.txt")
	prompt := filepath.Join(dir, "system_prompt.txt")
	require.NoError(t, os.WriteFile(knowledge, []byte("Agility Cup trials Monday.\n\nSpoorthi next week."), 0o600))
	require.NoError(t, os.WriteFile(prompt, []byte("You are a senior."), 0o600))
	return knowledge, prompt
}

func TestFileSource_Load(t *testing.T) {
	knowledge, prompt := writeFiles(t)
	src := NewFileSource(knowledge, prompt)

	text, err := src.LoadKnowledge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Agility Cup trials Monday.\n\nSpoorthi next week.", text)

	sys, err := src.LoadSystemPrompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "You are a senior.", sys)

	assert.Equal(t, knowledge, src.Describe())
	assert.Equal(t, []string{knowledge, prompt}, src.Paths())
}

func TestFileSource_ReadsFreshOnEachCall(t *testing.T) {
	knowledge, prompt := writeFiles(t)
	src := NewFileSource(knowledge, prompt)

	require.NoError(t, os.WriteFile(knowledge, []byte("Marathon on Sunday."), 0o600))

	text, err := src.LoadKnowledge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Marathon on Sunday.", text)
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.txt"), "")

	_, err := src.LoadKnowledge(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = src.LoadSystemPrompt(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestFileSource_CancelledContext(t *testing.T) {
	knowledge, prompt := writeFiles(t)
	src := NewFileSource(knowledge, prompt)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.LoadKnowledge(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "kb", "chunks.txt"), expandHome("~/kb/chunks.txt"))
	assert.Equal(t, "/abs/chunks.txt", expandHome("/abs/chunks.txt"))
	assert.Equal(t, "chunks.txt", expandHome("chunks.txt"))
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource("", "knowledge", "prompt")

	text, err := src.LoadKnowledge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "knowledge", text)

	sys, err := src.LoadSystemPrompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prompt", sys)

	assert.Equal(t, "static", src.Describe())
	assert.Equal(t, "demo", NewStaticSource("demo", "", "").Describe())
}
